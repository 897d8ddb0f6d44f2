package summarizer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clearterms/clearterms/internal/config"
	"github.com/clearterms/clearterms/internal/logger"
)

func testConfig(baseURL string, models ...string) config.SummarizerConfig {
	return config.SummarizerConfig{
		Enabled:         true,
		APIKey:          "test-key",
		BaseURL:         baseURL,
		Models:          models,
		Timeout:         2 * time.Second,
		MaxRetries:      2,
		ModelLoadWait:   10 * time.Millisecond,
		MaxSummaryWords: 150,
	}
}

func TestHFClientSummarize(t *testing.T) {
	t.Run("ListShapedResponse", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
				t.Errorf("Missing auth header, got %q", got)
			}
			w.Write([]byte(`[{"summary_text": "  A concise summary.  "}]`))
		}))
		defer server.Close()

		client := NewHFClient(testConfig(server.URL, "model-a"), logger.NewNop())
		got, err := client.Summarize(context.Background(), "some document text")
		if err != nil {
			t.Fatalf("Summarize failed: %v", err)
		}
		if got != "A concise summary." {
			t.Errorf("Expected trimmed summary, got %q", got)
		}
	})

	t.Run("ObjectShapedResponse", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"summary_text": "Object shaped."}`))
		}))
		defer server.Close()

		client := NewHFClient(testConfig(server.URL, "model-a"), logger.NewNop())
		got, err := client.Summarize(context.Background(), "some document text")
		if err != nil {
			t.Fatalf("Summarize failed: %v", err)
		}
		if got != "Object shaped." {
			t.Errorf("Expected object summary, got %q", got)
		}
	})

	t.Run("FallsThroughToNextModel", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.Path, "model-a") {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`[{"summary_text": "From the fallback model."}]`))
		}))
		defer server.Close()

		client := NewHFClient(testConfig(server.URL, "model-a", "model-b"), logger.NewNop())
		got, err := client.Summarize(context.Background(), "some document text")
		if err != nil {
			t.Fatalf("Summarize failed: %v", err)
		}
		if got != "From the fallback model." {
			t.Errorf("Expected fallback model summary, got %q", got)
		}
	})

	t.Run("RetriesOnModelLoading", func(t *testing.T) {
		var calls int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt64(&calls, 1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`[{"summary_text": "Ready after load."}]`))
		}))
		defer server.Close()

		client := NewHFClient(testConfig(server.URL, "model-a"), logger.NewNop())
		got, err := client.Summarize(context.Background(), "some document text")
		if err != nil {
			t.Fatalf("Summarize failed: %v", err)
		}
		if got != "Ready after load." {
			t.Errorf("Expected summary after retry, got %q", got)
		}
		if atomic.LoadInt64(&calls) != 2 {
			t.Errorf("Expected 2 attempts, got %d", calls)
		}
	})

	t.Run("AllModelsFail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewHFClient(testConfig(server.URL, "model-a", "model-b"), logger.NewNop())
		if _, err := client.Summarize(context.Background(), "some document text"); err != ErrUnavailable {
			t.Errorf("Expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("MalformedResponse", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json at all`))
		}))
		defer server.Close()

		client := NewHFClient(testConfig(server.URL, "model-a"), logger.NewNop())
		if _, err := client.Summarize(context.Background(), "some document text"); err != ErrUnavailable {
			t.Errorf("Expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		cfg := testConfig("http://unused", "model-a")
		cfg.Enabled = false

		client := NewHFClient(cfg, logger.NewNop())
		if _, err := client.Summarize(context.Background(), "some document text"); err != ErrUnavailable {
			t.Errorf("Expected ErrUnavailable when disabled, got %v", err)
		}
	})

	t.Run("Configured", func(t *testing.T) {
		client := NewHFClient(testConfig("http://unused", "model-a"), logger.NewNop())
		if !client.Configured() {
			t.Error("Expected Configured with API key set")
		}

		cfg := testConfig("http://unused", "model-a")
		cfg.APIKey = ""
		client = NewHFClient(cfg, logger.NewNop())
		if client.Configured() {
			t.Error("Expected not Configured without API key")
		}
	})
}

func TestPrepareText(t *testing.T) {
	t.Run("PrioritizesPolicySentences", func(t *testing.T) {
		text := "The weather was lovely on the day the company was founded here. " +
			"We collect personal data and share information under this privacy policy agreement."

		got := prepareText(text)
		if !strings.HasPrefix(got, "We collect personal data") {
			t.Errorf("Policy sentence should be packed first: %q", got)
		}
	})

	t.Run("CapsOutputLength", func(t *testing.T) {
		text := strings.Repeat("We collect your data under this privacy policy and share information with partners. ", 100)
		got := prepareText(text)
		if len(got) > maxAPIChars+2 {
			t.Errorf("Prepared text too long: %d chars", len(got))
		}
	})

	t.Run("FallsBackToTruncatedOriginal", func(t *testing.T) {
		// Sentences all below the 20-char floor fall back to the raw text
		text := strings.Repeat("Tiny bit. ", 500)
		got := prepareText(text)
		if got == "" {
			t.Error("Prepared text should not be empty")
		}
		if len(got) > maxAPIChars {
			t.Errorf("Fallback text too long: %d chars", len(got))
		}
	})

	t.Run("DropsShortFragments", func(t *testing.T) {
		text := "Ok. We collect your personal data under this policy with your agreement."
		got := prepareText(text)
		if strings.Contains(got, "Ok") {
			t.Errorf("Short fragment should be dropped: %q", got)
		}
	})
}
