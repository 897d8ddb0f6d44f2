// Package summarizer wraps the Hugging Face inference API behind a
// narrow contract: given document text, return a summary or report that
// none is available. Model selection, retries, and transient
// model-loading states all stay inside this package.
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/clearterms/clearterms/internal/config"
	"github.com/clearterms/clearterms/internal/logger"
	"go.uber.org/zap"
)

// HFClient calls the Hugging Face inference API, trying models in
// preference order with a bounded retry count per model.
type HFClient struct {
	cfg        config.SummarizerConfig
	httpClient *http.Client
	logger     *logger.Logger
}

// NewHFClient creates a summarization client from configuration.
func NewHFClient(cfg config.SummarizerConfig, log *logger.Logger) *HFClient {
	return &HFClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log,
	}
}

// Configured reports whether an API key is set.
func (c *HFClient) Configured() bool {
	return c.cfg.APIKey != ""
}

// Models returns the configured model preference order.
func (c *HFClient) Models() []string {
	return c.cfg.Models
}

// Summarize tries each configured model in order and returns the first
// non-empty summary. All failure modes collapse into ErrUnavailable.
func (c *HFClient) Summarize(ctx context.Context, text string) (string, error) {
	if !c.cfg.Enabled {
		return "", ErrUnavailable
	}

	prepared := prepareText(text)

	for _, model := range c.cfg.Models {
		summary, err := c.callModel(ctx, model, prepared)
		if err != nil {
			c.logger.Warn("Summarization model failed",
				zap.String("model", model),
				zap.Error(err),
			)
			continue
		}
		if summary != "" {
			c.logger.Info("Summary generated", zap.String("model", model))
			return summary, nil
		}
	}

	c.logger.Info("All summarization models failed, falling back to rule-based summary")
	return "", ErrUnavailable
}

// callModel performs the request/retry loop against one model. An HTTP
// 503 means the model is still loading upstream and is worth waiting
// out; other non-200 statuses abort the model immediately.
func (c *HFClient) callModel(ctx context.Context, model, text string) (string, error) {
	payload, err := json.Marshal(modelRequest{
		Inputs: text,
		Parameters: modelParameters{
			MaxLength:     c.cfg.MaxSummaryWords,
			MinLength:     40,
			DoSample:      false,
			EarlyStopping: true,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", strings.TrimSuffix(c.cfg.BaseURL, "/"), model)

	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		summary, retry, err := c.doRequest(ctx, url, payload)
		if err == nil {
			return summary, nil
		}
		lastErr = err
		if !retry {
			return "", err
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.cfg.ModelLoadWait):
		}
	}

	return "", lastErr
}

// doRequest performs one API call. The second return value indicates
// whether the failure is transient and worth retrying.
func (c *HFClient) doRequest(ctx context.Context, url string, payload []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		summary, err := parseSummary(resp.Body)
		if err != nil {
			return "", false, err
		}
		return summary, false, nil

	case resp.StatusCode == http.StatusServiceUnavailable:
		// Model loading upstream
		return "", true, fmt.Errorf("model loading (HTTP 503)")

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", false, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}
}

// parseSummary accepts both response shapes the API produces: a list of
// summary objects or a single object.
func parseSummary(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	var list []modelResponse
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) == 0 {
			return "", nil
		}
		return strings.TrimSpace(list[0].SummaryText), nil
	}

	var single modelResponse
	if err := json.Unmarshal(data, &single); err != nil {
		return "", fmt.Errorf("malformed response: %w", err)
	}
	return strings.TrimSpace(single.SummaryText), nil
}
