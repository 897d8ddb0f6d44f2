package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/clearterms/clearterms/internal/analysis"
	"github.com/clearterms/clearterms/internal/cache"
	"github.com/clearterms/clearterms/internal/events"
	"go.uber.org/zap"
)

const (
	summarySourceAPI       = "huggingface_api"
	summarySourceRuleBased = "rule_based"
)

// analyzeRequest is the request payload for both analysis endpoints
type analyzeRequest struct {
	Text string `json:"text"`
}

// responseMetadata carries derived values alongside the category map
type responseMetadata struct {
	WordCount       int            `json:"word_count"`
	TotalConcerns   int            `json:"total_concerns"`
	RiskLevel       analysis.Level `json:"risk_level"`
	CategoriesFound int            `json:"categories_found"`
	SummarySource   string         `json:"summary_source,omitempty"`
	AnalysisType    string         `json:"analysis_type,omitempty"`
}

// analyzeResponse is the response body for both analysis endpoints
type analyzeResponse struct {
	Summary    string                              `json:"summary,omitempty"`
	Categories map[string]*analysis.CategoryResult `json:"categories"`
	Metadata   responseMetadata                    `json:"metadata"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleSummarize runs the full analysis and attempts an AI summary,
// falling back to the rule-based synopsis when none is available.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := getRequestID(r.Context())
	log := s.logger.WithRequestID(requestID)

	text, wordCount, ok := s.readAnalysisInput(w, r)
	if !ok {
		return
	}

	log.Info("Analyzing document", zap.Int("word_count", wordCount))

	normalized := s.analyzer.Normalize(text)

	var result *analysis.Result
	var summary, source string

	if cached := s.lookupCache(r, normalized); cached != nil && cached.Summary != "" {
		result = cachedResult(cached)
		summary = cached.Summary
		source = cached.SummarySource
	} else {
		if cached != nil {
			result = cachedResult(cached)
		} else {
			result = s.analyzer.Analyze(normalized)
		}

		if aiSummary, err := s.summarizer.Summarize(r.Context(), normalized); err == nil && aiSummary != "" {
			summary = aiSummary
			source = summarySourceAPI
		} else {
			summary = s.analyzer.Summary(result)
			source = summarySourceRuleBased
		}

		s.storeCache(r, normalized, result, summary, source)
	}

	log.Info("Analysis complete",
		zap.Int("total_concerns", result.TotalConcerns),
		zap.String("risk_level", string(result.RiskLevel)),
		zap.String("summary_source", source),
	)

	s.broadcastAnalysis(r, requestID, wordCount, result, source, time.Since(start))

	writeJSON(w, http.StatusOK, analyzeResponse{
		Summary:    summary,
		Categories: result.Categories,
		Metadata: responseMetadata{
			WordCount:       wordCount,
			TotalConcerns:   result.TotalConcerns,
			RiskLevel:       result.RiskLevel,
			CategoriesFound: len(result.Categories),
			SummarySource:   source,
			AnalysisType:    "hybrid",
		},
	})
}

// handleCategoriesOnly runs category analysis without summarization
func (s *Server) handleCategoriesOnly(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := getRequestID(r.Context())

	text, wordCount, ok := s.readAnalysisInput(w, r)
	if !ok {
		return
	}

	normalized := s.analyzer.Normalize(text)

	var result *analysis.Result
	if cached := s.lookupCache(r, normalized); cached != nil {
		result = cachedResult(cached)
	} else {
		result = s.analyzer.Analyze(normalized)
		s.storeCache(r, normalized, result, "", "")
	}

	s.broadcastAnalysis(r, requestID, wordCount, result, "", time.Since(start))

	writeJSON(w, http.StatusOK, analyzeResponse{
		Categories: result.Categories,
		Metadata: responseMetadata{
			WordCount:       wordCount,
			TotalConcerns:   result.TotalConcerns,
			RiskLevel:       result.RiskLevel,
			CategoriesFound: len(result.Categories),
		},
	})
}

// handleHealth reports service health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"features":       []string{"semantic_analysis", "huggingface_api_summaries"},
		"api_configured": s.summarizer.Configured(),
	})
}

// handleAPIStatus reports summarizer configuration and cache counters
func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	models := s.summarizer.Models()
	status := map[string]interface{}{
		"huggingface_configured": s.summarizer.Configured(),
		"available_models":       models,
		"cache_enabled":          s.cache != nil,
	}
	if len(models) > 0 {
		status["primary_model"] = models[0]
	}
	if s.cache != nil {
		if stats, err := s.cache.GetStats(r.Context()); err == nil {
			status["cache"] = stats
		}
	}
	writeJSON(w, http.StatusOK, status)
}

// handleCacheClear drops all cached analyses
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.Clear(r.Context()); err != nil {
		s.logger.Error("Failed to clear analysis cache", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to clear cache"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// readAnalysisInput decodes and validates the request payload. Inputs
// below the word minimum are too short to analyze meaningfully.
func (s *Server) readAnalysisInput(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON payload"})
		return "", 0, false
	}

	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No text provided"})
		return "", 0, false
	}

	wordCount := len(strings.Fields(req.Text))
	if wordCount < s.config.Analysis.MinRequestWords {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("Text too short for analysis (minimum %d words)", s.config.Analysis.MinRequestWords),
		})
		return "", 0, false
	}

	return req.Text, wordCount, true
}

func (s *Server) lookupCache(r *http.Request, normalized string) *cache.CachedAnalysis {
	if s.cache == nil {
		return nil
	}
	return s.cache.Get(r.Context(), normalized)
}

func (s *Server) storeCache(r *http.Request, normalized string, result *analysis.Result, summary, source string) {
	if s.cache == nil {
		return
	}
	entry := &cache.CachedAnalysis{
		Categories:    result.Categories,
		Order:         result.Order,
		TotalConcerns: result.TotalConcerns,
		RiskLevel:     result.RiskLevel,
		Summary:       summary,
		SummarySource: source,
	}
	if err := s.cache.Store(r.Context(), normalized, entry); err != nil {
		s.logger.Warn("Failed to store analysis in cache", zap.Error(err))
	}
}

func cachedResult(cached *cache.CachedAnalysis) *analysis.Result {
	return &analysis.Result{
		Categories:    cached.Categories,
		Order:         cached.Order,
		TotalConcerns: cached.TotalConcerns,
		RiskLevel:     cached.RiskLevel,
	}
}

func (s *Server) broadcastAnalysis(r *http.Request, requestID string, wordCount int, result *analysis.Result, source string, duration time.Duration) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(events.Event{
		Type:      events.EventTypeAnalysis,
		Timestamp: time.Now(),
		RequestID: requestID,
		Data: events.AnalysisEvent{
			RequestID:       requestID,
			Path:            r.URL.Path,
			WordCount:       wordCount,
			TotalConcerns:   result.TotalConcerns,
			CategoriesFound: len(result.Categories),
			RiskLevel:       string(result.RiskLevel),
			SummarySource:   source,
			ProcessingMS:    float64(duration.Nanoseconds()) / 1e6,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
