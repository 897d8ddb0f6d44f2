package summarizer

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when no backing model produced a summary.
// Callers route it to the rule-based fallback; it is never surfaced to
// API clients.
var ErrUnavailable = errors.New("summarizer: no summary available")

// Summarizer produces a natural-language summary of document text, or
// ErrUnavailable when it cannot.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
	Configured() bool
}

// modelRequest is the inference API request payload.
type modelRequest struct {
	Inputs     string          `json:"inputs"`
	Parameters modelParameters `json:"parameters"`
}

type modelParameters struct {
	MaxLength     int  `json:"max_length"`
	MinLength     int  `json:"min_length"`
	DoSample      bool `json:"do_sample"`
	EarlyStopping bool `json:"early_stopping"`
}

// modelResponse is one summary object; the API returns either a single
// object or a list of them.
type modelResponse struct {
	SummaryText string `json:"summary_text"`
}
