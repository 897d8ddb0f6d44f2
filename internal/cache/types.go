package cache

import (
	"time"

	"github.com/clearterms/clearterms/internal/analysis"
)

// CachedAnalysis is one stored analysis response
type CachedAnalysis struct {
	Categories    map[string]*analysis.CategoryResult `json:"categories"`
	Order         []string                            `json:"order"`
	TotalConcerns int                                 `json:"total_concerns"`
	RiskLevel     analysis.Level                      `json:"risk_level"`
	Summary       string                              `json:"summary,omitempty"`
	SummarySource string                              `json:"summary_source,omitempty"`
	CachedAt      time.Time                           `json:"cached_at"`
}

// Stats reports cache performance counters
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	HitRate   float64 `json:"hit_rate"`
	TotalKeys int64   `json:"total_keys"`
}
