// Package analysis implements the clause extraction and risk scoring
// engine for terms-of-service documents. An Analyzer scans normalized
// text against a fixed taxonomy of concern categories, surfaces up to a
// handful of representative sentences per category, and derives an
// aggregate risk level from what it found.
package analysis

import (
	"github.com/clearterms/clearterms/internal/config"
	"github.com/clearterms/clearterms/internal/logger"
	"go.uber.org/zap"
)

// Analyzer runs categorized clause analysis over document text. It
// holds only immutable state and is safe for concurrent use.
type Analyzer struct {
	taxonomy  *Taxonomy
	extractor *extractor
	cfg       config.AnalysisConfig
	logger    *logger.Logger
}

// New creates an analyzer over the given taxonomy.
func New(taxonomy *Taxonomy, cfg config.AnalysisConfig, log *logger.Logger) *Analyzer {
	a := &Analyzer{
		taxonomy:  taxonomy,
		extractor: newExtractor(cfg.MinSentenceLength, cfg.MaxSentenceLength, cfg.MaxItemsPerTopic),
		cfg:       cfg,
		logger:    log,
	}

	log.Info("Clause analyzer initialized",
		zap.Int("categories", taxonomy.Len()),
		zap.Int("max_items_per_topic", cfg.MaxItemsPerTopic),
	)

	return a
}

// Taxonomy returns the analyzer's taxonomy.
func (a *Analyzer) Taxonomy() *Taxonomy {
	return a.taxonomy
}

// Normalize applies the analyzer's input preparation to raw text.
func (a *Analyzer) Normalize(raw string) string {
	return Normalize(raw, a.cfg.MaxInputChars)
}

// Analyze scans normalized text for every taxonomy category and returns
// the findings with a derived risk level. Categories without matches
// are absent from the result; empty input yields an empty result at
// risk level very_low.
func (a *Analyzer) Analyze(text string) *Result {
	doc := newDocument(text)

	result := &Result{
		Categories: make(map[string]*CategoryResult),
	}

	for _, category := range a.taxonomy.Categories() {
		items := a.extractor.findMatches(doc, category)
		if len(items) == 0 {
			continue
		}

		result.Categories[category.Key] = &CategoryResult{
			DisplayName: category.DisplayName,
			Items:       items,
			Count:       len(items),
		}
		result.Order = append(result.Order, category.Key)
		result.TotalConcerns += len(items)

		a.logger.Debug("Category matched",
			zap.String("category", category.Key),
			zap.Int("items", len(items)),
		)
	}

	result.RiskLevel = riskLevel(result.Categories)

	return result
}

// Summary composes the rule-based fallback synopsis for a result.
func (a *Analyzer) Summary(result *Result) string {
	return FallbackSummary(result.Categories, result.DisplayNames())
}
