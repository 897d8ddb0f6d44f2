package analysis

import (
	"fmt"
	"strings"
)

const standardTermsSummary = "This document appears to contain standard terms with minimal concerning clauses detected."

// concernClauses maps category keys to the fixed-vocabulary concern
// wording used in the rule-based summary.
var concernClauses = []struct {
	key    string
	phrase string
}{
	{"privacy_concerns", "third-party data sharing"},
	{"account_control", "discretionary account termination"},
	{"payment_terms", "billing and subscription obligations"},
	{"legal_protection", "liability limitations"},
}

// summaryBuilder assembles the rule-based synopsis from explicit slots:
// the total concern count, the category names in discovery order, and
// the applicable concern phrases.
type summaryBuilder struct {
	total    int
	names    []string
	concerns []string
}

func (b *summaryBuilder) String() string {
	if b.total == 0 {
		return standardTermsSummary
	}

	parts := []string{fmt.Sprintf("Analysis identified %d potentially concerning clauses", b.total)}

	if len(b.names) > 0 {
		if len(b.names) <= 2 {
			parts = append(parts, "primarily related to "+strings.Join(b.names, " and "))
		} else {
			span := "spanning " + strings.Join(b.names[:3], ", ")
			if len(b.names) > 3 {
				span += fmt.Sprintf(" and %d other areas", len(b.names)-3)
			}
			parts = append(parts, span)
		}
	}

	if len(b.concerns) > 0 {
		parts = append(parts, "Notable concerns include: "+strings.Join(b.concerns, ", "))
	}

	return strings.Join(parts, ". ") + "."
}

// FallbackSummary composes a deterministic rule-based synopsis of the
// findings, used whenever no AI-generated summary is available.
func FallbackSummary(results map[string]*CategoryResult, displayNames []string) string {
	builder := &summaryBuilder{}

	for _, cat := range results {
		builder.total += cat.Count
	}

	for _, name := range displayNames {
		builder.names = append(builder.names, titleWithoutIcon(name))
	}

	for _, clause := range concernClauses {
		if _, ok := results[clause.key]; ok {
			builder.concerns = append(builder.concerns, clause.phrase)
		}
	}

	return builder.String()
}

// titleWithoutIcon drops the leading icon token from a display name.
func titleWithoutIcon(displayName string) string {
	if _, rest, ok := strings.Cut(displayName, " "); ok {
		return rest
	}
	return displayName
}
