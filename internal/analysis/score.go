package analysis

// sensitiveCategories are the categories whose presence weighs more
// heavily in risk scoring.
var sensitiveCategories = []string{"privacy_concerns", "account_control", "legal_protection"}

// riskLevel derives an ordinal risk level from the per-category match
// counts. Pure function of (sensitive present-count, total matches);
// first matching rule wins.
func riskLevel(results map[string]*CategoryResult) Level {
	total := 0
	for _, cat := range results {
		total += cat.Count
	}

	sensitive := 0
	for _, key := range sensitiveCategories {
		if _, ok := results[key]; ok {
			sensitive++
		}
	}

	switch {
	case sensitive >= 3 && total >= 12:
		return LevelHigh
	case sensitive >= 2 && total >= 8:
		return LevelHigh
	case sensitive >= 1 && total >= 6:
		return LevelMedium
	case total >= 4:
		return LevelMedium
	case total >= 1:
		return LevelLow
	default:
		return LevelVeryLow
	}
}
