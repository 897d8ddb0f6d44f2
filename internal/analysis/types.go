package analysis

// Level is an ordinal risk severity derived from match counts.
type Level string

const (
	LevelVeryLow Level = "very_low"
	LevelLow     Level = "low"
	LevelMedium  Level = "medium"
	LevelHigh    Level = "high"
)

// CategoryResult holds the matched sentences for one category.
type CategoryResult struct {
	DisplayName string   `json:"display_name"`
	Items       []string `json:"items"`
	Count       int      `json:"count"`
}

// Result is the outcome of one analysis call. Categories with zero
// matches are absent from the map; Order lists the present category
// keys in taxonomy order.
type Result struct {
	Categories    map[string]*CategoryResult `json:"categories"`
	Order         []string                   `json:"-"`
	TotalConcerns int                        `json:"total_concerns"`
	RiskLevel     Level                      `json:"risk_level"`
}

// DisplayNames returns the display names of present categories in
// taxonomy order.
func (r *Result) DisplayNames() []string {
	names := make([]string, 0, len(r.Order))
	for _, key := range r.Order {
		names = append(names, r.Categories[key].DisplayName)
	}
	return names
}
