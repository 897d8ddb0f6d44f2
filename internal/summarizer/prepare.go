package summarizer

import (
	"regexp"
	"sort"
	"strings"
)

// Upper bound on text sent to the inference API; summarization models
// handle roughly 1024 tokens well.
const maxAPIChars = 3000

var (
	prepareWhitespaceRe = regexp.MustCompile(`\s+`)
	prepareSentenceRe   = regexp.MustCompile(`[.!?]+`)
)

// importanceKeywords bias sentence selection toward policy content.
var importanceKeywords = []string{
	"privacy", "data", "information", "collect", "share", "terms",
	"agreement", "policy", "rights", "liability", "account",
	"subscription", "payment", "cancel", "terminate",
}

// prepareText selects the most policy-relevant sentences and packs them
// up to the API limit, so the model summarizes the parts that matter.
func prepareText(text string) string {
	text = prepareWhitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")

	type scored struct {
		sentence string
		score    int
	}

	var candidates []scored
	for _, fragment := range prepareSentenceRe.Split(text, -1) {
		sentence := strings.TrimSpace(fragment)
		if len(sentence) < 20 {
			continue
		}

		lower := strings.ToLower(sentence)
		score := 0
		for _, keyword := range importanceKeywords {
			if strings.Contains(lower, keyword) {
				score++
			}
		}
		candidates = append(candidates, scored{sentence: sentence, score: score})
	}

	// Stable sort keeps document order among equally relevant sentences.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var b strings.Builder
	for _, c := range candidates {
		if b.Len()+len(c.sentence) > maxAPIChars {
			break
		}
		b.WriteString(c.sentence)
		b.WriteString(". ")
	}

	selected := strings.TrimSpace(b.String())
	if selected == "" {
		if len(text) > maxAPIChars {
			return text[:maxAPIChars]
		}
		return text
	}
	return selected
}
