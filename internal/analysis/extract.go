package analysis

import (
	"regexp"
	"strings"
)

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// sentenceSpan locates one sentence unit inside the full lower-cased
// text. Spans are resolved once per document; when a sentence occurs
// more than once, the span points at its first occurrence.
type sentenceSpan struct {
	start int
	end   int
	text  string // trimmed, original case
}

// document is the per-analysis view of a normalized text: the
// lower-cased body for case-insensitive matching, the trimmed sentence
// units in order, and their resolved spans.
type document struct {
	lower     string
	sentences []string
	spans     []sentenceSpan
}

func newDocument(text string) *document {
	lower := strings.ToLower(text)

	raw := sentenceSplitRe.Split(text, -1)
	sentences := make([]string, 0, len(raw))
	spans := make([]sentenceSpan, 0, len(raw))

	for _, fragment := range raw {
		trimmed := strings.TrimSpace(fragment)
		if trimmed == "" {
			continue
		}
		sentences = append(sentences, trimmed)

		// Sentences with irregular whitespace may not be locatable in
		// the collapsed text; they are skipped for pattern matching but
		// still participate in the keyword phase.
		start := strings.Index(lower, strings.ToLower(trimmed))
		if start < 0 {
			continue
		}
		spans = append(spans, sentenceSpan{
			start: start,
			end:   start + len(trimmed),
			text:  trimmed,
		})
	}

	return &document{lower: lower, sentences: sentences, spans: spans}
}

// spanContaining returns the first sentence span whose range contains
// the given offset.
func (d *document) spanContaining(offset int) (sentenceSpan, bool) {
	for _, span := range d.spans {
		if span.start <= offset && offset <= span.end {
			return span, true
		}
	}
	return sentenceSpan{}, false
}

// extractor applies one category's rules to a document. Pattern matches
// carry more signal than bare keywords, so patterns run first; keywords
// only run when patterns found fewer than keywordThreshold sentences.
type extractor struct {
	minLength        int
	maxLength        int
	maxItems         int
	keywordThreshold int
}

func newExtractor(minLength, maxLength, maxItems int) *extractor {
	return &extractor{
		minLength:        minLength,
		maxLength:        maxLength,
		maxItems:         maxItems,
		keywordThreshold: 3,
	}
}

// findMatches returns up to maxItems representative sentences for the
// category, in discovery order, with pattern-phase results before
// keyword-phase results.
func (e *extractor) findMatches(doc *document, category Category) []string {
	found := make([]string, 0, e.maxItems)

	// Pattern phase: structural legal phrasing, high precision.
	for _, pattern := range category.Patterns {
		for _, loc := range pattern.FindAllStringIndex(doc.lower, -1) {
			span, ok := doc.spanContaining(loc[0])
			if !ok {
				continue
			}
			if added := e.accept(&found, span.text); added && len(found) >= e.maxItems {
				return found
			}
		}
	}

	// Keyword phase: literal phrases, recall supplement when patterns
	// came up short.
	if len(found) < e.keywordThreshold {
		for _, keyword := range category.Keywords {
			if !strings.Contains(doc.lower, keyword) {
				continue
			}
			for _, sentence := range doc.sentences {
				if !strings.Contains(strings.ToLower(sentence), keyword) {
					continue
				}
				e.accept(&found, sentence)
				if len(found) >= e.maxItems {
					break
				}
			}
			if len(found) >= e.maxItems {
				break
			}
		}
	}

	if len(found) > e.maxItems {
		found = found[:e.maxItems]
	}
	return found
}

// accept filters a candidate sentence and appends it when it passes:
// too-short sentences carry no meaning, over-long ones are cut with an
// ellipsis marker, and exact duplicates within the category are dropped.
// Length rules count runes so a cut never splits a multi-byte character.
func (e *extractor) accept(found *[]string, sentence string) bool {
	runes := []rune(sentence)
	if len(runes) <= e.minLength {
		return false
	}
	if len(runes) > e.maxLength {
		sentence = string(runes[:e.maxLength]) + "..."
	}
	for _, existing := range *found {
		if existing == sentence {
			return false
		}
	}
	*found = append(*found, sentence)
	return true
}
