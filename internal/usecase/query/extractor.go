// Package query turns raw user queries into search keywords and highlights
// matched keywords in display text.
package query

import "strings"

// Extractor strips stopwords from raw queries.
type Extractor struct {
	stopwords map[string]struct{}
}

// NewExtractor creates an extractor with the given stopword list.
// Stopword matching is case-insensitive.
func NewExtractor(stopwords []string) *Extractor {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Extractor{stopwords: set}
}

// Extract removes stopword tokens from text, preserving the order and the
// original casing of the surviving tokens. Total function: never fails.
func (e *Extractor) Extract(text string) string {
	words := strings.Fields(text)
	keywords := words[:0]
	for _, w := range words {
		if _, stop := e.stopwords[strings.ToLower(w)]; !stop {
			keywords = append(keywords, w)
		}
	}
	return strings.Join(keywords, " ")
}
