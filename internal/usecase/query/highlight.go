package query

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	markOpen  = `<mark style="background-color: yellow; color: black;">`
	markClose = `</mark>`
)

// Highlight wraps every whole-word, case-insensitive occurrence of the
// keyword tokens in text with a highlight marker. Keywords are split on
// whitespace and matched literally. Word boundaries follow Unicode letter,
// digit, and underscore classes, so "news" inside "newspaper" is left alone
// while "news!" is marked. Identity on empty text or keywords.
func Highlight(text, keywords string) string {
	if text == "" || keywords == "" {
		return text
	}

	tokens := strings.Fields(keywords)
	if len(tokens) == 0 {
		return text
	}

	escaped := make([]string, len(tokens))
	for i, tok := range tokens {
		escaped[i] = regexp.QuoteMeta(tok)
	}

	re, err := regexp.Compile(`(?i)(?:` + strings.Join(escaped, "|") + `)`)
	if err != nil {
		return text
	}

	var sb strings.Builder
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if !wholeWord(text, start, end) {
			continue
		}
		sb.WriteString(text[last:start])
		sb.WriteString(markOpen)
		sb.WriteString(text[start:end])
		sb.WriteString(markClose)
		last = end
	}
	if last == 0 {
		return text
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// wholeWord reports whether the match at [start,end) is bounded by non-word
// characters (or the ends of text).
func wholeWord(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
