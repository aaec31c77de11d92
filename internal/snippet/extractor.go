// Package snippet cuts the most specific numbered clause out of a chunk.
package snippet

import (
	"strings"

	"docqa/internal/heuristics"
)

// DefaultMaxChars bounds every snippet, in runes.
const DefaultMaxChars = 500

type Extractor struct {
	rules    *heuristics.Rules
	maxChars int
}

func NewExtractor(rules *heuristics.Rules, maxChars int) *Extractor {
	if rules == nil {
		rules = heuristics.Default()
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Extractor{rules: rules, maxChars: maxChars}
}

// Extract returns exactly one snippet: the shortest numbered clause that
// mentions a question keyword, or the head of the chunk when none does.
func (e *Extractor) Extract(text, question string) []string {
	keywords := e.rules.Keywords(question)
	best := ""
	for _, clause := range e.rules.Clauses(text) {
		if !mentionsAny(strings.ToLower(clause), keywords) {
			continue
		}
		if best == "" || len(clause) < len(best) {
			best = clause
		}
	}
	if best == "" {
		best = text
	}
	return []string{truncate(best, e.maxChars)}
}

func mentionsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
