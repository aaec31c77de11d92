// Package lexical narrows a document's chunks to the ones sharing vocabulary
// with the question before any vector work happens.
package lexical

import (
	"sort"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/heuristics"
)

// DefaultFallbackTopN is the number of leading chunks used when nothing matches.
const DefaultFallbackTopN = 10

const (
	ScoreNone    = 0
	ScoreKeyword = 1
	ScoreMarker  = 2
)

// Candidate is a chunk with its lexical score. Score is zero only for
// candidates selected by the fallback.
type Candidate struct {
	Chunk domain.Chunk
	Score int
}

// Prefilter scores chunks by keyword and marker-phrase overlap.
type Prefilter struct {
	rules *heuristics.Rules
	topN  int
}

func NewPrefilter(rules *heuristics.Rules, fallbackTopN int) *Prefilter {
	if rules == nil {
		rules = heuristics.Default()
	}
	if fallbackTopN <= 0 {
		fallbackTopN = DefaultFallbackTopN
	}
	return &Prefilter{rules: rules, topN: fallbackTopN}
}

// Rank returns the chunks with a positive score, highest first, keeping
// document order among equal scores. When no chunk scores, the first topN
// chunks are returned with score zero.
func (p *Prefilter) Rank(chunks []domain.Chunk, question string) []Candidate {
	if len(chunks) == 0 {
		return nil
	}
	keywords := p.rules.Keywords(question)
	markers := p.rules.MarkerPhrases(keywords)

	var scored []Candidate
	for _, ch := range chunks {
		if s := score(strings.ToLower(ch.Text), keywords, markers); s > ScoreNone {
			scored = append(scored, Candidate{Chunk: ch, Score: s})
		}
	}
	if len(scored) == 0 {
		n := min(p.topN, len(chunks))
		out := make([]Candidate, n)
		for i := 0; i < n; i++ {
			out[i] = Candidate{Chunk: chunks[i]}
		}
		return out
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored
}

// FilterAndRank is Rank without the scores.
func (p *Prefilter) FilterAndRank(chunks []domain.Chunk, question string) []domain.Chunk {
	ranked := p.Rank(chunks, question)
	out := make([]domain.Chunk, len(ranked))
	for i, c := range ranked {
		out[i] = c.Chunk
	}
	return out
}

// IsFallback reports whether candidates came from the fallback path.
func IsFallback(candidates []Candidate) bool {
	return len(candidates) > 0 && candidates[0].Score == ScoreNone
}

func score(lowerText string, keywords, markers []string) int {
	for _, m := range markers {
		if strings.Contains(lowerText, m) {
			return ScoreMarker
		}
	}
	for _, kw := range keywords {
		if strings.Contains(lowerText, kw) {
			return ScoreKeyword
		}
	}
	return ScoreNone
}
