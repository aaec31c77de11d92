package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"docqa/internal/chunker"
	"docqa/internal/domain"
)

const defaultMaxSentences = 5

var wordPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// FrequencySummarizer builds a document overview from the sentences whose
// words occur most often across the document.
type FrequencySummarizer struct {
	stopwords map[string]struct{}
}

var _ domain.Summarizer = (*FrequencySummarizer)(nil)

// NewFrequencySummarizer returns a summarizer that ignores common English
// words and policy boilerplate ("insured", "shall", ...). Extra words are
// added to the ignore list.
func NewFrequencySummarizer(extraStopwords ...string) *FrequencySummarizer {
	stop := make(map[string]struct{}, len(englishStopwords)+len(boilerplate)+len(extraStopwords))
	for _, list := range [][]string{englishStopwords, boilerplate, extraStopwords} {
		for _, w := range list {
			stop[strings.ToLower(w)] = struct{}{}
		}
	}
	return &FrequencySummarizer{stopwords: stop}
}

type scoredSentence struct {
	idx   int
	score float64
}

// Summarize keeps the maxSentences highest scoring sentences in document order.
// Text after the last terminator counts as a sentence.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = defaultMaxSentences
	}
	sentences := chunker.SplitSentences(text)
	if len(sentences) == 0 {
		return "", nil
	}

	tokens := make([][]string, len(sentences))
	for i, sent := range sentences {
		tokens[i] = wordPattern.FindAllString(strings.ToLower(sent), -1)
	}
	weights := s.weights(tokens)

	scored := make([]scoredSentence, len(sentences))
	for i, toks := range tokens {
		scored[i] = scoredSentence{idx: i, score: sentenceScore(toks, weights)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if maxSentences > len(scored) {
		maxSentences = len(scored)
	}

	picked := make([]int, maxSentences)
	for i := range picked {
		picked[i] = scored[i].idx
	}
	sort.Ints(picked)
	out := make([]string, len(picked))
	for i, idx := range picked {
		out[i] = normalizeSpace(sentences[idx])
	}
	return strings.Join(out, " "), nil
}

// weights maps every non-stopword to its frequency relative to the most
// frequent word.
func (s *FrequencySummarizer) weights(tokens [][]string) map[string]float64 {
	freq := map[string]float64{}
	top := 0.0
	for _, toks := range tokens {
		for _, tok := range toks {
			if _, ok := s.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
			top = math.Max(top, freq[tok])
		}
	}
	if top > 0 {
		for k, v := range freq {
			freq[k] = v / top
		}
	}
	return freq
}

// sentenceScore dampens long sentences by the square root of their length.
func sentenceScore(toks []string, weights map[string]float64) float64 {
	if len(toks) == 0 {
		return 0
	}
	sum := 0.0
	for _, tok := range toks {
		sum += weights[tok]
	}
	return sum / math.Sqrt(float64(len(toks)))
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var englishStopwords = []string{
	"a", "about", "above", "after", "again", "all", "an", "and", "any", "are", "as", "at",
	"be", "been", "before", "being", "below", "between", "but", "by", "can", "do", "does",
	"down", "during", "each", "else", "for", "from", "further", "has", "have", "if", "in",
	"into", "is", "it", "its", "no", "not", "now", "of", "off", "on", "or", "other", "out",
	"over", "own", "same", "should", "so", "such", "than", "that", "the", "then", "these",
	"this", "those", "through", "to", "too", "under", "up", "very", "was", "were", "which",
	"will", "with",
}

var boilerplate = []string{
	"shall", "may", "must", "hereby", "herein", "thereof", "under", "policy", "insured",
	"insurer", "company", "person", "per",
}
