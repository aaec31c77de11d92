package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"docqa/internal/chunker"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	answerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	verdictStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("13"))
)

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return strings.Join([]string{
		headerStyle.Render("docqa: " + m.documentID),
		summaryStyle.Render(m.summary),
		resultBoxStyle.Render(m.viewport.View()),
		answerStyle.Render("Answer: " + m.answer.Text),
		queryBoxStyle.Render(m.input.View()),
		statusStyle.Render(m.status),
	}, "\n")
}

func (m Model) renderCurrentPassage() string {
	passages := m.answer.Result.Passages
	if len(passages) == 0 {
		return "No passages yet."
	}
	p := passages[m.cursor]
	title := fmt.Sprintf("Passage %d/%d  chunk=%s  distance=%.3f", m.cursor+1, len(passages), p.Chunk.ChunkID, p.Distance)
	verdict := verdictStyle.Render(m.clauses.Summarize(p.Text))
	return title + "\n" + verdict + "\n\n" + highlightBestSentence(p.Text, m.answer.Question)
}

var wordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// questionNoise is dropped from the question before matching sentences.
var questionNoise = map[string]struct{}{
	"is": {}, "are": {}, "the": {}, "a": {}, "an": {}, "what": {}, "which": {}, "does": {},
	"do": {}, "my": {}, "for": {}, "of": {}, "covered": {}, "cover": {}, "policy": {},
}

// highlightBestSentence renders text with the sentence sharing the most
// distinct question words highlighted. Ties go to the earlier sentence.
func highlightBestSentence(text, question string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := chunker.SplitSentences(text)
	terms := questionTerms(question)
	if len(terms) == 0 {
		return strings.Join(sentences, " ")
	}
	best, bestScore := 0, 0
	for i, s := range sentences {
		if score := overlap(terms, s); score > bestScore {
			best, bestScore = i, score
		}
	}
	if bestScore > 0 {
		sentences[best] = highlightStyle.Render(sentences[best])
	}
	return strings.Join(sentences, " ")
}

func questionTerms(question string) map[string]struct{} {
	terms := map[string]struct{}{}
	for _, w := range wordRe.FindAllString(strings.ToLower(question), -1) {
		if _, noise := questionNoise[w]; !noise {
			terms[w] = struct{}{}
		}
	}
	return terms
}

func overlap(terms map[string]struct{}, sentence string) int {
	seen := map[string]struct{}{}
	for _, w := range wordRe.FindAllString(strings.ToLower(sentence), -1) {
		if _, ok := terms[w]; ok {
			seen[w] = struct{}{}
		}
	}
	return len(seen)
}
