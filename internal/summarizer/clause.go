package summarizer

import "strings"

// Verdicts produced by ClauseSummarizer.
const (
	VerdictPriorApproval = "Allowed with prior approval."
	VerdictExcluded      = "This clause excludes coverage."
	VerdictConditional   = "Allowed under conditions."
	VerdictLimited       = "Limited coverage depending on criteria."
)

const clausePreviewChars = 120

// ClauseSummarizer classifies a single policy clause with keyword rules.
type ClauseSummarizer struct{}

func NewClauseSummarizer() *ClauseSummarizer { return &ClauseSummarizer{} }

// Summarize returns a one-line verdict, or a preview of the clause when no
// rule applies. Rules are checked in order; the first hit wins.
func (ClauseSummarizer) Summarize(clause string) string {
	c := strings.ToLower(clause)
	switch {
	case strings.Contains(c, "pre-approve"):
		return VerdictPriorApproval
	case strings.Contains(c, "not covered"), strings.Contains(c, "excluded"):
		return VerdictExcluded
	case strings.Contains(c, "if") && (strings.Contains(c, "must") || strings.Contains(c, "require")):
		return VerdictConditional
	case strings.Contains(c, "only if"):
		return VerdictLimited
	}
	r := []rune(strings.TrimSpace(clause))
	if len(r) > clausePreviewChars {
		r = r[:clausePreviewChars]
	}
	return string(r) + "..."
}
