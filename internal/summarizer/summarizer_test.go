package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencySummarizer_KeepsDocumentOrder(t *testing.T) {
	text := "Cataract surgery is covered. The sky is blue. Cataract surgery needs approval. Cataract cover ends at seventy."
	got, err := NewFrequencySummarizer().Summarize(text, 2)
	require.NoError(t, err)

	first := strings.Index(got, "Cataract surgery is covered.")
	second := strings.Index(got, "Cataract surgery needs approval.")
	assert.GreaterOrEqual(t, first, 0)
	assert.Greater(t, second, first)
	assert.NotContains(t, got, "sky")
}

func TestFrequencySummarizer_NoSentences(t *testing.T) {
	got, err := NewFrequencySummarizer().Summarize("  heading   only  ", 3)
	require.NoError(t, err)
	assert.Equal(t, "heading only", got)
}

func TestFrequencySummarizer_ExtraStopwords(t *testing.T) {
	text := "Hernia repair is listed. Hernia repair needs approval. Maternity is covered."
	got, err := NewFrequencySummarizer("Hernia", "repair").Summarize(text, 1)
	require.NoError(t, err)
	assert.Equal(t, "Maternity is covered.", got)
}

func TestClauseSummarizer(t *testing.T) {
	s := NewClauseSummarizer()
	cases := map[string]string{
		"Surgery must be pre-approved by the insurer":            VerdictPriorApproval,
		"Cosmetic procedures are NOT covered":                     VerdictExcluded,
		"Dental treatment is excluded":                            VerdictExcluded,
		"If admitted, the insured must inform within 24 hours":    VerdictConditional,
		"Cover applies only if hospitalised for 24 hours or more": VerdictLimited,
	}
	for clause, want := range cases {
		assert.Equal(t, want, s.Summarize(clause), clause)
	}

	long := strings.Repeat("x", 200)
	assert.Equal(t, strings.Repeat("x", 120)+"...", s.Summarize(long))
	assert.Equal(t, "Room rent capped...", s.Summarize("Room rent capped"))
}
