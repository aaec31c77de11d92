package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/chunker"
	"docqa/internal/domain"
	"docqa/internal/embedding/tfidf"
	"docqa/internal/heuristics"
	"docqa/internal/retrieval"
	"docqa/internal/store"
	"docqa/internal/summarizer"
)

const policy = `This policy covers hospitalisation expenses for every insured person.
Waiting periods: 1. Surgery for cataract 2. Surgery for hernia
Maternity benefits are payable after nine months of continuous cover.
Ambulance charges are reimbursed up to the limit in the schedule.`

type failingEmbedder struct{ err error }

var _ domain.Embedder = failingEmbedder{}

func (f failingEmbedder) Name() string { return "failing" }
func (f failingEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, f.err
}

type recordingGenerator struct {
	question string
	passages []string
}

func (g *recordingGenerator) Generate(_ context.Context, q string, passages []string) (string, error) {
	g.question, g.passages = q, passages
	return "generated", nil
}

func newService(t *testing.T, emb domain.Embedder, opts ...Option) (*RAGService, *store.Store) {
	t.Helper()
	st := store.New()
	r := retrieval.New(st, heuristics.Default())
	return NewRAGService(chunker.NewParagraphChunker(5), emb, st, r, opts...), st
}

func TestRAGService_IngestAndRetrieve(t *testing.T) {
	svc, st := newService(t, tfidf.NewEmbedder(), WithSummarizer(summarizer.NewFrequencySummarizer(), 2))
	ctx := context.Background()
	require.NoError(t, svc.Ingest(ctx, "policy.pdf", policy))

	doc, ok := st.Get("policy.pdf")
	require.True(t, ok)
	assert.Len(t, doc.Chunks, 4)
	assert.Equal(t, 4, doc.Index.Len())
	assert.NotEmpty(t, doc.Summary)

	got, err := svc.Retrieve(ctx, "policy.pdf", "Is cataract surgery covered?", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Waiting periods: 1. Surgery for cataract 2. Surgery for hernia"}, got)

	got, err = svc.Retrieve(ctx, "other.pdf", "Is cataract covered?", 3)
	require.NoError(t, err)
	assert.Empty(t, got)

	summary, err := svc.Summary("policy.pdf")
	require.NoError(t, err)
	assert.Equal(t, doc.Summary, summary)
	assert.Equal(t, []string{"policy.pdf"}, svc.Documents())
}

func TestRAGService_IngestEmpty(t *testing.T) {
	svc, st := newService(t, tfidf.NewEmbedder())
	err := svc.Ingest(context.Background(), "blank.txt", "\n \n\t")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Equal(t, 0, st.Len())

	assert.Error(t, svc.Ingest(context.Background(), " ", policy))
}

func TestRAGService_FailedReingestKeepsPrevious(t *testing.T) {
	svc, st := newService(t, tfidf.NewEmbedder())
	ctx := context.Background()
	require.NoError(t, svc.Ingest(ctx, "policy.pdf", policy))
	before, _ := st.Get("policy.pdf")

	assert.ErrorIs(t, svc.Ingest(ctx, "policy.pdf", "   "), domain.ErrEmptyInput)
	after, _ := st.Get("policy.pdf")
	assert.Same(t, before, after)
}

func TestRAGService_ReingestReplaces(t *testing.T) {
	svc, st := newService(t, tfidf.NewEmbedder())
	ctx := context.Background()
	require.NoError(t, svc.Ingest(ctx, "doc", policy))
	require.NoError(t, svc.Ingest(ctx, "doc", "Dental treatment is excluded from this cover entirely."))
	doc, _ := st.Get("doc")
	assert.Len(t, doc.Chunks, 1)
}

func TestRAGService_EmbeddingFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	svc, st := newService(t, failingEmbedder{err: cause})
	err := svc.Ingest(context.Background(), "policy.pdf", policy)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	var ee *domain.EmbeddingError
	assert.ErrorAs(t, err, &ee)
	assert.Equal(t, 0, st.Len())
}

func TestRAGService_IngestUploadAndFile(t *testing.T) {
	svc, _ := newService(t, tfidf.NewEmbedder())
	ctx := context.Background()

	id, err := svc.IngestUpload(ctx, policy)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	p := filepath.Join(t.TempDir(), "wording.txt")
	require.NoError(t, os.WriteFile(p, []byte(policy), 0o644))
	id, err = svc.IngestFile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "wording.txt", id)
	assert.Len(t, svc.Documents(), 2)
	assert.Contains(t, svc.Documents(), "wording.txt")
}

func TestRAGService_Ask(t *testing.T) {
	gen := &recordingGenerator{}
	svc, _ := newService(t, tfidf.NewEmbedder(), WithGenerator(gen))
	ctx := context.Background()
	require.NoError(t, svc.Ingest(ctx, "policy.pdf", policy))

	ans, err := svc.Ask(ctx, "policy.pdf", "Is hernia covered?")
	require.NoError(t, err)
	assert.Equal(t, "generated", ans.Text)
	assert.Equal(t, retrieval.RouteSemantic, ans.Result.Route)
	assert.Equal(t, "Is hernia covered?", gen.question)
	assert.Equal(t, []string{"2. Surgery for hernia"}, gen.passages)

	_, err = svc.Ask(ctx, "missing", "Is hernia covered?")
	assert.ErrorIs(t, err, domain.ErrUnknownDocument)
	_, err = svc.Summary("missing")
	assert.ErrorIs(t, err, domain.ErrUnknownDocument)
}

func TestRAGService_AskAllWithExtractiveAnswers(t *testing.T) {
	svc, _ := newService(t, tfidf.NewEmbedder())
	ctx := context.Background()
	require.NoError(t, svc.Ingest(ctx, "policy.pdf", policy))

	answers, err := svc.AskAll(ctx, "policy.pdf", []string{"Is cataract covered?", "Is hernia covered?"})
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "Waiting periods: 1. Surgery for cataract 2. Surgery for hernia", answers[0].Text)
	assert.Equal(t, "2. Surgery for hernia", answers[1].Text)
}
