package chunker

import (
	"strconv"
	"strings"

	"docqa/internal/domain"
)

// SentenceChunker splits text into sentence-based chunks with overlap. It suits
// sources whose extracted text has no usable line structure.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
}

func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	// overlap must leave room to advance
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
	}
}

func (c *SentenceChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	if strings.TrimSpace(document.Content) == "" {
		return nil, domain.ErrEmptyInput
	}
	sentences := SplitSentences(document.Content)
	for i := range sentences {
		sentences[i] = strings.Join(strings.Fields(sentences[i]), " ")
	}
	var chunks []domain.Chunk
	for i, idx := 0, 0; i < len(sentences); idx++ {
		end := min(i+c.sentencesPerChunk, len(sentences))
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":" + strconv.Itoa(idx),
			Text:       strings.Join(sentences[i:end], " "),
			Index:      idx,
		})
		if end == len(sentences) {
			break
		}
		i = end - c.overlapSentences
	}
	return chunks, nil
}
