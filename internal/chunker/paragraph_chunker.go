package chunker

import (
	"strconv"
	"strings"

	"docqa/internal/domain"
)

// DefaultTargetWords is the word count at which a paragraph chunk is closed.
const DefaultTargetWords = 500

// ParagraphChunker groups consecutive paragraphs until a chunk reaches a target
// word count. Paragraphs are never split, so a clause written on one line always
// lands in a single chunk.
type ParagraphChunker struct {
	targetWords int
}

func NewParagraphChunker(targetWords int) *ParagraphChunker {
	if targetWords <= 0 {
		targetWords = DefaultTargetWords
	}
	return &ParagraphChunker{targetWords: targetWords}
}

// Chunk splits on line boundaries, drops blank lines and accumulates the rest.
// A chunk is closed as soon as its word count reaches the target. A paragraph
// that alone reaches the target is emitted as its own chunk.
func (c *ParagraphChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	var current []string
	words := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		idx := len(chunks)
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":" + strconv.Itoa(idx),
			Text:       strings.Join(current, " "),
			Index:      idx,
		})
		current = nil
		words = 0
	}

	for _, line := range strings.Split(document.Content, "\n") {
		para := strings.TrimSpace(line)
		if para == "" {
			continue
		}
		n := len(strings.Fields(para))
		if n >= c.targetWords {
			flush()
		}
		current = append(current, para)
		words += n
		if words >= c.targetWords {
			flush()
		}
	}
	flush()

	if len(chunks) == 0 {
		return nil, domain.ErrEmptyInput
	}
	return chunks, nil
}
