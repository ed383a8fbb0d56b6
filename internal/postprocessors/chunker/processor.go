// Package chunker provides a sentence-based text chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
)

// DefaultSentencesPerChunk is the default number of sentences per chunk.
const DefaultSentencesPerChunk = 5

// DefaultOverlapSentences is the default number of overlapping sentences.
const DefaultOverlapSentences = 1

// Processor splits document content into sentence-based chunks with overlap.
// It implements the PostProcessor interface.
//
// Sentences are kept as exact spans of the source text, so concatenating
// a document's chunks with the overlapping sentences removed reproduces
// the source byte for byte.
type Processor struct {
	sentencesPerChunk int
	overlap           int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithSentencesPerChunk sets the number of sentences per chunk.
func WithSentencesPerChunk(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.sentencesPerChunk = n
		}
	}
}

// WithOverlap sets the overlap between chunks in sentences.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		sentencesPerChunk: DefaultSentencesPerChunk,
		overlap:           DefaultOverlapSentences,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap leaves forward progress
	if p.overlap >= p.sentencesPerChunk {
		p.overlap = p.sentencesPerChunk - 1
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	sentences := SplitSentences(doc.Content)
	if len(sentences) == 0 {
		return nil, nil
	}

	step := p.sentencesPerChunk - p.overlap
	estimated := (len(sentences) / step) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	position := 0
	for start := 0; start < len(sentences); start += step {
		end := start + p.sentencesPerChunk
		if end > len(sentences) {
			end = len(sentences)
		}

		content := strings.Join(sentences[start:end], "")

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    content,
			Position:   position,
			TokenCount: len(strings.Fields(content)),
			Metadata:   make(map[string]any),
		})
		position++

		if end == len(sentences) {
			break
		}
	}

	return chunks, nil
}

// SplitSentences splits text into sentence spans. Each span ends just
// after a terminator (. ! ? or newline) and includes any whitespace that
// preceded it, so the spans concatenate back to the exact input.
// Trailing text without a terminator forms a final span.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0

	for i, r := range text {
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			end := i + 1
			if span := text[start:end]; strings.TrimSpace(span) != "" {
				sentences = append(sentences, span)
				start = end
			}
			// Spans that are pure whitespace stay attached to the
			// following sentence so nothing is dropped.
		}
	}

	if start < len(text) {
		sentences = append(sentences, text[start:])
	}

	return sentences
}
