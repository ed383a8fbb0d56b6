package domain

// Answer is the output of a retrieval-augmented generation query.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Model is the LLM model that produced the answer.
	Model string

	// Sources lists the chunks that were supplied as context,
	// in the order they appeared in the prompt.
	Sources []SourceAttribution
}

// SourceAttribution identifies a chunk used as answer context.
type SourceAttribution struct {
	// DocumentID is the owning document.
	DocumentID string

	// Title is the owning document's title.
	Title string

	// ChunkID is the context chunk.
	ChunkID string

	// Score is the retrieval score the chunk was selected with.
	Score float64
}
