package domain

// Stats summarises the state of the document library and indexes.
// Document and chunk counts always equal the number of ingested
// documents and chunks; after Clear all counts are zero.
type Stats struct {
	// Documents is the number of ingested documents.
	Documents int

	// Chunks is the number of stored chunks.
	Chunks int

	// Vectors is the number of embeddings in the vector index.
	Vectors int

	// KeywordChunks is the number of chunks in the keyword index.
	KeywordChunks int
}
