package domain

// SearchMode selects the retrieval strategy.
type SearchMode int

const (
	// SearchModeAuto picks the best mode for the configured services.
	SearchModeAuto SearchMode = iota

	// SearchModeKeyword uses the inverted keyword index only.
	SearchModeKeyword

	// SearchModeVector uses embedding similarity only.
	SearchModeVector

	// SearchModeHybrid fuses keyword and vector scores.
	SearchModeHybrid
)

// Description returns a human-readable description of the mode.
func (m SearchMode) Description() string {
	switch m {
	case SearchModeKeyword:
		return "keyword (BM25)"
	case SearchModeVector:
		return "vector (cosine similarity)"
	case SearchModeHybrid:
		return "hybrid (weighted keyword + vector fusion)"
	default:
		return "auto"
	}
}

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// Offset is the number of results to skip.
	Offset int

	// Mode selects the retrieval strategy. Auto degrades to keyword
	// search when no embedding service is configured.
	Mode SearchMode
}

// SearchResult represents a single search hit.
type SearchResult struct {
	// Document is the matched document.
	Document Document

	// Chunk is the specific chunk that matched.
	Chunk Chunk

	// Score is the fused relevance score.
	Score float64

	// KeywordScore is the keyword score contribution: raw BM25 in
	// keyword-only mode, min-max normalised to [0,1] before fusion in
	// hybrid mode. Zero when keyword search did not run or did not match.
	KeywordScore float64

	// VectorScore is the cosine similarity contribution.
	// Zero when vector search did not run or did not match.
	VectorScore float64

	// Highlights contains snippets with matched terms.
	Highlights []string
}
