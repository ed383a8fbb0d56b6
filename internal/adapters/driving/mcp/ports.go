package mcp

import (
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides search capabilities.
	Search driving.SearchService

	// Answer provides retrieval-augmented question answering.
	Answer driving.AnswerService

	// Document manages ingested documents.
	Document driving.DocumentService

	// Library reports library-wide statistics.
	Library driving.LibraryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Answer, Document and Library are optional; the corresponding
	// tools and resources degrade when absent.
	return nil
}
