package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driving"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find documents"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Mode  string `json:"mode,omitempty" jsonschema:"retrieval strategy: auto, keyword, vector or hybrid (default auto)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string   `json:"document_id"`
	Title      string   `json:"title"`
	URI        string   `json:"uri"`
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights,omitempty"`
	Content    string   `json:"content,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the document library"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of context chunks to retrieve (default 5)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Model   string         `json:"model"`
	Sources []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput represents a source attribution for an answer.
type SourceOutput struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	Score      float64 `json:"score"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search across all indexed documents",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the indexed documents",
	}, s.handleAsk)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := domain.SearchOptions{
		Limit: limit,
		Mode:  parseMode(input.Mode),
	}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID: results[i].Document.ID,
			Title:      results[i].Document.Title,
			URI:        results[i].Document.URI,
			Score:      results[i].Score,
			Highlights: results[i].Highlights,
			Content:    results[i].Chunk.Content,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Answer == nil {
		return nil, AskOutput{}, errors.New("answer service not available")
	}

	answer, err := s.ports.Answer.Ask(ctx, input.Question, driving.AskOptions{
		TopK: input.TopK,
	})
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer.Text,
		Model:   answer.Model,
		Sources: make([]SourceOutput, len(answer.Sources)),
	}
	for i, source := range answer.Sources {
		output.Sources[i] = SourceOutput{
			DocumentID: source.DocumentID,
			Title:      source.Title,
			Score:      source.Score,
		}
	}

	return nil, output, nil
}

// parseMode maps a mode name to a search mode. Unknown names fall
// back to automatic selection.
func parseMode(mode string) domain.SearchMode {
	switch mode {
	case "keyword":
		return domain.SearchModeKeyword
	case "vector":
		return domain.SearchModeVector
	case "hybrid":
		return domain.SearchModeHybrid
	default:
		return domain.SearchModeAuto
	}
}
