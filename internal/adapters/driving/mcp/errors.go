// Package mcp provides an MCP (Model Context Protocol) server adapter for Ragdex.
// It enables AI assistants like Claude to query the local document library.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
