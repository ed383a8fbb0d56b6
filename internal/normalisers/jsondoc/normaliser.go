// Package jsondoc provides a normaliser for JSON documents.
package jsondoc

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles JSON documents by flattening them into
// "path: value" lines so scalar fields become searchable text.
type Normaliser struct{}

// New creates a new JSON normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/json", "text/json"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Specific MIME normaliser, higher than plaintext
}

// Normalise converts a JSON document to a normalised document.
// Invalid JSON is indexed verbatim rather than rejected; the point of
// ingestion is retrieval, not validation.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := flattenJSON(raw.Content)
	if content == "" {
		content = string(raw.Content)
	}

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Title:     extractTitle(raw.URI),
		Content:   content,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "json"

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// flattenJSON renders a JSON value as sorted "path: value" lines.
// Returns empty string when the input is not valid JSON.
func flattenJSON(data []byte) string {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return ""
	}

	lines := make(map[string]string)
	walk("", value, lines)

	paths := make([]string, 0, len(lines))
	for path := range lines {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		b.WriteString(path)
		b.WriteString(": ")
		b.WriteString(lines[path])
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// walk recursively collects scalar leaves keyed by their dotted path.
func walk(path string, value any, out map[string]string) {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			walk(joinPath(path, key), child, out)
		}
	case []any:
		for i, child := range v {
			walk(joinPath(path, fmt.Sprintf("%d", i)), child, out)
		}
	case string:
		out[path] = v
	case nil:
		out[path] = "null"
	default:
		out[path] = fmt.Sprintf("%v", v)
	}
}

// joinPath appends a segment to a dotted path.
func joinPath(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "." + segment
}

// extractTitle extracts a human-readable title from a URI.
func extractTitle(uri string) string {
	filename := filepath.Base(uri)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
