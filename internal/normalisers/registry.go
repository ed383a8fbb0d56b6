package normalisers

import (
	"strings"
	"sync"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps MIME types to normalisers and resolves the best match.
// When several normalisers claim the same MIME type, the one with the
// highest Priority() wins.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, n)
}

// Resolve returns the highest-priority normaliser for the MIME type.
// MIME parameters ("text/plain; charset=utf-8") are ignored. A normaliser
// registered for "text/plain" also acts as the fallback for unknown
// "text/*" types. Returns domain.ErrUnsupportedType when nothing matches.
func (r *Registry) Resolve(mimeType string) (driven.Normaliser, error) {
	mimeType = normaliseMIME(mimeType)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var best driven.Normaliser
	for _, n := range r.normalisers {
		if !supports(n, mimeType) {
			continue
		}
		if best == nil || n.Priority() > best.Priority() {
			best = n
		}
	}

	// Unknown text/* types fall back to the plain text handler.
	if best == nil && strings.HasPrefix(mimeType, "text/") {
		for _, n := range r.normalisers {
			if supports(n, "text/plain") {
				if best == nil || n.Priority() > best.Priority() {
					best = n
				}
			}
		}
	}

	if best == nil {
		return nil, domain.ErrUnsupportedType
	}
	return best, nil
}

// supports reports whether the normaliser claims the MIME type.
func supports(n driven.Normaliser, mimeType string) bool {
	for _, m := range n.SupportedMIMETypes() {
		if m == mimeType {
			return true
		}
	}
	return false
}

// normaliseMIME lowercases a MIME type and strips parameters.
func normaliseMIME(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}
