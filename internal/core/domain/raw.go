package domain

// RawDocument represents opaque bytes before normalisation.
// It is the input to the normaliser registry, which dispatches
// on MIMEType to produce a Document.
type RawDocument struct {
	// URI is the original location (file path, URL, etc).
	URI string

	// MIMEType is the content type (e.g., "text/markdown").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains caller-specific key-value pairs.
	Metadata map[string]any
}
