// Package normalisers provides the registry that dispatches raw documents
// to a format-specific normaliser by MIME type. Individual normalisers
// live in subpackages (plaintext, markdown, jsondoc).
package normalisers
