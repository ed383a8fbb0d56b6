// Package memory provides in-memory retrieval indexes: a brute-force
// cosine similarity vector index and a BM25 inverted keyword index.
// Both are rebuilt from the document store on startup.
package memory
