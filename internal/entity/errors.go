package entity

import "errors"

// Domain errors
var (
	// Index errors
	ErrIndexNotFound     = errors.New("index not found")
	ErrIndexCorrupt      = errors.New("index is corrupt")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrModelMismatch     = errors.New("embedding model mismatch")
	ErrNoDocuments       = errors.New("no documents to index")

	// Query errors
	ErrEmptyQuery = errors.New("query is empty")
	ErrRetrieval  = errors.New("retrieval failed")

	// External service errors
	ErrEmbedding          = errors.New("embedding failed")
	ErrMissingCredentials = errors.New("missing language model credentials")
	ErrEmptyCompletion    = errors.New("language model returned no choices")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
