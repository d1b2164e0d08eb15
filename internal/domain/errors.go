package domain

import "errors"

// KeyPrefix namespaces every Redis key owned by this service.
const KeyPrefix = "creditdesk:"

var (
	// ErrDocumentNotFound signals a missing ingested document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch against the index.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrInvalidRequest signals malformed or incomplete client input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
)
