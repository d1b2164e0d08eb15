package ingest

import (
	"context"

	"github.com/lendkit-cloud/creditdesk/internal/domain"
	"github.com/lendkit-cloud/creditdesk/internal/domain/document"
)

// Embedder vectorizes extracted text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// DocumentWriter persists documents into the search index.
type DocumentWriter interface {
	Insert(ctx context.Context, doc *document.Document) error
}

// BlobWriter stores the raw upload bytes.
type BlobWriter interface {
	Put(ctx context.Context, scope document.Scope, uploadedAt int64, fileName string, data []byte) (string, error)
}
