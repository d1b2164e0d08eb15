package query

import (
	"context"

	"github.com/lendkit-cloud/creditdesk/internal/domain"
	"github.com/lendkit-cloud/creditdesk/internal/domain/chat"
	"github.com/lendkit-cloud/creditdesk/internal/domain/document"
)

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Searcher retrieves scoped matches by vector similarity.
type Searcher interface {
	Search(ctx context.Context, scope document.Scope, vector []float32, topK int) ([]domain.Match, error)
}

// Completer generates the answer from the assembled context.
type Completer interface {
	Complete(ctx context.Context, system string, history []chat.Message, query string) (string, error)
}
