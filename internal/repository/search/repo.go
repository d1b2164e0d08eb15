// Package search runs scoped KNN retrieval over the document index.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lendkit-cloud/creditdesk/internal/db"
	"github.com/lendkit-cloud/creditdesk/internal/domain"
	"github.com/lendkit-cloud/creditdesk/internal/domain/document"
	docrepo "github.com/lendkit-cloud/creditdesk/internal/repository/document"
)

// Repository retrieves documents by vector similarity within a tenant scope.
type Repository struct {
	searcher db.Searcher
}

// New creates a search repository.
func New(s db.Searcher) *Repository {
	return &Repository{searcher: s}
}

// Search returns up to topK matches for the query vector, best score first.
// Every search is hard-filtered to the given scope; a document ingested
// under a different org, pipeline or session can never appear in the result.
func (r *Repository) Search(ctx context.Context, scope document.Scope, vector []float32, topK int) ([]domain.Match, error) {
	q := &db.KNNQuery{
		IndexName: docrepo.IndexName,
		Filter: db.TagFilter{
			"org_id":     scope.OrgID(),
			"pipeline":   scope.Pipeline(),
			"session_id": scope.SessionID(),
		},
		Vector:       vector,
		K:            topK,
		ReturnFields: []string{"__text", "file_name", "file_type", "__vector_score"},
	}

	res, err := r.searcher.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	matches := make([]domain.Match, 0, len(res.Entries))
	for _, e := range res.Entries {
		matches = append(matches, domain.Match{
			DocumentID: strings.TrimPrefix(e.Key, docrepo.KeyPrefixDoc),
			FileName:   e.Fields["file_name"],
			FileType:   e.Fields["file_type"],
			Text:       e.Fields["__text"],
			Score:      e.Score,
		})
	}

	// The index sorts by distance, but that is its contract, not ours.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}
