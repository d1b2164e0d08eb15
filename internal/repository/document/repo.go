// Package document persists ingested documents as Redis hashes behind an
// FT vector index.
package document

import (
	"context"
	"fmt"

	"github.com/lendkit-cloud/creditdesk/internal/db"
	"github.com/lendkit-cloud/creditdesk/internal/domain"
	"github.com/lendkit-cloud/creditdesk/internal/domain/document"
)

const (
	// IndexName is the FT index over ingested documents.
	IndexName = domain.KeyPrefix + "doc:idx"
	// KeyPrefixDoc prefixes every document hash key.
	KeyPrefixDoc = domain.KeyPrefix + "doc:"
)

// store is the subset of db.Store the repository needs.
type store interface {
	db.HashStore
	db.IndexManager
}

// Repository stores documents and manages their search index.
type Repository struct {
	store     store
	vectorDim int
}

// New creates a document repository. vectorDim is the embedding dimension
// enforced on every insert.
func New(s store, vectorDim int) *Repository {
	return &Repository{store: s, vectorDim: vectorDim}
}

// HNSWConfig tunes the vector index build parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// EnsureIndex creates the document index if it does not exist yet.
func (r *Repository) EnsureIndex(ctx context.Context, cfg HNSWConfig) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     IndexName,
		Prefixes: []string{KeyPrefixDoc},
		Fields: []db.IndexField{
			{Name: fieldOrgID, Type: db.IndexFieldTag},
			{Name: fieldPipeline, Type: db.IndexFieldTag},
			{Name: fieldSessionID, Type: db.IndexFieldTag},
			{Name: fieldUploadedAt, Type: db.IndexFieldNumeric},
			{
				Name:              fieldVector,
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         r.vectorDim,
				VectorDistance:    db.DistanceCosine,
				VectorM:           cfg.M,
				VectorEFConstruct: cfg.EFConstruct,
			},
		},
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", IndexName, err)
	}
	return nil
}

// Insert persists a document. The vector must match the index dimension.
func (r *Repository) Insert(ctx context.Context, doc *document.Document) error {
	if len(doc.Vector()) != r.vectorDim {
		return fmt.Errorf("document %s has %d dimensions, index expects %d: %w",
			doc.ID(), len(doc.Vector()), r.vectorDim, domain.ErrVectorDimMismatch)
	}
	if err := r.store.HSet(ctx, KeyPrefixDoc+doc.ID(), buildHashFields(doc)); err != nil {
		return fmt.Errorf("insert document %s: %w", doc.ID(), err)
	}
	return nil
}

// Get loads a document by ID.
func (r *Repository) Get(ctx context.Context, id string) (document.Document, error) {
	fields, err := r.store.HGetAll(ctx, KeyPrefixDoc+id)
	if err != nil {
		return document.Document{}, fmt.Errorf("get document %s: %w", id, err)
	}
	if len(fields) == 0 {
		return document.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrDocumentNotFound)
	}
	return parseHashFields(id, fields)
}

// Delete removes a document by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	exists, err := r.store.Exists(ctx, KeyPrefixDoc+id)
	if err != nil {
		return fmt.Errorf("check document %s: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("document %s: %w", id, domain.ErrDocumentNotFound)
	}
	if err := r.store.Del(ctx, KeyPrefixDoc+id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}
