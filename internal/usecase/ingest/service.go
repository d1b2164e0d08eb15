// Package ingest runs the upload pipeline: store the original, extract a
// text surrogate, embed it and index the resulting document.
package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lendkit-cloud/creditdesk/internal/domain/document"
	"github.com/lendkit-cloud/creditdesk/internal/domain/extract"
	"github.com/lendkit-cloud/creditdesk/internal/logger"
)

// Per-file processing statuses.
const (
	StatusReady = "ready"
	StatusError = "error"
)

// File is a single upload payload.
type File struct {
	Name string
	Data []byte
}

// Result is the per-file outcome of an ingestion batch. A failed file
// carries its error; the rest of the batch is unaffected.
type Result struct {
	id       string
	name     string
	fileType string
	size     int
	status   string
	err      error
}

// ID returns the minted document identifier (empty on failure).
func (r *Result) ID() string { return r.id }

// Name returns the original file name.
func (r *Result) Name() string { return r.name }

// FileType returns the normalized file extension.
func (r *Result) FileType() string { return r.fileType }

// Size returns the upload size in bytes.
func (r *Result) Size() int { return r.size }

// Status returns StatusReady or StatusError.
func (r *Result) Status() string { return r.status }

// Err returns the processing error, nil when ready.
func (r *Result) Err() error { return r.err }

// Service ingests uploaded files into the document index.
type Service struct {
	embedder Embedder
	docs     DocumentWriter
	blobs    BlobWriter
	now      func() time.Time
}

// New creates the ingestion service.
func New(embedder Embedder, docs DocumentWriter, blobs BlobWriter) *Service {
	return &Service{
		embedder: embedder,
		docs:     docs,
		blobs:    blobs,
		now:      time.Now,
	}
}

// Process ingests a batch of files under one scope. Files are processed in
// order; results match the input order one-to-one. A failure on one file is
// captured in its Result and never aborts the batch.
func (s *Service) Process(ctx context.Context, scope document.Scope, files []File) []Result {
	results := make([]Result, 0, len(files))
	for i := range files {
		results = append(results, s.processOne(ctx, scope, &files[i]))
	}
	return results
}

func (s *Service) processOne(ctx context.Context, scope document.Scope, f *File) Result {
	log := logger.FromContext(ctx).With(zap.String("file", f.Name))
	uploadedAt := s.now().UnixMilli()

	res := Result{
		name:     f.Name,
		fileType: extract.Ext(f.Name),
		size:     len(f.Data),
	}

	fail := func(err error) Result {
		log.Warn("file ingestion failed", zap.Error(err))
		res.status = StatusError
		res.err = err
		return res
	}

	if _, err := s.blobs.Put(ctx, scope, uploadedAt, f.Name, f.Data); err != nil {
		return fail(err)
	}

	ext := extract.Process(f.Data, f.Name)
	if ext.FallbackUsed {
		fields := []zap.Field{zap.String("reason", ext.FallbackReason)}
		if ext.Metadata != nil && ext.Metadata.Cause != "" {
			fields = append(fields, zap.String("cause", ext.Metadata.Cause))
		}
		log.Info("extraction fell back to placeholder text", fields...)
	}

	emb, err := s.embedder.Embed(ctx, ext.Text)
	if err != nil {
		return fail(err)
	}

	doc, err := document.New(uuid.NewString(), scope, f.Name, ext.Type, ext.Text, uploadedAt)
	if err != nil {
		return fail(err)
	}
	doc.SetVector(emb.Embedding)

	if err := s.docs.Insert(ctx, &doc); err != nil {
		return fail(err)
	}

	res.id = doc.ID()
	res.status = StatusReady
	return res
}
