// Package document holds the ingested document aggregate and its tenant scope.
package document

import "fmt"

// MaxTextSize is the maximum extracted text size stored per document in bytes.
const MaxTextSize = 163840 // 160KB

// Scope is the tenant triple every document and query is bound to.
// Search results are only ever returned for the exact scope they were
// ingested under.
type Scope struct {
	orgID     string
	pipeline  string
	sessionID string
}

// NewScope validates and creates a Scope. All three parts are required.
func NewScope(orgID, pipeline, sessionID string) (Scope, error) {
	if orgID == "" {
		return Scope{}, fmt.Errorf("orgId is required")
	}
	if pipeline == "" {
		return Scope{}, fmt.Errorf("pipeline is required")
	}
	if sessionID == "" {
		return Scope{}, fmt.Errorf("sessionId is required")
	}
	return Scope{orgID: orgID, pipeline: pipeline, sessionID: sessionID}, nil
}

// OrgID returns the organization identifier.
func (s Scope) OrgID() string { return s.orgID }

// Pipeline returns the pipeline identifier.
func (s Scope) Pipeline() string { return s.pipeline }

// SessionID returns the session identifier.
func (s Scope) SessionID() string { return s.sessionID }

// Document is the ingested document aggregate. Immutable after creation:
// the only post-construction mutation is attaching the embedding vector
// before the document is persisted.
type Document struct {
	id         string
	scope      Scope
	fileName   string
	fileType   string
	text       string
	vector     []float32
	uploadedAt int64 // unix milliseconds
}

// New validates and creates a Document.
func New(id string, scope Scope, fileName, fileType, text string, uploadedAt int64) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if scope == (Scope{}) {
		return Document{}, fmt.Errorf("scope is required")
	}
	if fileName == "" {
		return Document{}, fmt.Errorf("file name is required")
	}
	if text == "" {
		return Document{}, fmt.Errorf("extracted text is required")
	}
	if len(text) > MaxTextSize {
		return Document{}, fmt.Errorf("extracted text too large (max %d bytes)", MaxTextSize)
	}

	return Document{
		id:         id,
		scope:      scope,
		fileName:   fileName,
		fileType:   fileType,
		text:       text,
		uploadedAt: uploadedAt,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id string, scope Scope, fileName, fileType, text string,
	vector []float32, uploadedAt int64,
) Document {
	return Document{
		id: id, scope: scope, fileName: fileName, fileType: fileType,
		text: text, vector: vector, uploadedAt: uploadedAt,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Scope returns the tenant scope the document was ingested under.
func (d *Document) Scope() Scope { return d.scope }

// FileName returns the original upload file name.
func (d *Document) FileName() string { return d.fileName }

// FileType returns the normalized file extension.
func (d *Document) FileType() string { return d.fileType }

// Text returns the extracted text content.
func (d *Document) Text() string { return d.text }

// Vector returns the embedding vector.
func (d *Document) Vector() []float32 { return d.vector }

// UploadedAt returns the upload timestamp in unix milliseconds.
func (d *Document) UploadedAt() int64 { return d.uploadedAt }

// SetVector attaches the embedding vector computed over the extracted text.
func (d *Document) SetVector(v []float32) { d.vector = v }
