package document

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/lendkit-cloud/creditdesk/internal/domain/document"
)

// Hash field names. Double-underscore fields are consumed by the FT index.
const (
	fieldText       = "__text"
	fieldVector     = "__vector"
	fieldOrgID      = "org_id"
	fieldPipeline   = "pipeline"
	fieldSessionID  = "session_id"
	fieldFileName   = "file_name"
	fieldFileType   = "file_type"
	fieldUploadedAt = "uploaded_at"
)

func buildHashFields(doc *document.Document) map[string]string {
	return map[string]string{
		fieldText:       doc.Text(),
		fieldVector:     encodeVector(doc.Vector()),
		fieldOrgID:      doc.Scope().OrgID(),
		fieldPipeline:   doc.Scope().Pipeline(),
		fieldSessionID:  doc.Scope().SessionID(),
		fieldFileName:   doc.FileName(),
		fieldFileType:   doc.FileType(),
		fieldUploadedAt: strconv.FormatInt(doc.UploadedAt(), 10),
	}
}

func parseHashFields(id string, fields map[string]string) (document.Document, error) {
	scope, err := document.NewScope(fields[fieldOrgID], fields[fieldPipeline], fields[fieldSessionID])
	if err != nil {
		return document.Document{}, fmt.Errorf("stored document %s has invalid scope: %w", id, err)
	}

	vector, err := decodeVector(fields[fieldVector])
	if err != nil {
		return document.Document{}, fmt.Errorf("stored document %s has invalid vector: %w", id, err)
	}

	uploadedAt, _ := strconv.ParseInt(fields[fieldUploadedAt], 10, 64)

	return document.Reconstruct(
		id, scope,
		fields[fieldFileName], fields[fieldFileType], fields[fieldText],
		vector, uploadedAt,
	), nil
}

// encodeVector packs float32s as little-endian bytes, matching the FT
// FLOAT32 vector field representation.
func encodeVector(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

func decodeVector(s string) ([]float32, error) {
	if len(s)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 4", len(s))
	}
	v := make([]float32, len(s)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32([]byte(s[i*4 : i*4+4])))
	}
	return v, nil
}
