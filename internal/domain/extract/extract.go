// Package extract produces a text surrogate for any uploaded file. It is
// total: every byte buffer and file name yields a well-formed Extraction,
// so ingestion never fails outright on unsupported content.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTextChars caps directly decoded text at ingestion.
const MaxTextChars = 2000

// Fallback confidence levels.
const (
	confidenceFull     = 1.0
	confidenceFallback = 0.7
)

// Fallback reasons reported when true content extraction is unavailable.
const (
	ReasonTextDecodeError  = "text-decode-error"
	ReasonImageOCRFallback = "image-ocr-fallback"
	ReasonDocumentFallback = "document-fallback"
	ReasonUnknownType      = "unknown-type"
)

var (
	textExts     = map[string]bool{"txt": true, "json": true, "xml": true, "csv": true}
	imageExts    = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true, "tiff": true, "webp": true}
	documentExts = map[string]bool{"pdf": true, "doc": true, "docx": true}
)

// Metadata describes the original file when a fallback surrogate is produced.
type Metadata struct {
	FileName   string
	SizeBytes  int
	SizeLabel  string
	UploadedAt string
	Cause      string
}

// Extraction is the text surrogate for an uploaded file.
type Extraction struct {
	Text           string
	Confidence     float64
	Type           string
	FallbackUsed   bool
	FallbackReason string
	Metadata       *Metadata
}

// Process extracts text from a file buffer, dispatching by extension.
// It never returns an error: unsupported or undecodable content degrades
// to a placeholder surrogate instead, with the decode failure recorded
// in the surrogate's metadata.
func Process(data []byte, fileName string) Extraction {
	ext := Ext(fileName)

	switch {
	case textExts[ext]:
		if cause := decodeCheck(data); cause != nil {
			return fallback(data, fileName, ext, ReasonTextDecodeError, cause)
		}
		return Extraction{
			Text:       truncate(string(data), MaxTextChars),
			Confidence: confidenceFull,
			Type:       ext,
		}
	case imageExts[ext]:
		return fallback(data, fileName, ext, ReasonImageOCRFallback, nil)
	case documentExts[ext]:
		return fallback(data, fileName, ext, ReasonDocumentFallback, nil)
	default:
		return fallback(data, fileName, ext, ReasonUnknownType, nil)
	}
}

// decodeCheck reports why a text-family buffer cannot be decoded directly.
func decodeCheck(data []byte) error {
	if len(data) == 0 {
		return errors.New("file is empty")
	}
	if !utf8.Valid(data) {
		return errors.New("content is not valid UTF-8")
	}
	return nil
}

// Ext returns the lowercased file extension without the leading dot.
func Ext(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

func fallback(data []byte, fileName, ext, reason string, cause error) Extraction {
	sizeMB := float64(len(data)) / (1024 * 1024)
	label := fmt.Sprintf("%.2f MB", sizeMB)

	meta := &Metadata{
		FileName:   fileName,
		SizeBytes:  len(data),
		SizeLabel:  label,
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if cause != nil {
		meta.Cause = cause.Error()
	}

	return Extraction{
		Text: fmt.Sprintf(
			"Document %q (%s) was uploaded. Its content could not be extracted automatically and is available on request.",
			fileName, label,
		),
		Confidence:     confidenceFallback,
		Type:           ext,
		FallbackUsed:   true,
		FallbackReason: reason,
		Metadata:       meta,
	}
}

// truncate trims s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
