// Package storage places uploaded media on an S3-compatible host, or on the
// local public directory when no host is configured.
package storage

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
)

// Kind is the upload category chosen by the admin form.
type Kind string

const (
	KindProject  Kind = "project"
	KindProfile  Kind = "profile"
	KindDocument Kind = "document"
	KindResume   Kind = "resume"
)

const (
	maxImageSize    = 5 << 20
	maxDocumentSize = 10 << 20
)

func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindProject, KindProfile, KindDocument, KindResume:
		return k, true
	default:
		return "", false
	}
}

func (k Kind) IsDocument() bool {
	return k == KindDocument || k == KindResume
}

// Folder is the directory shared by local and remote layouts.
func (k Kind) Folder() string {
	switch k {
	case KindProject:
		return "projects"
	case KindProfile:
		return "profile"
	default:
		return "documents"
	}
}

func (k Kind) MaxSize() int64 {
	if k.IsDocument() {
		return maxDocumentSize
	}
	return maxImageSize
}

// Validate enforces the content type and size allowed for k.
func (k Kind) Validate(contentType string, size int64) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}

	if k.IsDocument() {
		if mediaType != "application/pdf" {
			return errs.NewUnsupportedMediaTypeError(contentType, "PDF")
		}
	} else if !strings.HasPrefix(mediaType, "image/") {
		return errs.NewUnsupportedMediaTypeError(contentType, "image")
	}

	if size > k.MaxSize() {
		return errs.NewMaxBodySizeExceededError(k.MaxSize())
	}
	return nil
}

// File is one upload as received from the client.
type File struct {
	Kind        Kind
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

var knownExtensions = map[string]string{
	"application/pdf": "pdf",
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"image/svg+xml":   "svg",
}

// Extension returns the file extension without the dot, preferring the
// client's filename and falling back to the content type.
func (f File) Extension() string {
	if ext := strings.TrimPrefix(filepath.Ext(f.Filename), "."); ext != "" {
		return strings.ToLower(ext)
	}
	if ext, ok := knownExtensions[f.ContentType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(f.ContentType); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	if f.Kind.IsDocument() {
		return "pdf"
	}
	return "bin"
}

// Object describes a stored upload.
type Object struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
	Format   string `json:"format,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Filename string `json:"filename,omitempty"`
	Local    bool   `json:"local,omitempty"`
}

type Uploader interface {
	Upload(ctx context.Context, f File) (*Object, error)
}

// Remover deletes uploads by their public ID. Only remote hosts implement it.
type Remover interface {
	Delete(ctx context.Context, publicID string) error
}
