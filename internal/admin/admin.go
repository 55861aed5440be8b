// Package admin implements the document management operations behind
// the authenticated admin surface. Authentication itself is an external
// collaborator and not handled here.
package admin

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"DocDrop/internal/models"
	"DocDrop/internal/storage"
)

type Store interface {
	InsertDocument(ctx context.Context, d *models.Document) error
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	SetDocumentActive(ctx context.Context, id string, active bool) error
	DeleteDocument(ctx context.Context, id string) error
}

type Service struct {
	store       Store
	blobs       storage.BlobStore
	maxFileSize int64
	log         *zap.Logger
}

func NewService(store Store, blobs storage.BlobStore, maxFileSize int64, log *zap.Logger) *Service {
	return &Service{
		store:       store,
		blobs:       blobs,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// Upload carries a new document and its file content.
type Upload struct {
	Title       string
	Description string
	FileName    string
	ContentType string
	Data        []byte
}

// UploadDocument stores the blob and inserts the document row. The slug
// is derived from the title plus a short random suffix and is immutable
// after creation.
func (s *Service) UploadDocument(ctx context.Context, up Upload) (*models.Document, error) {
	if up.Title == "" || len(up.Data) == 0 {
		return nil, errors.New("title and file are required")
	}
	if int64(len(up.Data)) > s.maxFileSize {
		return nil, fmt.Errorf("file size exceeds %dMB limit", s.maxFileSize/(1024*1024))
	}

	slug := generateSlug(up.Title)
	ext := strings.TrimPrefix(path.Ext(up.FileName), ".")
	if ext == "" {
		ext = "bin"
	}
	fileKey := fmt.Sprintf("documents/%s.%s", slug, ext)

	if err := s.blobs.Put(ctx, fileKey, up.Data, up.ContentType); err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	doc := &models.Document{
		Title:    up.Title,
		Slug:     slug,
		FileKey:  fileKey,
		FileName: up.FileName,
		FileType: up.ContentType,
		FileSize: int64(len(up.Data)),
		IsActive: true,
	}
	if up.Description != "" {
		doc.Description = &up.Description
	}

	if err := s.store.InsertDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	s.log.Info("document uploaded",
		zap.String("slug", slug),
		zap.String("file_key", fileKey),
		zap.Int64("size", doc.FileSize),
	)
	return doc, nil
}

func (s *Service) ToggleActive(ctx context.Context, id string, active bool) error {
	return s.store.SetDocumentActive(ctx, id, active)
}

// DeleteDocument removes the row and then the blob. A failed blob delete
// is logged but not surfaced: the row is gone and the document can no
// longer be served.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.store.DocumentByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		return nil
	}

	if err := s.store.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if err := s.blobs.Delete(ctx, doc.FileKey); err != nil {
		s.log.Warn("orphaned blob after document delete",
			zap.String("file_key", doc.FileKey),
			zap.Error(err),
		)
	}
	return nil
}

// generateSlug turns "The Ultimate Guide" into "the-ultimate-guide-ab12cd34".
func generateSlug(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	base := strings.Trim(b.String(), "-")
	short := strings.Split(uuid.NewString(), "-")[0]
	if base == "" {
		return short
	}
	return base + "-" + short
}
