package admin

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"

	"DocDrop/internal/models"
)

type fakeStore struct {
	docs      map[string]*models.Document
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]*models.Document)}
}

func (f *fakeStore) InsertDocument(_ context.Context, d *models.Document) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	d.ID = "d1"
	f.docs[d.ID] = d
	return nil
}

func (f *fakeStore) DocumentByID(_ context.Context, id string) (*models.Document, error) {
	return f.docs[id], nil
}

func (f *fakeStore) SetDocumentActive(_ context.Context, id string, active bool) error {
	if d, ok := f.docs[id]; ok {
		d.IsActive = active
	}
	return nil
}

func (f *fakeStore) DeleteDocument(_ context.Context, id string) error {
	delete(f.docs, id)
	return nil
}

type fakeBlobs struct {
	files     map[string][]byte
	deleteErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{files: make(map[string][]byte)}
}

func (f *fakeBlobs) Put(_ context.Context, key string, data []byte, _ string) error {
	f.files[key] = data
	return nil
}

func (f *fakeBlobs) Get(_ context.Context, key string) ([]byte, error) {
	return f.files[key], nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.files, key)
	return nil
}

const maxSize = 25 * 1024 * 1024

func newService(store *fakeStore, blobs *fakeBlobs) *Service {
	return NewService(store, blobs, maxSize, zap.NewNop())
}

var slugPattern = regexp.MustCompile(`^the-ultimate-guide-[0-9a-f]{8}$`)

func TestUploadDocument(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobs()
	svc := newService(store, blobs)

	doc, err := svc.UploadDocument(context.Background(), Upload{
		Title:       "The Ultimate Guide!",
		Description: "Everything in one place.",
		FileName:    "guide.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 payload"),
	})
	if err != nil {
		t.Fatal(err)
	}

	if !slugPattern.MatchString(doc.Slug) {
		t.Errorf("slug = %q, want kebab title plus 8-hex suffix", doc.Slug)
	}
	if doc.FileKey != "documents/"+doc.Slug+".pdf" {
		t.Errorf("file key = %q", doc.FileKey)
	}
	if !doc.IsActive {
		t.Error("new documents should be active")
	}
	if doc.Description == nil || *doc.Description != "Everything in one place." {
		t.Errorf("description = %v", doc.Description)
	}
	if doc.FileSize != int64(len("%PDF-1.4 payload")) {
		t.Errorf("file size = %d", doc.FileSize)
	}
	if _, ok := blobs.files[doc.FileKey]; !ok {
		t.Error("blob was not stored")
	}
	if _, ok := store.docs["d1"]; !ok {
		t.Error("document row was not inserted")
	}
}

func TestUploadDocumentValidation(t *testing.T) {
	svc := newService(newFakeStore(), newFakeBlobs())
	ctx := context.Background()

	if _, err := svc.UploadDocument(ctx, Upload{FileName: "x.pdf", Data: []byte("x")}); err == nil {
		t.Error("missing title should be rejected")
	}
	if _, err := svc.UploadDocument(ctx, Upload{Title: "Guide"}); err == nil {
		t.Error("missing file should be rejected")
	}
}

func TestUploadDocumentSizeLimit(t *testing.T) {
	blobs := newFakeBlobs()
	svc := newService(newFakeStore(), blobs)

	_, err := svc.UploadDocument(context.Background(), Upload{
		Title:    "Guide",
		FileName: "guide.pdf",
		Data:     make([]byte, maxSize+1),
	})
	if err == nil {
		t.Fatal("oversized upload should be rejected")
	}
	if !strings.Contains(err.Error(), "25MB") {
		t.Errorf("error = %v, want the limit named in MB", err)
	}
	if len(blobs.files) != 0 {
		t.Error("rejected upload must not store a blob")
	}
}

func TestUploadDocumentExtensionFallback(t *testing.T) {
	svc := newService(newFakeStore(), newFakeBlobs())

	doc, err := svc.UploadDocument(context.Background(), Upload{
		Title:    "Guide",
		FileName: "no-extension",
		Data:     []byte("x"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(doc.FileKey, ".bin") {
		t.Errorf("file key = %q, want .bin fallback", doc.FileKey)
	}
}

func TestUploadSlugsAreUnique(t *testing.T) {
	svc := newService(newFakeStore(), newFakeBlobs())
	ctx := context.Background()

	a, err := svc.UploadDocument(ctx, Upload{Title: "Guide", FileName: "a.pdf", Data: []byte("x")})
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.UploadDocument(ctx, Upload{Title: "Guide", FileName: "b.pdf", Data: []byte("x")})
	if err != nil {
		t.Fatal(err)
	}
	if a.Slug == b.Slug {
		t.Errorf("identical titles produced the same slug %q", a.Slug)
	}
}

func TestToggleActive(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, newFakeBlobs())
	ctx := context.Background()

	doc, err := svc.UploadDocument(ctx, Upload{Title: "Guide", FileName: "a.pdf", Data: []byte("x")})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.ToggleActive(ctx, doc.ID, false); err != nil {
		t.Fatal(err)
	}
	if store.docs[doc.ID].IsActive {
		t.Error("document should be inactive")
	}
	if err := svc.ToggleActive(ctx, doc.ID, true); err != nil {
		t.Fatal(err)
	}
	if !store.docs[doc.ID].IsActive {
		t.Error("document should be active again")
	}
}

func TestDeleteDocument(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobs()
	svc := newService(store, blobs)
	ctx := context.Background()

	doc, err := svc.UploadDocument(ctx, Upload{Title: "Guide", FileName: "a.pdf", Data: []byte("x")})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.docs[doc.ID]; ok {
		t.Error("row should be deleted")
	}
	if _, ok := blobs.files[doc.FileKey]; ok {
		t.Error("blob should be deleted")
	}
}

func TestDeleteDocumentMissingIsNoOp(t *testing.T) {
	svc := newService(newFakeStore(), newFakeBlobs())
	if err := svc.DeleteDocument(context.Background(), "never-seen"); err != nil {
		t.Fatalf("deleting a missing document should succeed, got %v", err)
	}
}

func TestDeleteDocumentBlobFailureNotSurfaced(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobs()
	svc := newService(store, blobs)
	ctx := context.Background()

	doc, err := svc.UploadDocument(ctx, Upload{Title: "Guide", FileName: "a.pdf", Data: []byte("x")})
	if err != nil {
		t.Fatal(err)
	}

	blobs.deleteErr = errors.New("bucket unavailable")
	if err := svc.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatalf("blob delete failure should be swallowed, got %v", err)
	}
	if _, ok := store.docs[doc.ID]; ok {
		t.Error("row should be deleted even when the blob delete fails")
	}
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"The Ultimate Guide", `^the-ultimate-guide-[0-9a-f]{8}$`},
		{"  spaced   out  ", `^spaced-out-[0-9a-f]{8}$`},
		{"Symbols & Punctuation!!", `^symbols-punctuation-[0-9a-f]{8}$`},
		{"12 Days", `^12-days-[0-9a-f]{8}$`},
		{"!!!", `^[0-9a-f]{8}$`},
	}

	for _, tt := range tests {
		got := generateSlug(tt.title)
		if !regexp.MustCompile(tt.want).MatchString(got) {
			t.Errorf("generateSlug(%q) = %q, want match %q", tt.title, got, tt.want)
		}
	}
}
