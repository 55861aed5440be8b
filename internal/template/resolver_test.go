package template

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"DocDrop/internal/models"
)

type fakeStore struct {
	senders   map[string]*models.Sender
	templates map[string]*models.EmailTemplate
	err       error
}

func (f *fakeStore) SenderByID(_ context.Context, id string) (*models.Sender, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.senders[id], nil
}

func (f *fakeStore) TemplateByID(_ context.Context, id string) (*models.EmailTemplate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.templates[id], nil
}

func strptr(s string) *string { return &s }

func newResolver(store *fakeStore) *Resolver {
	return NewResolver(store, "DocDrop", "no-reply@docdrop.example", zap.NewNop())
}

func TestResolveDefaults(t *testing.T) {
	r := newResolver(&fakeStore{})
	doc := &models.Document{ID: "d1", Title: "The Guide"}

	got := r.Resolve(context.Background(), doc)

	if got.From != "DocDrop <no-reply@docdrop.example>" {
		t.Errorf("From = %q", got.From)
	}
	if got.Subject != "Your free resource: The Guide" {
		t.Errorf("Subject = %q", got.Subject)
	}
	if !strings.Contains(got.HTML, `"The Guide"`) {
		t.Error("default body should embed the document title")
	}
	if strings.Contains(got.HTML, "{{") {
		t.Errorf("unsubstituted placeholder left in body: %s", got.HTML)
	}
	if strings.Contains(got.HTML, "background-color:#f6f9fc") {
		t.Error("html default must not use the text-format shell")
	}
}

func TestResolveDefaultDescriptionBlock(t *testing.T) {
	r := newResolver(&fakeStore{})

	withDesc := r.Resolve(context.Background(), &models.Document{
		Title:       "The Guide",
		Description: strptr("A short summary."),
	})
	if !strings.Contains(withDesc.HTML, "A short summary.") {
		t.Error("description should appear in the default body")
	}

	withoutDesc := r.Resolve(context.Background(), &models.Document{Title: "The Guide"})
	if strings.Contains(withoutDesc.HTML, "#1a1f2e") {
		t.Error("description block should be omitted when no description exists")
	}
}

func TestResolveCustomSender(t *testing.T) {
	store := &fakeStore{senders: map[string]*models.Sender{
		"s1": {ID: "s1", Name: "Acme Inc", Email: "docs@acme.test"},
	}}
	r := newResolver(store)

	got := r.Resolve(context.Background(), &models.Document{
		Title:    "The Guide",
		SenderID: strptr("s1"),
	})

	if got.From != "Acme Inc <docs@acme.test>" {
		t.Errorf("From = %q", got.From)
	}
	if got.SenderName != "Acme Inc" || got.SenderEmail != "docs@acme.test" {
		t.Errorf("sender parts = %q / %q", got.SenderName, got.SenderEmail)
	}
}

func TestResolveDanglingRefsFallBack(t *testing.T) {
	r := newResolver(&fakeStore{})

	got := r.Resolve(context.Background(), &models.Document{
		Title:      "The Guide",
		SenderID:   strptr("gone"),
		TemplateID: strptr("gone"),
	})

	if got.From != "DocDrop <no-reply@docdrop.example>" {
		t.Errorf("dangling sender should fall back to default, got %q", got.From)
	}
	if got.Subject != "Your free resource: The Guide" {
		t.Errorf("dangling template should fall back to default subject, got %q", got.Subject)
	}
}

func TestResolveStoreErrorFallsBack(t *testing.T) {
	r := newResolver(&fakeStore{err: errors.New("db down")})

	got := r.Resolve(context.Background(), &models.Document{
		Title:      "The Guide",
		SenderID:   strptr("s1"),
		TemplateID: strptr("t1"),
	})

	if got.From != "DocDrop <no-reply@docdrop.example>" {
		t.Errorf("store error should fall back to default identity, got %q", got.From)
	}
}

func TestResolveHTMLTemplate(t *testing.T) {
	store := &fakeStore{templates: map[string]*models.EmailTemplate{
		"t1": {
			ID:         "t1",
			Subject:    "Here is {{document_title}}",
			BodyFormat: models.BodyFormatHTML,
			Body:       "<html><body>{{document_title}} from {{sender_name}}</body></html>",
		},
	}}
	r := newResolver(store)

	got := r.Resolve(context.Background(), &models.Document{
		Title:      "The Guide",
		TemplateID: strptr("t1"),
	})

	if got.Subject != "Here is The Guide" {
		t.Errorf("Subject = %q", got.Subject)
	}
	if got.HTML != "<html><body>The Guide from DocDrop</body></html>" {
		t.Errorf("html-format body should be used as-is, got %q", got.HTML)
	}
}

func TestResolveTextTemplateIsWrapped(t *testing.T) {
	store := &fakeStore{templates: map[string]*models.EmailTemplate{
		"t1": {
			ID:         "t1",
			Subject:    "{{document_title}}",
			BodyFormat: models.BodyFormatText,
			Body:       "<p>Enjoy {{document_title}}!</p>",
		},
	}}
	r := newResolver(store)

	got := r.Resolve(context.Background(), &models.Document{
		Title:      "The Guide",
		TemplateID: strptr("t1"),
	})

	if !strings.Contains(got.HTML, "<p>Enjoy The Guide!</p>") {
		t.Error("substituted fragment missing from wrapped body")
	}
	if !strings.Contains(got.HTML, "background-color:#f6f9fc") {
		t.Error("text-format body should be wrapped in the light shell")
	}
	if strings.Contains(got.HTML, "background-color:#0a0e1a") {
		t.Error("text-format body must not use the html-path shell")
	}
}
