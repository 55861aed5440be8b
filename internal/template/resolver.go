package template

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"DocDrop/internal/models"
)

// Store loads sender and template rows by id. Both return nil without
// error when no row matches.
type Store interface {
	SenderByID(ctx context.Context, id string) (*models.Sender, error)
	TemplateByID(ctx context.Context, id string) (*models.EmailTemplate, error)
}

// Resolved is the fully substituted outbound email content.
type Resolved struct {
	From        string
	SenderName  string
	SenderEmail string
	Subject     string
	HTML        string
}

type Resolver struct {
	store        Store
	defaultName  string
	defaultEmail string
	log          *zap.Logger
}

func NewResolver(store Store, defaultName, defaultEmail string, log *zap.Logger) *Resolver {
	return &Resolver{
		store:        store,
		defaultName:  defaultName,
		defaultEmail: defaultEmail,
		log:          log,
	}
}

// Resolve never fails: a dangling sender or template reference falls back
// to the configured defaults. That is a design choice, not an error, so a
// broken reference can never block a send.
func (r *Resolver) Resolve(ctx context.Context, doc *models.Document) Resolved {
	name, email := r.defaultName, r.defaultEmail

	if doc.SenderID != nil {
		sender, err := r.store.SenderByID(ctx, *doc.SenderID)
		switch {
		case err != nil:
			r.log.Warn("sender lookup failed, using default identity",
				zap.String("sender_id", *doc.SenderID),
				zap.Error(err),
			)
		case sender == nil:
			r.log.Warn("document references missing sender, using default identity",
				zap.String("document_id", doc.ID),
				zap.String("sender_id", *doc.SenderID),
			)
		default:
			name, email = sender.Name, sender.Email
		}
	}

	description := ""
	if doc.Description != nil {
		description = *doc.Description
	}
	values := Values{
		DocumentTitle:       doc.Title,
		DocumentDescription: description,
		SenderName:          name,
		SenderEmail:         email,
	}

	subject := DefaultSubject
	body := DefaultBody(description != "")
	var tmpl *models.EmailTemplate

	if doc.TemplateID != nil {
		t, err := r.store.TemplateByID(ctx, *doc.TemplateID)
		switch {
		case err != nil:
			r.log.Warn("template lookup failed, using default template",
				zap.String("template_id", *doc.TemplateID),
				zap.Error(err),
			)
		case t == nil:
			r.log.Warn("document references missing template, using default template",
				zap.String("document_id", doc.ID),
				zap.String("template_id", *doc.TemplateID),
			)
		default:
			tmpl = t
			subject = t.Subject
			body = t.Body
		}
	}

	html := Substitute(body, values)
	if tmpl != nil && tmpl.BodyFormat == models.BodyFormatText {
		html = WrapTextBody(html)
	}

	return Resolved{
		From:        fmt.Sprintf("%s <%s>", name, email),
		SenderName:  name,
		SenderEmail: email,
		Subject:     Substitute(subject, values),
		HTML:        html,
	}
}
