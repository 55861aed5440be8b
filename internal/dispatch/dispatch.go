// Package dispatch orchestrates the lead-capture-to-delivery pipeline:
// validate, rate-limit, resolve the document and template, fetch the
// attachment, invoke the provider, persist a send record.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"DocDrop/internal/email"
	"DocDrop/internal/metrics"
	"DocDrop/internal/models"
	"DocDrop/internal/ratelimit"
	"DocDrop/internal/storage"
	"DocDrop/internal/template"
)

// Submission failure taxonomy. Handlers map these to user-facing text;
// anything else is an internal error.
var (
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrRateLimited           = errors.New("too many attempts")
	ErrDocumentUnavailable   = errors.New("document unavailable")
	ErrAttachmentUnavailable = errors.New("attachment unavailable")
	ErrSendFailed            = errors.New("send failed")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Store is the persistence surface the dispatcher needs.
type Store interface {
	DocumentBySlug(ctx context.Context, slug string) (*models.Document, error)
	InsertLead(ctx context.Context, email, source string) (*models.Lead, error)
	InsertEmailSend(ctx context.Context, documentID, leadID string, providerMessageID *string, status models.SendStatus) (*models.EmailSend, error)
	ConfirmDelivery(ctx context.Context, providerMessageID string, at time.Time) error
}

// Resolver produces the outbound email content for a document.
type Resolver interface {
	Resolve(ctx context.Context, doc *models.Document) template.Resolved
}

type Dispatcher struct {
	store    Store
	limiter  ratelimit.Limiter
	resolver Resolver
	blobs    storage.BlobStore
	provider email.Provider
	retries  int
	now      func() time.Time
	log      *zap.Logger
}

func New(
	store Store,
	limiter ratelimit.Limiter,
	resolver Resolver,
	blobs storage.BlobStore,
	provider email.Provider,
	retries int,
	log *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		store:    store,
		limiter:  limiter,
		resolver: resolver,
		blobs:    blobs,
		provider: provider,
		retries:  retries,
		now:      time.Now,
		log:      log,
	}
}

// Submit runs the pipeline for one lead submission and returns the
// provider message id for status polling. Steps short-circuit on the
// first failure. Side effects are cumulative, not transactional: a lead
// row inserted before a later failure stays persisted, because capturing
// intent is independent of delivery success.
func (d *Dispatcher) Submit(ctx context.Context, slug, address string) (string, error) {
	if !emailPattern.MatchString(address) {
		return "", ErrInvalidEmail
	}

	allowed, err := d.limiter.Allow(ctx, address)
	if err != nil {
		// The limiter is best-effort throttling; a broken limiter
		// backend must not block legitimate submissions.
		d.log.Warn("rate limiter unavailable, allowing submission", zap.Error(err))
		allowed = true
	}
	if !allowed {
		metrics.RateLimited.Inc()
		return "", ErrRateLimited
	}

	doc, err := d.store.DocumentBySlug(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("load document %q: %w", slug, err)
	}
	if doc == nil || !doc.IsActive {
		return "", ErrDocumentUnavailable
	}

	resolved := d.resolver.Resolve(ctx, doc)

	lead, err := d.store.InsertLead(ctx, address, slug)
	if err != nil {
		return "", fmt.Errorf("insert lead: %w", err)
	}
	metrics.LeadsCaptured.Inc()

	data, err := d.blobs.Get(ctx, doc.FileKey)
	if err != nil || len(data) == 0 {
		d.log.Error("attachment fetch failed",
			zap.String("slug", slug),
			zap.String("file_key", doc.FileKey),
			zap.Error(err),
		)
		return "", ErrAttachmentUnavailable
	}

	msg := email.Message{
		From:    resolved.From,
		To:      []string{address},
		Subject: resolved.Subject,
		HTML:    resolved.HTML,
		Attachments: []email.Attachment{
			{Filename: doc.FileName, Content: data},
		},
		Tags: map[string]string{
			"type":          "lead_magnet",
			"document_slug": slug,
		},
	}

	messageID, err := email.SendWithRetry(ctx, d.provider, msg, d.retries)
	if err != nil {
		d.log.Error("provider send failed",
			zap.String("slug", slug),
			zap.String("to", address),
			zap.Error(err),
		)
		metrics.SendFailures.Inc()
		return "", ErrSendFailed
	}

	var providerID *string
	if messageID != "" {
		providerID = &messageID
	}
	if _, err := d.store.InsertEmailSend(ctx, doc.ID, lead.ID, providerID, models.StatusSent); err != nil {
		return "", fmt.Errorf("insert email send: %w", err)
	}

	metrics.EmailsSent.Inc()
	d.log.Info("document dispatched",
		zap.String("slug", slug),
		zap.String("to", address),
		zap.String("message_id", messageID),
	)
	return messageID, nil
}

// ConfirmDelivery lets the recipient manually confirm receipt. The
// transition only upgrades: an already-delivered send keeps its original
// delivery timestamp.
func (d *Dispatcher) ConfirmDelivery(ctx context.Context, messageID string) error {
	if messageID == "" {
		return errors.New("missing email id")
	}
	if err := d.store.ConfirmDelivery(ctx, messageID, d.now()); err != nil {
		return fmt.Errorf("confirm delivery: %w", err)
	}
	return nil
}
