package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"DocDrop/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(conn string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), conn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

const documentColumns = `id, title, description, slug, file_key, file_name, file_type,
	 file_size, is_active, sender_id, email_template_id, created_at`

func scanDocument(row pgx.Row) (*models.Document, error) {
	var d models.Document
	err := row.Scan(
		&d.ID, &d.Title, &d.Description, &d.Slug, &d.FileKey, &d.FileName,
		&d.FileType, &d.FileSize, &d.IsActive, &d.SenderID, &d.TemplateID,
		&d.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DocumentBySlug returns nil without error when no row matches.
func (s *Store) DocumentBySlug(ctx context.Context, slug string) (*models.Document, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE slug=$1`, slug)
	return scanDocument(row)
}

func (s *Store) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id=$1`, id)
	return scanDocument(row)
}

func (s *Store) InsertDocument(ctx context.Context, d *models.Document) error {
	return s.Pool.QueryRow(ctx,
		`INSERT INTO documents
		 (title, description, slug, file_key, file_name, file_type, file_size, is_active, sender_id, email_template_id, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW())
		 RETURNING id, created_at`,
		d.Title, d.Description, d.Slug, d.FileKey, d.FileName, d.FileType,
		d.FileSize, d.IsActive, d.SenderID, d.TemplateID,
	).Scan(&d.ID, &d.CreatedAt)
}

func (s *Store) SetDocumentActive(ctx context.Context, id string, active bool) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE documents SET is_active=$1 WHERE id=$2`, active, id)
	return err
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM documents WHERE id=$1`, id)
	return err
}

func (s *Store) SenderByID(ctx context.Context, id string) (*models.Sender, error) {
	var sn models.Sender
	err := s.Pool.QueryRow(ctx,
		`SELECT id, name, email, created_at FROM senders WHERE id=$1`, id,
	).Scan(&sn.ID, &sn.Name, &sn.Email, &sn.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sn, nil
}

func (s *Store) InsertSender(ctx context.Context, sn *models.Sender) error {
	return s.Pool.QueryRow(ctx,
		`INSERT INTO senders (name, email, created_at)
		 VALUES ($1,$2,NOW())
		 RETURNING id, created_at`,
		sn.Name, sn.Email,
	).Scan(&sn.ID, &sn.CreatedAt)
}

// DeleteSender removes a sender. Documents referencing it keep working:
// the foreign key is declared ON DELETE SET NULL, and the dispatcher
// falls back to the configured default identity.
func (s *Store) DeleteSender(ctx context.Context, id string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM senders WHERE id=$1`, id)
	return err
}

func (s *Store) TemplateByID(ctx context.Context, id string) (*models.EmailTemplate, error) {
	var t models.EmailTemplate
	err := s.Pool.QueryRow(ctx,
		`SELECT id, name, subject, body_format, html_body, created_at, updated_at
		 FROM email_templates WHERE id=$1`, id,
	).Scan(&t.ID, &t.Name, &t.Subject, &t.BodyFormat, &t.Body, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) InsertTemplate(ctx context.Context, t *models.EmailTemplate) error {
	return s.Pool.QueryRow(ctx,
		`INSERT INTO email_templates (name, subject, body_format, html_body, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,NOW(),NOW())
		 RETURNING id, created_at, updated_at`,
		t.Name, t.Subject, t.BodyFormat, t.Body,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (s *Store) UpdateTemplate(ctx context.Context, t *models.EmailTemplate) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE email_templates
		 SET name=$1, subject=$2, body_format=$3, html_body=$4, updated_at=NOW()
		 WHERE id=$5`,
		t.Name, t.Subject, t.BodyFormat, t.Body, t.ID)
	return err
}

// DeleteTemplate removes a template; document references go NULL and the
// dispatcher falls back to the built-in default template.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM email_templates WHERE id=$1`, id)
	return err
}

func (s *Store) InsertLead(ctx context.Context, email, source string) (*models.Lead, error) {
	lead := models.Lead{Email: email, Source: source}
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO leads (email, source, captured_at)
		 VALUES ($1,$2,NOW())
		 RETURNING id, captured_at`,
		email, source,
	).Scan(&lead.ID, &lead.CapturedAt)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (s *Store) ListLeads(ctx context.Context) ([]models.Lead, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, email, source, captured_at FROM leads ORDER BY captured_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.ID, &l.Email, &l.Source, &l.CapturedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (s *Store) InsertEmailSend(
	ctx context.Context,
	documentID, leadID string,
	providerMessageID *string,
	status models.SendStatus,
) (*models.EmailSend, error) {

	send := models.EmailSend{
		DocumentID:        documentID,
		LeadID:            leadID,
		ProviderMessageID: providerMessageID,
		Status:            status,
	}
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO email_sends (document_id, lead_id, provider_message_id, status, sent_at)
		 VALUES ($1,$2,$3,$4,NOW())
		 RETURNING id, sent_at`,
		documentID, leadID, providerMessageID, status,
	).Scan(&send.ID, &send.SentAt)
	if err != nil {
		return nil, err
	}
	return &send, nil
}

// UpdateSendStatus sets the status of the send identified by provider
// message id. Matching zero rows is fine: webhooks may reference sends
// this instance never tracked, or race the insert.
func (s *Store) UpdateSendStatus(ctx context.Context, providerMessageID string, status models.SendStatus) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE email_sends SET status=$1 WHERE provider_message_id=$2`,
		status, providerMessageID)
	return err
}

// MarkDelivered records a delivered status with the event's timestamp.
func (s *Store) MarkDelivered(ctx context.Context, providerMessageID string, at time.Time) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE email_sends SET status=$1, delivered_at=$2 WHERE provider_message_id=$3`,
		models.StatusDelivered, at, providerMessageID)
	return err
}

// ConfirmDelivery upgrades a send to delivered at the given time. It never
// downgrades and never overwrites an existing delivered timestamp.
func (s *Store) ConfirmDelivery(ctx context.Context, providerMessageID string, at time.Time) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE email_sends SET status=$1, delivered_at=$2
		 WHERE provider_message_id=$3 AND status <> $1`,
		models.StatusDelivered, at, providerMessageID)
	return err
}

// SendStatusByProviderID returns the tracked status and whether a row
// exists. A missing row reads as the implicit pending state.
func (s *Store) SendStatusByProviderID(ctx context.Context, providerMessageID string) (models.SendStatus, bool, error) {
	var status models.SendStatus
	err := s.Pool.QueryRow(ctx,
		`SELECT status FROM email_sends WHERE provider_message_id=$1`,
		providerMessageID,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.StatusPending, false, nil
	}
	if err != nil {
		return "", false, err
	}
	return status, true, nil
}

func (s *Store) InsertDocumentView(ctx context.Context, documentID, ipAddress string) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO document_views (document_id, ip_address, viewed_at)
		 VALUES ($1,$2,NOW())`,
		documentID, ipAddress)
	return err
}
