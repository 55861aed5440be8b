package models

import "time"

type SendStatus string

const (
	StatusPending    SendStatus = "pending"
	StatusSent       SendStatus = "sent"
	StatusDelivered  SendStatus = "delivered"
	StatusBounced    SendStatus = "bounced"
	StatusFailed     SendStatus = "failed"
	StatusComplained SendStatus = "complained"
	StatusDelayed    SendStatus = "delayed"
)

type BodyFormat string

const (
	// BodyFormatHTML means the template body is a complete HTML document.
	BodyFormatHTML BodyFormat = "html"

	// BodyFormatText means the body is a constrained rich-text fragment
	// that gets wrapped in a fixed outer email shell before sending.
	BodyFormatText BodyFormat = "text"
)

type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Slug        string    `json:"slug"`
	FileKey     string    `json:"file_key"`
	FileName    string    `json:"file_name"`
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	IsActive    bool      `json:"is_active"`
	SenderID    *string   `json:"sender_id,omitempty"`
	TemplateID  *string   `json:"email_template_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Sender struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type EmailTemplate struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Subject    string     `json:"subject"`
	BodyFormat BodyFormat `json:"body_format"`
	Body       string     `json:"body"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Lead is a captured email address. Repeated submissions from the same
// address create multiple rows; dedup happens only at export time.
type Lead struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Source     string    `json:"source"`
	CapturedAt time.Time `json:"captured_at"`
}

// EmailSend is one tracked attempt to deliver a document. A resend creates
// a new record rather than mutating the old one.
type EmailSend struct {
	ID                string     `json:"id"`
	DocumentID        string     `json:"document_id"`
	LeadID            string     `json:"lead_id"`
	ProviderMessageID *string    `json:"provider_message_id,omitempty"`
	Status            SendStatus `json:"status"`
	SentAt            time.Time  `json:"sent_at"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
}

type DocumentView struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	IPAddress  string    `json:"ip_address"`
	ViewedAt   time.Time `json:"viewed_at"`
}
