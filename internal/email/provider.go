// Package email dispatches outbound messages through a transactional
// provider. The provider returns a message id that delivery webhooks
// reference later.
package email

import "context"

type Attachment struct {
	Filename string
	Content  []byte
}

type Message struct {
	From        string
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
	Tags        map[string]string
}

type Provider interface {
	// Send dispatches the message and returns the provider-assigned
	// message id. An empty id with a nil error means the provider
	// accepted the message but did not identify it.
	Send(ctx context.Context, msg Message) (string, error)
}
