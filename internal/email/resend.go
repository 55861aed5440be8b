package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// ResendClient talks to the Resend HTTP API (or any compatible endpoint).
type ResendClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewResendClient(apiKey, baseURL string, timeout time.Duration) *ResendClient {
	return &ResendClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type resendAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type resendTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type resendRequest struct {
	From        string             `json:"from"`
	To          []string           `json:"to"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html"`
	Attachments []resendAttachment `json:"attachments,omitempty"`
	Tags        []resendTag        `json:"tags,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

func (c *ResendClient) Send(ctx context.Context, msg Message) (string, error) {
	req := resendRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	for _, att := range msg.Attachments {
		req.Attachments = append(req.Attachments, resendAttachment{
			Filename: att.Filename,
			Content:  base64.StdEncoding.EncodeToString(att.Content),
		})
	}
	for name, value := range msg.Tags {
		req.Tags = append(req.Tags, resendTag{Name: name, Value: value})
	}
	// Stable tag order keeps request bodies deterministic.
	sort.Slice(req.Tags, func(i, j int) bool { return req.Tags[i].Name < req.Tags[j].Name })

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal send request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build send request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("provider rejected send: status %d: %s", resp.StatusCode, detail)
	}

	var out resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode provider response: %w", err)
	}
	return out.ID, nil
}
