package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"DocDrop/internal/models"
)

// API is the server surface the confirmation flow talks to.
type API interface {
	SubmitLead(ctx context.Context, slug, email string) (string, error)
	DeliveryStatus(ctx context.Context, emailID string) (models.SendStatus, error)
	ConfirmDelivery(ctx context.Context, emailID string) error
}

// Client is the HTTP implementation of API against a running server.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

type submitResponse struct {
	Success     bool   `json:"success"`
	EmailSendID string `json:"emailSendId"`
	Error       string `json:"error"`
}

func (c *Client) SubmitLead(ctx context.Context, slug, email string) (string, error) {
	var out submitResponse
	err := c.postJSON(ctx, "/api/leads", map[string]string{"slug": slug, "email": email}, &out)
	if err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", errors.New(out.Error)
	}
	return out.EmailSendID, nil
}

func (c *Client) DeliveryStatus(ctx context.Context, emailID string) (models.SendStatus, error) {
	u := c.baseURL + "/api/delivery-status?emailId=" + url.QueryEscape(emailID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Status models.SendStatus `json:"status"`
		Error  string            `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", errors.New(out.Error)
	}
	return out.Status, nil
}

func (c *Client) ConfirmDelivery(ctx context.Context, emailID string) error {
	var out struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := c.postJSON(ctx, "/api/confirm-delivery", map[string]string{"emailId": emailID}, &out); err != nil {
		return err
	}
	if out.Error != "" {
		return errors.New(out.Error)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}
