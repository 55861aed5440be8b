package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"DocDrop/internal/dispatch"
	"DocDrop/internal/models"
)

// Submitter runs lead submissions and manual delivery confirmations.
type Submitter interface {
	Submit(ctx context.Context, slug, email string) (string, error)
	ConfirmDelivery(ctx context.Context, messageID string) error
}

// StatusStore reads delivery state and resolves documents for view
// telemetry.
type StatusStore interface {
	SendStatusByProviderID(ctx context.Context, providerMessageID string) (models.SendStatus, bool, error)
	DocumentBySlug(ctx context.Context, slug string) (*models.Document, error)
}

type Handler struct {
	Dispatcher Submitter
	Store      StatusStore
	Views      chan<- models.DocumentView
	Log        *zap.Logger
}

// userMessage maps pipeline failures to the inline text shown near the
// submission form. Internal errors never reach the client.
func userMessage(err error) (int, string) {
	switch {
	case errors.Is(err, dispatch.ErrInvalidEmail):
		return http.StatusBadRequest, "Please enter a valid email address"
	case errors.Is(err, dispatch.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many attempts. Please try again later."
	case errors.Is(err, dispatch.ErrDocumentUnavailable):
		return http.StatusNotFound, "This document is no longer available"
	case errors.Is(err, dispatch.ErrAttachmentUnavailable):
		return http.StatusBadGateway, "Failed to retrieve the document. Please try again."
	case errors.Is(err, dispatch.ErrSendFailed):
		return http.StatusBadGateway, "Failed to send email. Please check your address and try again."
	default:
		return http.StatusInternalServerError, "Something went wrong. Please try again."
	}
}

type submitRequest struct {
	Slug  string `json:"slug"`
	Email string `json:"email"`
}

func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}

	emailSendID, err := h.Dispatcher.Submit(r.Context(), req.Slug, req.Email)
	if err != nil {
		status, msg := userMessage(err)
		if status == http.StatusInternalServerError {
			h.Log.Error("lead submission failed", zap.String("slug", req.Slug), zap.Error(err))
		}
		writeJSON(w, status, map[string]any{"error": msg})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"emailSendId": emailSendID,
	})
}

func (h *Handler) DeliveryStatus(w http.ResponseWriter, r *http.Request) {
	emailID := r.URL.Query().Get("emailId")
	if emailID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing emailId"})
		return
	}

	status, _, err := h.Store.SendStatusByProviderID(r.Context(), emailID)
	if err != nil {
		h.Log.Error("status lookup failed", zap.String("email_id", emailID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "status lookup failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

type confirmRequest struct {
	EmailID string `json:"emailId"`
}

func (h *Handler) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmailID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing emailId"})
		return
	}

	if err := h.Dispatcher.ConfirmDelivery(r.Context(), req.EmailID); err != nil {
		h.Log.Error("confirm delivery failed", zap.String("email_id", req.EmailID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Something went wrong. Please try again."})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type viewRequest struct {
	Slug string `json:"slug"`
}

// TrackView logs a landing-page view. The insert happens asynchronously
// so telemetry never adds latency to the page.
func (h *Handler) TrackView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Slug == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing slug"})
		return
	}

	doc, err := h.Store.DocumentBySlug(r.Context(), req.Slug)
	if err != nil || doc == nil {
		// Views of unknown slugs are dropped silently.
		w.WriteHeader(http.StatusAccepted)
		return
	}

	view := models.DocumentView{
		DocumentID: doc.ID,
		IPAddress:  clientIP(r),
	}
	select {
	case h.Views <- view:
	default:
		h.Log.Warn("view queue full, dropping view", zap.String("slug", req.Slug))
	}

	w.WriteHeader(http.StatusAccepted)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
