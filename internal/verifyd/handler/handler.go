// Package handler exposes the verification backend's HTTP surface.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"formfill/contracts/verification"
	"formfill/internal/platform/middleware"
	"formfill/internal/verifyd/service"
	"formfill/pkg/httputil"
	"formfill/pkg/validation"
)

// Verifier is the service surface the handlers depend on.
type Verifier interface {
	VerifyPerson(ctx context.Context, identifier string) (service.Lookup, error)
	VerifyOrganization(ctx context.Context, registrationNumber, companyName string) (service.Lookup, error)
}

// Handler serves the two verification endpoints.
type Handler struct {
	service Verifier
	logger  *slog.Logger
}

// New creates a verification handler.
func New(svc Verifier, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Routes mounts the verification endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/v1/verify/person", h.VerifyPerson)
	r.Post("/api/v1/verify/organization", h.VerifyOrganization)
}

// VerifyPerson handles POST /api/v1/verify/person.
func (h *Handler) VerifyPerson(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[verification.PersonRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := validation.Validate(req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	lookup, err := h.service.VerifyPerson(r.Context(), req.Identifier)
	if err != nil {
		h.logError(r, "person verification failed", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "person verification served",
		"request_id", middleware.GetRequestID(r.Context()),
		"cached", lookup.Cached,
	)
	httputil.WriteJSON(w, http.StatusOK, verification.Response{
		Status: "success",
		Data:   lookup.Data,
		Cached: lookup.Cached,
	})
}

// VerifyOrganization handles POST /api/v1/verify/organization.
func (h *Handler) VerifyOrganization(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[verification.OrganizationRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := validation.Validate(req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	lookup, err := h.service.VerifyOrganization(r.Context(), req.RegistrationNumber, req.CompanyName)
	if err != nil {
		h.logError(r, "organization verification failed", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "organization verification served",
		"request_id", middleware.GetRequestID(r.Context()),
		"cached", lookup.Cached,
	)
	httputil.WriteJSON(w, http.StatusOK, verification.Response{
		Status: "success",
		Data:   lookup.Data,
		Cached: lookup.Cached,
	})
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err,
	)
}
