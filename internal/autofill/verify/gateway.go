// Package verify implements the client side of the verification protocol:
// identifier format checks, a bounded-timeout HTTP call to the verification
// backend, single-flight request cancellation, and classification of every
// failure into the engine's error taxonomy.
package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"formfill/contracts/verification"
	"formfill/internal/autofill/form"
	"formfill/internal/autofill/metrics"
	"formfill/internal/autofill/tracer"
	"formfill/pkg/fferrors"
)

// DefaultTimeout bounds a verification call. Whichever settles first, the
// network response or the deadline, wins.
const DefaultTimeout = 15 * time.Second

// HTTPDoer executes HTTP requests. *http.Client satisfies it; tests inject
// mocks.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Gateway calls the backend verification endpoints. One gateway owns at
// most one in-flight request: issuing a new call cancels any pending one,
// so the newest identifier the user typed is always the authoritative
// lookup (last-writer-wins).
//
// The gateway performs no caching of its own; the Cached flag on results is
// the backend's statement, passed through unmodified.
type Gateway struct {
	baseURL string
	timeout time.Duration
	client  HTTPDoer
	meta    Meta
	logger  *slog.Logger
	tracer  tracer.Tracer
	metrics *metrics.Metrics

	mu       sync.Mutex
	inFlight *inflight
}

// inflight is the owned cancellation handle for the single pending request.
// A distinct allocation per call lets finish() tell whether the handle it
// holds is still the current one.
type inflight struct {
	cancel context.CancelFunc
}

// Option configures the Gateway.
type Option func(*Gateway)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client HTTPDoer) Option {
	return func(g *Gateway) { g.client = client }
}

// WithTimeout overrides the default verification timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) { g.timeout = timeout }
}

// WithMeta sets the caller identification recorded with each request.
func WithMeta(meta Meta) Option {
	return func(g *Gateway) { g.meta = meta }
}

// WithLogger sets the logger for the gateway.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

// WithTracer sets the tracer for the gateway.
func WithTracer(t tracer.Tracer) Option {
	return func(g *Gateway) { g.tracer = t }
}

// WithMetrics sets the metrics sink for the gateway.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// New creates a gateway against the given backend base URL.
func New(baseURL string, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: baseURL,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		tracer:  tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.client == nil {
		// No Timeout on the client itself: the per-call context carries it,
		// and a client timeout would mask cancellation as a deadline.
		g.client = &http.Client{}
	}
	return g
}

// VerifyPerson verifies a national-identity number. The identifier must be
// exactly 11 digits; violations fail fast without a network call.
func (g *Gateway) VerifyPerson(ctx context.Context, identifier string) Result {
	if identifier == "" {
		return failure(fferrors.CodeInvalidInput, "identifier is required")
	}
	if !isElevenDigits(identifier) {
		return failure(fferrors.CodeInvalidFormat, "identifier must be exactly 11 digits")
	}

	body := verification.PersonRequest{
		Identifier: identifier,
		UserID:     g.meta.UserID,
		FormID:     g.meta.FormID,
		UserName:   g.meta.UserName,
		UserEmail:  g.meta.UserEmail,
	}
	return g.call(ctx, form.IdentifierPerson, "/api/v1/verify/person", body, personKeyAliases,
		tracer.SpanVerifyPerson, tracer.HashIdentifier(identifier))
}

// VerifyOrganization verifies a corporate registration number. The registry
// requires the registration number and company name as a pair; a missing
// half fails fast without a network call.
func (g *Gateway) VerifyOrganization(ctx context.Context, registrationNumber, companyName string) Result {
	if registrationNumber == "" {
		return failure(fferrors.CodeInvalidInput, "registration number is required")
	}
	if companyName == "" {
		return failure(fferrors.CodeInvalidInput, "company name is required")
	}

	body := verification.OrganizationRequest{
		RegistrationNumber: registrationNumber,
		CompanyName:        companyName,
		UserID:             g.meta.UserID,
		FormID:             g.meta.FormID,
		UserName:           g.meta.UserName,
		UserEmail:          g.meta.UserEmail,
	}
	return g.call(ctx, form.IdentifierOrganization, "/api/v1/verify/organization", body, organizationKeyAliases,
		tracer.SpanVerifyOrganization, tracer.HashIdentifier(registrationNumber))
}

// Cancel aborts any in-flight verification. The pending call resolves with
// REQUEST_CANCELLED. Safe to call when nothing is in flight.
func (g *Gateway) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight != nil {
		g.inFlight.cancel()
		g.inFlight = nil
	}
}

func (g *Gateway) call(
	ctx context.Context,
	identifierType form.IdentifierType,
	path string,
	body any,
	aliases map[string]string,
	spanName, identifierHash string,
) Result {
	start := time.Now()
	ctx, handle := g.begin(ctx)
	defer g.finish(handle)

	ctx, span := g.tracer.Start(ctx, spanName,
		tracer.String(tracer.AttrIdentifierHash, identifierHash),
		tracer.String(tracer.AttrIdentifierType, identifierType.String()),
	)

	result := g.execute(ctx, path, body, aliases)

	g.observe(identifierType, result, time.Since(start))
	if result.Error != nil {
		span.SetAttributes(tracer.String(tracer.AttrErrorCode, string(result.Error.Code)))
		span.End(result.Error)
	} else {
		span.SetAttributes(tracer.Bool(tracer.AttrCached, result.Cached))
		span.End(nil)
	}
	return result
}

// begin cancels any pending call and installs this call's cancellation as
// the gateway's owned in-flight handle, under one lock so two racing calls
// cannot both believe they are current.
func (g *Gateway) begin(ctx context.Context) (context.Context, *inflight) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight != nil {
		g.inFlight.cancel()
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	handle := &inflight{cancel: cancel}
	g.inFlight = handle
	return ctx, handle
}

// finish releases the in-flight handle, but only if this call still owns
// it; a newer call may have replaced it already.
func (g *Gateway) finish(handle *inflight) {
	handle.cancel()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight == handle {
		g.inFlight = nil
	}
}

func (g *Gateway) execute(ctx context.Context, path string, body any, aliases map[string]string) Result {
	payload, err := json.Marshal(body)
	if err != nil {
		return failure(fferrors.CodeInvalidInput, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return failure(fferrors.CodeNetworkError, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := g.client.Do(req)
	if err != nil {
		return g.classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return g.classifyTransportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return g.backendFailure(resp.StatusCode, raw)
	}

	var envelope verification.Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return failure(fferrors.CodeServerError, "failed to parse verification response")
	}

	return Result{
		Success: true,
		Data:    canonicalizeKeys(envelope.Data, aliases),
		Cached:  envelope.Cached,
	}
}

// classifyTransportError folds transport failures into the taxonomy. The
// per-call context distinguishes the timeout race from cancellation by a
// newer request.
func (g *Gateway) classifyTransportError(ctx context.Context, err error) Result {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		g.logger.Warn("verification request timed out", "error", err)
		return failure(fferrors.CodeTimeout, "verification request timed out")
	case errors.Is(ctx.Err(), context.Canceled):
		return failure(fferrors.CodeRequestCancelled, "verification request cancelled")
	default:
		g.logger.Warn("verification request failed", "error", err)
		return failure(fferrors.CodeNetworkError, "verification request failed")
	}
}

// backendFailure passes backend-reported codes through and falls back to a
// status-derived code when the body carries none.
func (g *Gateway) backendFailure(status int, raw []byte) Result {
	var errResp verification.ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.ErrorCode != "" {
		msg := errResp.Message
		if msg == "" {
			msg = errResp.Error
		}
		if msg == "" {
			msg = fmt.Sprintf("verification failed with status %d", status)
		}
		return failure(fferrors.Code(errResp.ErrorCode), msg)
	}

	switch status {
	case http.StatusNotFound:
		return failure(fferrors.CodeNotFound, "identifier not found")
	case http.StatusTooManyRequests:
		return failure(fferrors.CodeRateLimit, "verification rate limited")
	case http.StatusUnauthorized, http.StatusForbidden:
		return failure(fferrors.CodeUnauthorized, "verification unauthorized")
	case http.StatusBadRequest:
		return failure(fferrors.CodeInvalidInput, "verification rejected the request")
	default:
		return failure(fferrors.CodeServerError, fmt.Sprintf("verification failed with status %d", status))
	}
}

func (g *Gateway) observe(identifierType form.IdentifierType, result Result, elapsed time.Duration) {
	if g.metrics == nil {
		return
	}
	outcome := "OK"
	if result.Error != nil {
		outcome = string(result.Error.Code)
	}
	g.metrics.RecordVerification(identifierType.String(), outcome, elapsed.Seconds())
	if result.Cached {
		g.metrics.RecordCached(identifierType.String())
	}
}

func isElevenDigits(s string) bool {
	if len(s) != 11 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
