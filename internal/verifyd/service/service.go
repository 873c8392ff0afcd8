// Package service implements the backend's cache-then-provider lookup. It
// is the sole origin of the cached flag the gateway passes through to the
// auto-fill engine.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"formfill/internal/autofill/tracer"
	"formfill/internal/verifyd/metrics"
	"formfill/internal/verifyd/providers"
	"formfill/internal/verifyd/store"
	"formfill/pkg/fferrors"
)

// PersonProvider looks a person up in the upstream national-identity
// registry.
type PersonProvider interface {
	Lookup(ctx context.Context, identifier string) (*providers.PersonRecord, error)
}

// CorporateProvider looks a company up in the upstream corporate registry.
type CorporateProvider interface {
	Lookup(ctx context.Context, registrationNumber, companyName string) (*providers.OrganizationRecord, error)
}

// Cache stores successful verification payloads keyed by identifier.
type Cache interface {
	Save(ctx context.Context, key string, data map[string]string) error
	Find(ctx context.Context, key string) (map[string]string, error)
}

// Lookup is one successful verification outcome.
type Lookup struct {
	Data   map[string]string
	Cached bool
}

// Service answers verification requests from cache first, then the
// upstream registry, caching every fresh success.
type Service struct {
	cache     Cache
	person    PersonProvider
	corporate CorporateProvider
	logger    *slog.Logger
	tracer    tracer.Tracer
	metrics   *metrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTracer sets the tracer for the service.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a Service over a cache and the two registry clients.
func New(cache Cache, person PersonProvider, corporate CorporateProvider, opts ...Option) *Service {
	s := &Service{
		cache:     cache,
		person:    person,
		corporate: corporate,
		logger:    slog.Default(),
		tracer:    tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerifyPerson answers a person verification, from cache when possible.
func (s *Service) VerifyPerson(ctx context.Context, identifier string) (Lookup, error) {
	return s.lookup(ctx, "person", "person:"+identifier, func(ctx context.Context) (map[string]string, error) {
		rec, err := s.person.Lookup(ctx, identifier)
		if err != nil {
			return nil, err
		}
		return rec.Attributes(), nil
	})
}

// VerifyOrganization answers an organization verification, from cache when
// possible. The cache key is the registration number alone; the registry
// treats the company name as a cross-check, not part of identity.
func (s *Service) VerifyOrganization(ctx context.Context, registrationNumber, companyName string) (Lookup, error) {
	return s.lookup(ctx, "organization", "org:"+registrationNumber, func(ctx context.Context) (map[string]string, error) {
		rec, err := s.corporate.Lookup(ctx, registrationNumber, companyName)
		if err != nil {
			return nil, err
		}
		return rec.Attributes(), nil
	})
}

func (s *Service) lookup(
	ctx context.Context,
	identifierType, cacheKey string,
	fetch func(context.Context) (map[string]string, error),
) (Lookup, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanBackendLookup,
		tracer.String(tracer.AttrIdentifierType, identifierType),
	)

	if data, err := s.cache.Find(ctx, cacheKey); err == nil {
		s.observe(identifierType, "cache_hit", start)
		span.SetAttributes(tracer.Bool(tracer.AttrCached, true))
		span.End(nil)
		return Lookup{Data: data, Cached: true}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("cache lookup failed, falling through to provider", "error", err)
	}

	data, err := fetch(ctx)
	if err != nil {
		ffErr := translateProviderError(err)
		s.recordProviderError(err)
		s.observe(identifierType, "error", start)
		span.End(ffErr)
		return Lookup{}, ffErr
	}

	if saveErr := s.cache.Save(ctx, cacheKey, data); saveErr != nil {
		s.logger.Warn("failed to cache verification result", "error", saveErr)
	}

	s.observe(identifierType, "success", start)
	span.SetAttributes(tracer.Bool(tracer.AttrCached, false))
	span.End(nil)
	return Lookup{Data: data, Cached: false}, nil
}

func (s *Service) observe(identifierType, outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordLookup(identifierType, outcome, time.Since(start).Seconds())
}

func (s *Service) recordProviderError(err error) {
	if s.metrics == nil {
		return
	}
	var pe *providers.Error
	if errors.As(err, &pe) {
		s.metrics.RecordProviderError(pe.Provider, string(pe.Category))
		return
	}
	s.metrics.RecordProviderError("unknown", string(providers.CategoryInternal))
}

// translateProviderError maps the provider taxonomy onto the wire codes
// the gateway client understands.
func translateProviderError(err error) *fferrors.Error {
	category := providers.CategoryOf(err)
	var code fferrors.Code
	switch category {
	case providers.CategoryTimeout:
		code = fferrors.CodeTimeout
	case providers.CategoryNotFound:
		code = fferrors.CodeNotFound
	case providers.CategoryRateLimited:
		code = fferrors.CodeRateLimit
	case providers.CategoryAuthentication:
		code = fferrors.CodeUnauthorized
	case providers.CategoryBadData:
		code = fferrors.CodeInvalidInput
	default:
		code = fferrors.CodeServerError
	}
	return fferrors.Wrap(err, code, fmt.Sprintf("registry lookup failed (%s)", category))
}
