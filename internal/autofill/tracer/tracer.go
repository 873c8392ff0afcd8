// Package tracer provides a lightweight tracing abstraction for the
// auto-fill engine and verification backend.
//
// The engine emits spans around verification calls and lookups without
// binding callers to OpenTelemetry APIs. Implementations:
//   - NoopTracer: for tests and hosts without tracing
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes. The
	// returned context contains the span and should be passed to child
	// operations.
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an int attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashIdentifier returns a truncated SHA-256 hash of a registry identifier
// so spans can be correlated without exposing PII.
func HashIdentifier(identifier string) string {
	if identifier == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(hash[:8])
}

// Span names used by the engine.
const (
	SpanVerifyPerson       = "verify.person"
	SpanVerifyOrganization = "verify.organization"
	SpanAutoFill           = "autofill.run"
	SpanBackendLookup      = "verifyd.lookup"
)

// Attribute keys used by the engine.
const (
	AttrIdentifierHash = "identifier_hash"
	AttrIdentifierType = "identifier_type"
	AttrCached         = "cached"
	AttrErrorCode      = "error_code"
	AttrMappedFields   = "mapped_fields"
	AttrFormType       = "form_type"
)
