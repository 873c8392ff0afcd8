// Package trigger decides when an identifier field's focus loss should
// start a verification, de-duplicating repeat blurs on the same value.
package trigger

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"formfill/internal/autofill/form"
)

// StartFunc runs the verification pipeline for the identifier the user
// entered. A nil error means the pipeline completed successfully.
type StartFunc func(ctx context.Context, identifier string) error

// Coordinator watches one identifier field and starts verification on
// focus loss when all guards pass: the trimmed value is non-empty,
// plausibly shaped for the identifier type, differs from the last value
// that verified successfully, and no verification is already running.
type Coordinator struct {
	field  form.Field
	kind   form.IdentifierType
	start  StartFunc
	logger *slog.Logger

	mu           sync.Mutex
	lastVerified string
	verifying    bool
	detached     bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for the coordinator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// Attach binds a coordinator to an identifier field.
func Attach(field form.Field, kind form.IdentifierType, start StartFunc, opts ...Option) *Coordinator {
	c := &Coordinator{
		field:  field,
		kind:   kind,
		start:  start,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FocusLost evaluates the guards and, when they pass, runs the start
// function synchronously with the field's current value. A successful run
// records the value so the next blur on the same value is a no-op; a
// failed run records nothing, so leaving and re-entering the field
// retries.
func (c *Coordinator) FocusLost(ctx context.Context) {
	value := strings.TrimSpace(c.field.Value())

	c.mu.Lock()
	if c.detached || c.verifying || value == "" || value == c.lastVerified {
		c.mu.Unlock()
		return
	}
	if !plausible(c.kind, value) {
		c.mu.Unlock()
		c.logger.Debug("identifier shape rejected, not verifying",
			"identifier_type", c.kind.String(),
		)
		return
	}
	c.verifying = true
	c.mu.Unlock()

	err := c.start(ctx, value)

	c.mu.Lock()
	c.verifying = false
	if err == nil {
		c.lastVerified = value
	}
	c.mu.Unlock()
}

// Detach permanently disables the coordinator. Safe to call repeatedly.
func (c *Coordinator) Detach() {
	c.mu.Lock()
	c.detached = true
	c.mu.Unlock()
}

// Reset forgets the last verified value so the next blur re-verifies even
// if the field content did not change. It also clears the verifying flag:
// a reset abandons whatever run is in flight, so a subsequent blur must
// not be dropped on its account.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	c.lastVerified = ""
	c.verifying = false
	c.mu.Unlock()
}

// plausible is a cheap shape check that keeps obviously malformed input
// from reaching the backend. Person identifiers are exactly 11 digits;
// registration numbers allow letters, digits, '-' and '/'.
func plausible(kind form.IdentifierType, value string) bool {
	switch kind {
	case form.IdentifierPerson:
		if len(value) != 11 {
			return false
		}
		for _, r := range value {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	case form.IdentifierOrganization:
		for _, r := range value {
			switch {
			case r >= '0' && r <= '9':
			case r >= 'a' && r <= 'z':
			case r >= 'A' && r <= 'Z':
			case r == '-' || r == '/':
			default:
				return false
			}
		}
		return true
	default:
		return false
	}
}
