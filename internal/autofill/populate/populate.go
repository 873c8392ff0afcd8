// Package populate writes mapped values into form fields while respecting
// prior user edits. One Populator owns the bookkeeping for one form
// session; it must not be shared across concurrently populating forms.
package populate

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"formfill/internal/autofill/form"
	"formfill/internal/autofill/mapping"
)

// Options controls one population pass.
type Options struct {
	// OverwriteUserInput writes over fields the user already edited.
	OverwriteUserInput bool
	// SetValue is the optional side-channel setter for non-native widgets.
	// When present it is invoked in addition to the native write, never
	// instead of it.
	SetValue func(fieldName, value string) error
	// Marker receives each successfully written field so hosts can render
	// an auto-fill indicator.
	Marker func(fieldName string)
}

// FieldError records a single field's population failure.
type FieldError struct {
	FieldName string
	Err       error
}

// Result is the per-call outcome of one population pass.
type Result struct {
	Success         bool
	PopulatedFields []string
	SkippedFields   []string
	Errors          []FieldError
}

// Populator tracks which fields the engine wrote and which the user edited
// for one form session. The two sets are disjoint: marking a field modified
// evicts it from the auto-filled set, and a successful engine write does
// the reverse.
type Populator struct {
	sessionID string
	filled    map[string]struct{}
	modified  map[string]struct{}
	logger    *slog.Logger
}

// Option configures the Populator.
type Option func(*Populator)

// WithLogger sets the logger for the populator.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Populator) { p.logger = logger }
}

// NewPopulator creates bookkeeping for one form session.
func NewPopulator(opts ...Option) *Populator {
	p := &Populator{
		sessionID: uuid.New().String(),
		filled:    make(map[string]struct{}),
		modified:  make(map[string]struct{}),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SessionID identifies this form session in logs.
func (p *Populator) SessionID() string { return p.sessionID }

// MarkModified records a user edit. The field leaves the auto-filled set
// and later population passes skip it unless overwrite is requested.
func (p *Populator) MarkModified(fieldName string) {
	delete(p.filled, fieldName)
	p.modified[fieldName] = struct{}{}
}

// IsAutoFilled reports whether the engine wrote the field last.
func (p *Populator) IsAutoFilled(fieldName string) bool {
	_, ok := p.filled[fieldName]
	return ok
}

// IsModified reports whether the user edited the field.
func (p *Populator) IsModified(fieldName string) bool {
	_, ok := p.modified[fieldName]
	return ok
}

// Reset clears both sets for a fresh session.
func (p *Populator) Reset() {
	p.filled = make(map[string]struct{})
	p.modified = make(map[string]struct{})
}

// Populate writes every mapping into its target field. Field failures are
// isolated: one field's panic or setter error never blocks the remaining
// fields. Fields carrying a prior user edit are skipped, and a field found
// already holding a value is treated as implicit user input and re-tagged
// as modified.
func (p *Populator) Populate(f form.Form, mappings []mapping.Mapping, opts Options) Result {
	result := Result{}

	notifier, _ := f.(form.ChangeNotifier)

	for _, m := range mappings {
		name := m.TargetFieldName

		if p.IsModified(name) && !opts.OverwriteUserInput {
			result.SkippedFields = append(result.SkippedFields, name)
			continue
		}

		if !opts.OverwriteUserInput && !form.IsPlaceholder(m.Target) && m.Target.Value() != "" {
			// A value the engine did not write is user input, even if this
			// session never saw the edit happen.
			p.MarkModified(name)
			result.SkippedFields = append(result.SkippedFields, name)
			continue
		}

		if err := p.writeField(m, opts, notifier); err != nil {
			p.logger.Warn("field population failed",
				"session_id", p.sessionID,
				"field", name,
				"source_attribute", m.SourceAttribute,
				"error", err,
			)
			result.Errors = append(result.Errors, FieldError{FieldName: name, Err: err})
			continue
		}

		delete(p.modified, name)
		p.filled[name] = struct{}{}
		result.PopulatedFields = append(result.PopulatedFields, name)
		if opts.Marker != nil {
			opts.Marker(name)
		}
	}

	result.Success = len(result.Errors) == 0
	return result
}

// writeField performs the side-channel and native writes for one mapping,
// converting a host-widget panic into an ordinary field error.
func (p *Populator) writeField(m mapping.Mapping, opts Options, notifier form.ChangeNotifier) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("field write panicked: %v", r)
		}
	}()

	if opts.SetValue != nil {
		if scErr := opts.SetValue(m.TargetFieldName, m.Value); scErr != nil {
			return fmt.Errorf("side-channel setter: %w", scErr)
		}
	}

	m.Target.SetValue(m.Value)

	// Synthetic change notification so host-form validation reacts to the
	// write the same way it reacts to typing.
	if notifier != nil && !form.IsPlaceholder(m.Target) {
		notifier.NotifyChange(m.TargetFieldName)
	}

	return nil
}
