package autofill

import (
	"formfill/internal/autofill/form"
	"formfill/internal/autofill/mapping"
)

// Config is the host-supplied activation policy. Auto-fill runs for a form
// iff the global flag and the detected form type's flag are both set.
type Config struct {
	// Enabled is the global switch.
	Enabled bool
	// Individual, Corporate and Mixed enable auto-fill per form type.
	Individual bool
	Corporate  bool
	Mixed      bool

	// Overrides maps canonical attribute names to explicit form field names,
	// keyed by form type. An override beats automatic field resolution.
	Overrides map[form.FormType]mapping.Overrides

	// OverwriteUserInput lets population write over user-edited fields.
	// Off by default.
	OverwriteUserInput bool
}

// DefaultConfig enables auto-fill everywhere with no overrides.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Individual: true,
		Corporate:  true,
		Mixed:      true,
	}
}

// Active reports whether auto-fill may run for the given form type.
func (c Config) Active(t form.FormType) bool {
	if !c.Enabled {
		return false
	}
	switch t {
	case form.FormTypeIndividual:
		return c.Individual
	case form.FormTypeCorporate:
		return c.Corporate
	case form.FormTypeMixed:
		return c.Mixed
	default:
		return false
	}
}

// OverridesFor returns the override table for a form type, nil when none.
func (c Config) OverridesFor(t form.FormType) mapping.Overrides {
	if c.Overrides == nil {
		return nil
	}
	return c.Overrides[t]
}
