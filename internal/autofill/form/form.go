// Package form models the host-form boundary: addressable input-like fields,
// logical-name resolution against whatever naming convention the form uses,
// and identifier-field detection.
package form

// Field is an addressable input-like element on a host form. Implementations
// wrap whatever widget the host actually renders; the engine only ever reads
// and writes string values.
type Field interface {
	// Name is the field's declared name attribute; may be empty.
	Name() string
	// ID is the field's declared id attribute; may be empty.
	ID() string
	// Value returns the field's current value.
	Value() string
	// SetValue writes the field's value natively.
	SetValue(value string)
}

// Form is any structure exposing addressable fields.
type Form interface {
	Fields() []Field
}

// ChangeNotifier is implemented by host forms that run validation on input.
// The populator notifies it after every native write so form-level validation
// reacts to engine writes the same way it reacts to typing.
type ChangeNotifier interface {
	NotifyChange(fieldName string)
}

// placeholderField is a detached dispatch target fabricated when resolution
// finds no real field. It keeps population structurally total: hosts that
// route values through a side-channel setter still receive the write even
// though no native element exists.
type placeholderField struct {
	name  string
	value string
}

func (p *placeholderField) Name() string          { return p.name }
func (p *placeholderField) ID() string            { return p.name }
func (p *placeholderField) Value() string         { return p.value }
func (p *placeholderField) SetValue(value string) { p.value = value }

// NewPlaceholder fabricates a detached field carrying the logical name.
func NewPlaceholder(logicalName string) Field {
	return &placeholderField{name: logicalName}
}

// IsPlaceholder reports whether a field was fabricated by the resolver
// rather than found on the form.
func IsPlaceholder(f Field) bool {
	_, ok := f.(*placeholderField)
	return ok
}
