package form

// MemoryField is the reference Field implementation backed by plain strings.
type MemoryField struct {
	name  string
	id    string
	value string
}

// NewMemoryField creates a field with the given name and id attributes.
func NewMemoryField(name, id string) *MemoryField {
	return &MemoryField{name: name, id: id}
}

func (f *MemoryField) Name() string          { return f.name }
func (f *MemoryField) ID() string            { return f.id }
func (f *MemoryField) Value() string         { return f.value }
func (f *MemoryField) SetValue(value string) { f.value = value }

// MemoryForm is the reference in-memory Form implementation used by hosts
// that assemble forms programmatically and by tests.
type MemoryForm struct {
	fields []Field

	// Changed records NotifyChange calls in order, letting hosts and tests
	// observe synthetic change notifications.
	Changed []string
}

// NewMemoryForm creates an empty form.
func NewMemoryForm() *MemoryForm {
	return &MemoryForm{}
}

// AddField appends a field with the given name attribute (id left empty) and
// returns it for further setup.
func (m *MemoryForm) AddField(name string) *MemoryField {
	f := NewMemoryField(name, "")
	m.fields = append(m.fields, f)
	return f
}

// AddFieldWithID appends a field with explicit name and id attributes.
func (m *MemoryForm) AddFieldWithID(name, id string) *MemoryField {
	f := NewMemoryField(name, id)
	m.fields = append(m.fields, f)
	return f
}

// Fields implements Form.
func (m *MemoryForm) Fields() []Field {
	return m.fields
}

// NotifyChange implements ChangeNotifier.
func (m *MemoryForm) NotifyChange(fieldName string) {
	m.Changed = append(m.Changed, fieldName)
}
