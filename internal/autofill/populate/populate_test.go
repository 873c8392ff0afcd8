package populate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formfill/internal/autofill/form"
	"formfill/internal/autofill/mapping"
	"formfill/internal/autofill/populate"
)

func mappingFor(f form.Field, value, source string) mapping.Mapping {
	return mapping.Mapping{
		TargetFieldName: f.Name(),
		Target:          f,
		Value:           value,
		SourceAttribute: source,
	}
}

func TestPopulateWritesFieldsAndNotifies(t *testing.T) {
	mf := form.NewMemoryForm()
	first := mf.AddField("firstName")
	last := mf.AddField("lastName")

	p := populate.NewPopulator()
	result := p.Populate(mf, []mapping.Mapping{
		mappingFor(first, "Ada", "firstName"),
		mappingFor(last, "Obi", "lastName"),
	}, populate.Options{})

	require.True(t, result.Success)
	assert.Equal(t, []string{"firstName", "lastName"}, result.PopulatedFields)
	assert.Empty(t, result.SkippedFields)
	assert.Empty(t, result.Errors)

	assert.Equal(t, "Ada", first.Value())
	assert.Equal(t, "Obi", last.Value())
	assert.Equal(t, []string{"firstName", "lastName"}, mf.Changed)

	assert.True(t, p.IsAutoFilled("firstName"))
	assert.False(t, p.IsModified("firstName"))
}

func TestPopulateSkipsUserModifiedFields(t *testing.T) {
	mf := form.NewMemoryForm()
	first := mf.AddField("firstName")
	first.SetValue("Grace")

	p := populate.NewPopulator()
	p.MarkModified("firstName")

	result := p.Populate(mf, []mapping.Mapping{
		mappingFor(first, "Ada", "firstName"),
	}, populate.Options{})

	require.True(t, result.Success)
	assert.Empty(t, result.PopulatedFields)
	assert.Equal(t, []string{"firstName"}, result.SkippedFields)
	assert.Equal(t, "Grace", first.Value(), "user edit must survive")
}

func TestPopulateOverwriteWritesModifiedFields(t *testing.T) {
	mf := form.NewMemoryForm()
	first := mf.AddField("firstName")
	first.SetValue("Grace")

	p := populate.NewPopulator()
	p.MarkModified("firstName")

	result := p.Populate(mf, []mapping.Mapping{
		mappingFor(first, "Ada", "firstName"),
	}, populate.Options{OverwriteUserInput: true})

	require.True(t, result.Success)
	assert.Equal(t, []string{"firstName"}, result.PopulatedFields)
	assert.Equal(t, "Ada", first.Value())

	// A successful engine write moves the field back to the auto-filled set.
	assert.True(t, p.IsAutoFilled("firstName"))
	assert.False(t, p.IsModified("firstName"))
}

func TestPopulateTreatsPreexistingValueAsUserInput(t *testing.T) {
	mf := form.NewMemoryForm()
	first := mf.AddField("firstName")
	first.SetValue("Grace") // typed before the engine ever ran

	p := populate.NewPopulator()
	result := p.Populate(mf, []mapping.Mapping{
		mappingFor(first, "Ada", "firstName"),
	}, populate.Options{})

	require.True(t, result.Success)
	assert.Equal(t, []string{"firstName"}, result.SkippedFields)
	assert.Equal(t, "Grace", first.Value())
	assert.True(t, p.IsModified("firstName"))
}

func TestPopulateSideChannelSetter(t *testing.T) {
	mf := form.NewMemoryForm()
	first := mf.AddField("firstName")
	last := mf.AddField("lastName")

	written := map[string]string{}
	opts := populate.Options{
		SetValue: func(name, value string) error {
			if name == "lastName" {
				return errors.New("widget rejected value")
			}
			written[name] = value
			return nil
		},
	}

	p := populate.NewPopulator()
	result := p.Populate(mf, []mapping.Mapping{
		mappingFor(first, "Ada", "firstName"),
		mappingFor(last, "Obi", "lastName"),
	}, opts)

	assert.False(t, result.Success)
	assert.Equal(t, []string{"firstName"}, result.PopulatedFields)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "lastName", result.Errors[0].FieldName)

	// The side channel runs in addition to the native write.
	assert.Equal(t, "Ada", written["firstName"])
	assert.Equal(t, "Ada", first.Value())
}

type panickyField struct{ form.Field }

func (panickyField) SetValue(string) { panic("host widget gone") }

func TestPopulateIsolatesFieldPanics(t *testing.T) {
	mf := form.NewMemoryForm()
	first := mf.AddField("firstName")
	bad := panickyField{Field: mf.AddField("lastName")}
	gender := mf.AddField("gender")

	p := populate.NewPopulator()
	result := p.Populate(mf, []mapping.Mapping{
		mappingFor(first, "Ada", "firstName"),
		{TargetFieldName: "lastName", Target: bad, Value: "Obi", SourceAttribute: "lastName"},
		mappingFor(gender, "female", "gender"),
	}, populate.Options{})

	assert.False(t, result.Success)
	assert.Equal(t, []string{"firstName", "gender"}, result.PopulatedFields,
		"a failing field must not block the rest")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "lastName", result.Errors[0].FieldName)
	assert.ErrorContains(t, result.Errors[0].Err, "panicked")
}

func TestPopulateMarkerCallback(t *testing.T) {
	mf := form.NewMemoryForm()
	first := mf.AddField("firstName")

	var marked []string
	p := populate.NewPopulator()
	p.Populate(mf, []mapping.Mapping{
		mappingFor(first, "Ada", "firstName"),
	}, populate.Options{Marker: func(name string) { marked = append(marked, name) }})

	assert.Equal(t, []string{"firstName"}, marked)
}

func TestPopulatePlaceholdersAlwaysWritable(t *testing.T) {
	mf := form.NewMemoryForm()
	ph := form.NewPlaceholder("middleName")
	ph.SetValue("stale") // a prior pass left a value behind

	p := populate.NewPopulator()
	result := p.Populate(mf, []mapping.Mapping{
		{TargetFieldName: "middleName", Target: ph, Value: "Ngozi", SourceAttribute: "middleName"},
	}, populate.Options{})

	require.True(t, result.Success)
	assert.Equal(t, "Ngozi", ph.Value())
	assert.Empty(t, mf.Changed, "placeholders never raise change notifications")
}

func TestMarkModifiedEvictsFromAutoFilledSet(t *testing.T) {
	mf := form.NewMemoryForm()
	first := mf.AddField("firstName")

	p := populate.NewPopulator()
	p.Populate(mf, []mapping.Mapping{
		mappingFor(first, "Ada", "firstName"),
	}, populate.Options{})
	require.True(t, p.IsAutoFilled("firstName"))

	p.MarkModified("firstName")
	assert.False(t, p.IsAutoFilled("firstName"))
	assert.True(t, p.IsModified("firstName"))
}

func TestResetClearsSessionState(t *testing.T) {
	p := populate.NewPopulator()
	p.MarkModified("firstName")
	p.Reset()
	assert.False(t, p.IsModified("firstName"))
}
