package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personForm() *MemoryForm {
	f := NewMemoryForm()
	f.AddField("nin")
	f.AddField("firstName")
	f.AddField("lastName")
	return f
}

func corporateForm() *MemoryForm {
	f := NewMemoryForm()
	f.AddField("rcNumber")
	f.AddField("companyName")
	return f
}

func TestDetectFormType(t *testing.T) {
	tests := []struct {
		name  string
		build func() *MemoryForm
		want  FormType
	}{
		{"person identifier only", personForm, FormTypeIndividual},
		{"organization identifier only", corporateForm, FormTypeCorporate},
		{"both identifiers", func() *MemoryForm {
			f := personForm()
			f.AddField("cacNumber")
			return f
		}, FormTypeMixed},
		{"neither identifier", func() *MemoryForm {
			f := NewMemoryForm()
			f.AddField("email")
			f.AddField("address")
			return f
		}, FormTypeNone},
		{"empty form", NewMemoryForm, FormTypeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormType(tt.build()))
		})
	}
}

func TestSupports(t *testing.T) {
	assert.True(t, Supports(personForm(), IdentifierPerson))
	assert.False(t, Supports(personForm(), IdentifierOrganization))
	assert.True(t, Supports(corporateForm(), IdentifierOrganization))
	assert.False(t, Supports(corporateForm(), IdentifierPerson))
}

func TestIdentifierField(t *testing.T) {
	t.Run("matches by substring case-insensitively", func(t *testing.T) {
		f := NewMemoryForm()
		want := f.AddField("National ID Number")

		got, ok := IdentifierField(f, IdentifierPerson)
		require.True(t, ok)
		assert.Same(t, Field(want), got)
	})

	t.Run("matches on id attribute", func(t *testing.T) {
		f := NewMemoryForm()
		want := f.AddFieldWithID("identity", "customer_nin")

		got, ok := IdentifierField(f, IdentifierPerson)
		require.True(t, ok)
		assert.Same(t, Field(want), got)
	})

	t.Run("first structural match wins", func(t *testing.T) {
		f := NewMemoryForm()
		first := f.AddField("ninField")
		f.AddField("nationalIdNumber")

		got, ok := IdentifierField(f, IdentifierPerson)
		require.True(t, ok)
		assert.Same(t, Field(first), got)
	})

	t.Run("organization patterns", func(t *testing.T) {
		for _, name := range []string{"cacNumber", "rc_number", "registrationNumber", "RC"} {
			f := NewMemoryForm()
			want := f.AddField(name)

			got, ok := IdentifierField(f, IdentifierOrganization)
			require.True(t, ok, "field %q", name)
			assert.Same(t, Field(want), got)
		}
	})

	t.Run("no fuzzy matching for identifiers", func(t *testing.T) {
		f := NewMemoryForm()
		f.AddField("nim") // one edit from nin, must not match

		_, ok := IdentifierField(f, IdentifierPerson)
		assert.False(t, ok)
	})
}
