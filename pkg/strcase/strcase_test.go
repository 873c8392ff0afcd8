package strcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"dateOfBirth", []string{"date", "of", "birth"}},
		{"date_of_birth", []string{"date", "of", "birth"}},
		{"Date Of Birth", []string{"date", "of", "birth"}},
		{"NINNumber", []string{"nin", "number"}},
		{"addressLine2", []string{"address", "line2"}},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Words(tt.in), "Words(%q)", tt.in)
	}
}

func TestConversions(t *testing.T) {
	const in = "dateOfBirth"

	assert.Equal(t, "date_of_birth", ToSnake(in))
	assert.Equal(t, "date of birth", ToSpaced(in))
	assert.Equal(t, "Date Of Birth", ToTitle(in))
	assert.Equal(t, "DateOfBirth", ToPascal(in))
	assert.Equal(t, "dateofbirth", Squash(in))
}

func TestSquashIsConventionInsensitive(t *testing.T) {
	variants := []string{"dateOfBirth", "date_of_birth", "Date Of Birth", "DateOfBirth", "date-of-birth"}
	for _, v := range variants {
		assert.Equal(t, "dateofbirth", Squash(v), "Squash(%q)", v)
	}
}
