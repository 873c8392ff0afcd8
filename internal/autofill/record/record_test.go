package record

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePerson(t *testing.T) {
	n := New()

	t.Run("full payload", func(t *testing.T) {
		rec := n.NormalizePerson(map[string]string{
			"firstName":     "  John ",
			"middleName":    "K",
			"lastName":      "Doe",
			"gender":        "M",
			"dateOfBirth":   "15/01/1990",
			"phoneNumber":   "+2348012345678",
			"birthState":    "Lagos",
			"birthDistrict": "Ikeja",
		})

		assert.Equal(t, "John", rec.FirstName)
		assert.Equal(t, "K", rec.MiddleName)
		assert.Equal(t, "Doe", rec.LastName)
		assert.Equal(t, "male", rec.Gender)
		assert.Equal(t, "1990-01-15", rec.DateOfBirth)
		assert.Equal(t, "08012345678", rec.PhoneNumber)
		assert.Equal(t, "Lagos", rec.BirthState)
		assert.Equal(t, "Ikeja", rec.BirthDistrict)
	})

	t.Run("one bad attribute does not abort siblings", func(t *testing.T) {
		rec := n.NormalizePerson(map[string]string{
			"firstName":   "Jane",
			"lastName":    "Doe",
			"gender":      "female",
			"dateOfBirth": "not a date",
			"phoneNumber": "12",
		})

		assert.Equal(t, "Jane", rec.FirstName)
		assert.Equal(t, "Doe", rec.LastName)
		assert.Equal(t, "female", rec.Gender)
		assert.Empty(t, rec.DateOfBirth)
		assert.Empty(t, rec.PhoneNumber)
	})

	t.Run("record is total for empty payload", func(t *testing.T) {
		rec := n.NormalizePerson(map[string]string{})
		assert.Empty(t, rec.FirstName)
		assert.Empty(t, rec.Gender)
		assert.Empty(t, rec.DateOfBirth)
	})
}

func TestNormalizeOrganization(t *testing.T) {
	n := New(WithLogger(slog.Default()))

	rec := n.NormalizeOrganization(map[string]string{
		"companyName":        "Test Co Ltd",
		"registrationNumber": "RC123456",
		"registrationDate":   "2020-05-15",
		"companyStatus":      " Active ",
		"entityType":         "Private  Company",
	})

	assert.Equal(t, "Test Co Limited", rec.CompanyName)
	assert.Equal(t, "123456", rec.RegistrationNumber)
	assert.Equal(t, "2020-05-15", rec.RegistrationDate)
	assert.Equal(t, "Active", rec.CompanyStatus)
	assert.Equal(t, "Private Company", rec.EntityType)
}

func TestAttributeFlattening(t *testing.T) {
	person := PersonAttributes(CanonicalPersonRecord{FirstName: "A", LastName: "B"})
	require.Len(t, person, 8)
	assert.Equal(t, Attribute{"firstName", "A"}, person[0])
	assert.Equal(t, Attribute{"lastName", "B"}, person[2])

	org := OrganizationAttributes(CanonicalOrganizationRecord{CompanyName: "C"})
	require.Len(t, org, 5)
	assert.Equal(t, Attribute{"companyName", "C"}, org[0])
}

func TestNonEmptyCount(t *testing.T) {
	assert.Equal(t, 0, NonEmptyCount(nil))
	assert.Equal(t, 0, NonEmptyCount(map[string]string{"a": ""}))
	assert.Equal(t, 2, NonEmptyCount(map[string]string{"a": "1", "b": "", "c": "2"}))
}
