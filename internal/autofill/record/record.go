// Package record turns raw verification payloads into canonical records.
// Every attribute is normalized independently: one attribute failing to
// parse leaves its slot empty and never aborts its siblings, so downstream
// consumers can treat the record as total.
package record

import (
	"log/slog"

	"formfill/internal/autofill/normalize"
)

// CanonicalPersonRecord is the fixed-shape person attribute set produced
// before field mapping. Required keys hold concrete, possibly empty,
// values; optional attributes are empty when the registry omits them.
type CanonicalPersonRecord struct {
	FirstName     string
	MiddleName    string
	LastName      string
	Gender        string // "male", "female", or ""
	DateOfBirth   string // ISO 8601 date or ""
	PhoneNumber   string
	BirthState    string
	BirthDistrict string
}

// CanonicalOrganizationRecord is the fixed-shape organization attribute set.
type CanonicalOrganizationRecord struct {
	CompanyName        string
	RegistrationNumber string
	RegistrationDate   string // ISO 8601 date or ""
	CompanyStatus      string
	EntityType         string
}

// Normalizer converts verification payloads into canonical records.
type Normalizer struct {
	logger *slog.Logger
}

// Option configures the Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger used for per-attribute failures.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) { n.logger = logger }
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{logger: slog.Default()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NormalizePerson maps a canonical-keyed person payload through the value
// normalizers. A failed date or phone conversion is logged and leaves the
// attribute empty.
func (n *Normalizer) NormalizePerson(data map[string]string) CanonicalPersonRecord {
	rec := CanonicalPersonRecord{
		FirstName:     normalize.FreeText(data["firstName"]),
		MiddleName:    normalize.FreeText(data["middleName"]),
		LastName:      normalize.FreeText(data["lastName"]),
		Gender:        normalize.Gender(data["gender"]),
		BirthState:    normalize.FreeText(data["birthState"]),
		BirthDistrict: normalize.FreeText(data["birthDistrict"]),
	}

	rec.DateOfBirth = n.date("dateOfBirth", data["dateOfBirth"])
	rec.PhoneNumber = n.phone("phoneNumber", data["phoneNumber"])

	return rec
}

// NormalizeOrganization maps a canonical-keyed organization payload through
// the value normalizers.
func (n *Normalizer) NormalizeOrganization(data map[string]string) CanonicalOrganizationRecord {
	return CanonicalOrganizationRecord{
		CompanyName:        normalize.CompanyName(data["companyName"]),
		RegistrationNumber: normalize.RegistryNumber(data["registrationNumber"]),
		RegistrationDate:   n.date("registrationDate", data["registrationDate"]),
		CompanyStatus:      normalize.FreeText(data["companyStatus"]),
		EntityType:         normalize.FreeText(data["entityType"]),
	}
}

func (n *Normalizer) date(attribute, raw string) string {
	if raw == "" {
		return ""
	}
	value, err := normalize.Date(raw)
	if err != nil {
		n.logger.Warn("could not normalize attribute", "attribute", attribute, "error", err)
		return ""
	}
	return value
}

func (n *Normalizer) phone(attribute, raw string) string {
	if raw == "" {
		return ""
	}
	value, err := normalize.Phone(raw)
	if err != nil {
		n.logger.Warn("could not normalize attribute", "attribute", attribute, "error", err)
		return ""
	}
	return value
}

// PersonAttributes flattens a person record into the logical-name keyed map
// the field mapper consumes. Key order is fixed so mapping output is
// deterministic.
func PersonAttributes(rec CanonicalPersonRecord) []Attribute {
	return []Attribute{
		{"firstName", rec.FirstName},
		{"middleName", rec.MiddleName},
		{"lastName", rec.LastName},
		{"gender", rec.Gender},
		{"dateOfBirth", rec.DateOfBirth},
		{"phoneNumber", rec.PhoneNumber},
		{"birthState", rec.BirthState},
		{"birthDistrict", rec.BirthDistrict},
	}
}

// OrganizationAttributes flattens an organization record for mapping.
func OrganizationAttributes(rec CanonicalOrganizationRecord) []Attribute {
	return []Attribute{
		{"companyName", rec.CompanyName},
		{"registrationNumber", rec.RegistrationNumber},
		{"registrationDate", rec.RegistrationDate},
		{"companyStatus", rec.CompanyStatus},
		{"entityType", rec.EntityType},
	}
}

// Attribute is one canonical attribute: its logical field name and
// normalized value.
type Attribute struct {
	Name  string
	Value string
}

// NonEmptyCount reports how many attributes in a payload carry a value.
// The orchestrator uses it to reject technically-successful responses that
// are too empty to be a real record.
func NonEmptyCount(data map[string]string) int {
	count := 0
	for _, v := range data {
		if v != "" {
			count++
		}
	}
	return count
}
