package form

import "strings"

// IdentifierType selects which registry a form identifier is verified
// against. It is chosen at attachment time and never changes for the life
// of the attachment.
type IdentifierType int

const (
	IdentifierPerson IdentifierType = iota
	IdentifierOrganization
)

func (t IdentifierType) String() string {
	switch t {
	case IdentifierPerson:
		return "person"
	case IdentifierOrganization:
		return "organization"
	default:
		return "unknown"
	}
}

// FormType classifies a form by which identifier fields it carries. It is
// derived on demand, never stored.
type FormType int

const (
	FormTypeNone FormType = iota
	FormTypeIndividual
	FormTypeCorporate
	FormTypeMixed
)

func (t FormType) String() string {
	switch t {
	case FormTypeIndividual:
		return "individual"
	case FormTypeCorporate:
		return "corporate"
	case FormTypeMixed:
		return "mixed"
	default:
		return "none"
	}
}

// Identifier fields are located by substring, not fuzzy matching: forms name
// them with recognizable fragments, and a fuzzy scan over every input would
// misfire on ordinary data fields.
var identifierPatterns = map[IdentifierType][]string{
	IdentifierPerson:       {"nin", "nationalid", "national_id"},
	IdentifierOrganization: {"cac", "rc", "rcnumber", "registrationnumber", "registration_number"},
}

// DetectFormType reports whether a form accepts a person identifier, an
// organization identifier, both, or neither.
func DetectFormType(f Form) FormType {
	person := hasIdentifierField(f, IdentifierPerson)
	org := hasIdentifierField(f, IdentifierOrganization)

	switch {
	case person && org:
		return FormTypeMixed
	case person:
		return FormTypeIndividual
	case org:
		return FormTypeCorporate
	default:
		return FormTypeNone
	}
}

// Supports reports whether the form carries an identifier field of the given
// type.
func Supports(f Form, t IdentifierType) bool {
	return hasIdentifierField(f, t)
}

// IdentifierField returns the concrete field holding the identifier of the
// given type. The first structural match wins.
func IdentifierField(f Form, t IdentifierType) (Field, bool) {
	patterns := identifierPatterns[t]
	for _, field := range f.Fields() {
		for _, attr := range []string{field.Name(), field.ID()} {
			if matchesIdentifierPattern(attr, patterns) {
				return field, true
			}
		}
	}
	return nil, false
}

func hasIdentifierField(f Form, t IdentifierType) bool {
	_, ok := IdentifierField(f, t)
	return ok
}

func matchesIdentifierPattern(attr string, patterns []string) bool {
	if attr == "" {
		return false
	}
	candidate := strings.ToLower(strings.ReplaceAll(attr, " ", ""))
	for _, p := range patterns {
		if strings.Contains(candidate, p) {
			return true
		}
	}
	return false
}
