package form

import (
	"strings"

	"formfill/pkg/strcase"
)

// abbreviations maps squashed canonical attribute names to the abbreviated
// spellings KYC forms use for the same field. Matching works in both
// directions: a logical "dateOfBirth" finds a field named "dob" and a
// logical "dob" finds a field named "date_of_birth".
var abbreviations = map[string][]string{
	"dateofbirth":        {"dob", "birthdate", "birthday"},
	"phonenumber":        {"gsmno", "gsm", "msisdn", "phoneno", "phone", "mobile", "mobilenumber"},
	"firstname":          {"fname", "forename", "givenname"},
	"lastname":           {"lname", "surname", "familyname"},
	"middlename":         {"mname", "othername", "othernames"},
	"gender":             {"sex"},
	"companyname":        {"businessname", "orgname", "organisationname", "organizationname"},
	"registrationnumber": {"rcnumber", "rcno", "regno", "regnumber"},
	"registrationdate":   {"regdate", "dateofregistration", "incorporationdate"},
	"companystatus":      {"status"},
	"birthstate":         {"stateoforigin"},
	"birthdistrict":      {"lgaoforigin", "lga"},
}

// reverseAbbreviations is derived once from abbreviations for alias-to-
// canonical lookups.
var reverseAbbreviations = func() map[string]string {
	m := make(map[string]string)
	for canonical, aliases := range abbreviations {
		for _, a := range aliases {
			m[a] = canonical
		}
	}
	return m
}()

// maxEditDistance bounds the fuzzy fallback. Two edits tolerates typos and
// pluralization without letting short field names collide.
const maxEditDistance = 2

// Resolve locates the best-matching field for a logical attribute name.
// Strategies run in order, first hit wins: exact name, exact id,
// case-insensitive name or id, convention variants plus domain
// abbreviations, and bounded edit distance. Exact and convention matches
// outrank fuzzy ones so short names cannot steal a resolution.
//
// Resolution is total: when nothing matches, a detached placeholder field is
// fabricated so callers relying on a side-channel setter still receive a
// dispatch target.
func Resolve(f Form, logical string) Field {
	if field, ok := ResolveExisting(f, logical); ok {
		return field
	}
	return NewPlaceholder(logical)
}

// ResolveExisting is Resolve without the placeholder fallback. It reports
// whether a real field on the form matched.
func ResolveExisting(f Form, logical string) (Field, bool) {
	fields := f.Fields()

	// 1. Exact match on declared name.
	for _, field := range fields {
		if field.Name() == logical {
			return field, true
		}
	}

	// 2. Exact match on declared id.
	for _, field := range fields {
		if field.ID() == logical {
			return field, true
		}
	}

	// 3. Case-insensitive match on name or id.
	for _, field := range fields {
		if strings.EqualFold(field.Name(), logical) || strings.EqualFold(field.ID(), logical) {
			return field, true
		}
	}

	// 4. Convention variants and domain abbreviations.
	for _, variant := range variants(logical) {
		for _, field := range fields {
			if strings.EqualFold(field.Name(), variant) || strings.EqualFold(field.ID(), variant) {
				return field, true
			}
		}
	}

	// 5. Minimum edit distance, accepted only within maxEditDistance.
	target := strcase.Squash(logical)
	var best Field
	bestDistance := maxEditDistance + 1
	for _, field := range fields {
		for _, candidate := range []string{strcase.Squash(field.Name()), strcase.Squash(field.ID())} {
			if candidate == "" {
				continue
			}
			if d := levenshtein(target, candidate); d < bestDistance {
				bestDistance = d
				best = field
			}
		}
	}
	if best != nil && bestDistance <= maxEditDistance {
		return best, true
	}

	return nil, false
}

// variants generates the naming-convention spellings and abbreviation
// aliases a logical name may appear under on a host form.
func variants(logical string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(v string) {
		if v == "" {
			return
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}

	add(strcase.ToSnake(logical))
	add(strcase.ToTitle(logical))
	add(strcase.ToSpaced(logical))
	add(strcase.Squash(logical))
	add(strcase.ToPascal(logical))

	squashed := strcase.Squash(logical)
	for _, alias := range abbreviations[squashed] {
		add(alias)
	}
	if canonical, ok := reverseAbbreviations[squashed]; ok {
		add(canonical)
		add(strcase.ToSnake(canonical))
		for _, sibling := range abbreviations[canonical] {
			add(sibling)
		}
	}

	return out
}
