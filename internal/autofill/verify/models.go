package verify

import (
	"strings"

	"formfill/pkg/fferrors"
)

// Result is the structured outcome of one verification call. The gateway
// never panics or returns a bare error past its boundary; every outcome,
// including transport failure, lands here.
type Result struct {
	Success bool
	// Data holds the raw registry attributes keyed by canonical attribute
	// name. Values are transport-shape normalized only; value normalization
	// happens in the record package.
	Data map[string]string
	// Cached reports whether the backend answered from a prior successful
	// lookup without re-querying the registry. Passed through unmodified.
	Cached bool
	Error  *fferrors.Error
}

// failure builds an unsuccessful Result.
func failure(code fferrors.Code, msg string) Result {
	return Result{Error: fferrors.New(code, msg)}
}

// Meta carries the optional caller identification the backend records with
// each verification request.
type Meta struct {
	UserID    string
	FormID    string
	UserName  string
	UserEmail string
}

// personKeyAliases maps squashed backend key spellings to the canonical
// person attribute names. Providers behind the backend disagree on key
// naming; the gateway settles it at the transport shape so every caller
// sees one vocabulary.
var personKeyAliases = map[string]string{
	"firstname":     "firstName",
	"middlename":    "middleName",
	"othername":     "middleName",
	"othernames":    "middleName",
	"lastname":      "lastName",
	"surname":       "lastName",
	"gender":        "gender",
	"sex":           "gender",
	"dateofbirth":   "dateOfBirth",
	"birthdate":     "dateOfBirth",
	"dob":           "dateOfBirth",
	"phonenumber":   "phoneNumber",
	"phone":         "phoneNumber",
	"telephoneno":   "phoneNumber",
	"msisdn":        "phoneNumber",
	"birthstate":    "birthState",
	"stateoforigin": "birthState",
	"birthdistrict": "birthDistrict",
	"birthlga":      "birthDistrict",
	"lgaoforigin":   "birthDistrict",
}

// organizationKeyAliases maps squashed backend key spellings to the
// canonical organization attribute names.
var organizationKeyAliases = map[string]string{
	"companyname":        "companyName",
	"name":               "companyName",
	"registrationnumber": "registrationNumber",
	"rcnumber":           "registrationNumber",
	"registrationdate":   "registrationDate",
	"dateofregistration": "registrationDate",
	"incorporationdate":  "registrationDate",
	"companystatus":      "companyStatus",
	"status":             "companyStatus",
	"entitytype":         "entityType",
	"companytype":        "entityType",
}

// canonicalizeKeys rewrites provider-aliased keys to the canonical names.
// Unknown keys pass through untouched; when an alias and the canonical key
// both appear, the canonical spelling wins.
func canonicalizeKeys(data map[string]string, aliases map[string]string) map[string]string {
	if data == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(data))
	for key, value := range data {
		canonical, ok := aliases[squashKey(key)]
		if !ok {
			out[key] = value
			continue
		}
		if existing, taken := out[canonical]; taken && existing != "" && key != canonical {
			continue
		}
		out[canonical] = value
	}
	return out
}

func squashKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, " ", "")
	return key
}
