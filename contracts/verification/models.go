// Package verification defines the wire contract between the auto-fill
// gateway client and the verification backend. Both sides depend on this
// module so the request and response shapes cannot drift apart.
package verification

// ContractVersion identifies the schema shared by the gateway and the backend.
const ContractVersion = "v0.1.0"

// PersonRequest is the body for POST /api/v1/verify/person.
type PersonRequest struct {
	Identifier string `json:"identifier" validate:"required,len=11,numeric"`
	UserID     string `json:"userId,omitempty"`
	FormID     string `json:"formId,omitempty"`
	UserName   string `json:"userName,omitempty"`
	UserEmail  string `json:"userEmail,omitempty" validate:"omitempty,email"`
}

// OrganizationRequest is the body for POST /api/v1/verify/organization.
// The upstream corporate registry requires the registration number and the
// company name as a pair.
type OrganizationRequest struct {
	RegistrationNumber string `json:"registrationNumber" validate:"required,notblank"`
	CompanyName        string `json:"companyName" validate:"required,notblank"`
	UserID             string `json:"userId,omitempty"`
	FormID             string `json:"formId,omitempty"`
	UserName           string `json:"userName,omitempty"`
	UserEmail          string `json:"userEmail,omitempty" validate:"omitempty,email"`
}

// Response is the success envelope for both verification endpoints.
// Data keys may be provider-aliased; the gateway canonicalizes key names
// before handing them to its callers.
type Response struct {
	Status string            `json:"status"`
	Data   map[string]string `json:"data"`
	Cached bool              `json:"cached"`
}

// ErrorResponse is the non-2xx envelope for both verification endpoints.
type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}
