package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const personProviderID = "person-registry-http"

// PersonRecord is the upstream national-identity registry's view of a
// person. Key spellings on the wire are the registry's own; the gateway
// client canonicalizes them on the way out.
type PersonRecord struct {
	FirstName     string
	MiddleName    string
	LastName      string
	Gender        string
	DateOfBirth   string
	PhoneNumber   string
	BirthState    string
	BirthDistrict string
}

// Attributes flattens the record into the wire data map, keeping the
// registry's key spellings. Empty attributes are omitted.
func (r PersonRecord) Attributes() map[string]string {
	out := make(map[string]string, 8)
	put := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	put("firstname", r.FirstName)
	put("middlename", r.MiddleName)
	put("surname", r.LastName)
	put("gender", r.Gender)
	put("birthdate", r.DateOfBirth)
	put("phone_number", r.PhoneNumber)
	put("birth_state", r.BirthState)
	put("birth_lga", r.BirthDistrict)
	return out
}

// PersonClient calls the upstream national-identity registry over HTTP.
type PersonClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// PersonClientOption configures the PersonClient.
type PersonClientOption func(*PersonClient)

// WithPersonHTTPClient sets a custom HTTP client (for testing).
func WithPersonHTTPClient(client *http.Client) PersonClientOption {
	return func(c *PersonClient) { c.httpClient = client }
}

// NewPersonClient creates an HTTP client for the person registry.
func NewPersonClient(baseURL, apiKey string, timeout time.Duration, opts ...PersonClientOption) *PersonClient {
	c := &PersonClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type personLookupRequest struct {
	NIN string `json:"nin"`
}

type personLookupResponse struct {
	NIN           string `json:"nin"`
	FirstName     string `json:"firstname"`
	MiddleName    string `json:"middlename"`
	Surname       string `json:"surname"`
	Gender        string `json:"gender"`
	BirthDate     string `json:"birthdate"`
	PhoneNumber   string `json:"phone_number"`
	BirthState    string `json:"birth_state"`
	BirthDistrict string `json:"birth_lga"`
}

// Lookup fetches the person record for a national identity number.
func (c *PersonClient) Lookup(ctx context.Context, identifier string) (*PersonRecord, error) {
	body, err := doLookup(ctx, c.httpClient, lookupCall{
		provider: personProviderID,
		url:      fmt.Sprintf("%s/api/v1/identity/lookup", c.baseURL),
		apiKey:   c.apiKey,
		payload:  personLookupRequest{NIN: identifier},
	})
	if err != nil {
		return nil, err
	}

	var resp personLookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, NewError(CategoryContractMismatch, personProviderID, "failed to parse response", err)
	}

	return &PersonRecord{
		FirstName:     resp.FirstName,
		MiddleName:    resp.MiddleName,
		LastName:      resp.Surname,
		Gender:        resp.Gender,
		DateOfBirth:   resp.BirthDate,
		PhoneNumber:   resp.PhoneNumber,
		BirthState:    resp.BirthState,
		BirthDistrict: resp.BirthDistrict,
	}, nil
}

// lookupCall bundles what one registry POST needs.
type lookupCall struct {
	provider string
	url      string
	apiKey   string
	payload  any
}

type registryErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doLookup executes a registry POST and maps transport and status failures
// onto the provider taxonomy. A nil error means a 200 with a readable body.
func doLookup(ctx context.Context, client *http.Client, call lookupCall) ([]byte, error) {
	reqBody, err := json.Marshal(call.payload)
	if err != nil {
		return nil, NewError(CategoryInternal, call.provider, "failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, call.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, NewError(CategoryInternal, call.provider, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", call.apiKey)

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, NewError(CategoryTimeout, call.provider, "request timeout", err)
		}
		return nil, NewError(CategoryOutage, call.provider, "failed to execute request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewError(CategoryInternal, call.provider, "failed to read response body", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, NewError(CategoryAuthentication, call.provider, "authentication failed", nil)
	case http.StatusBadRequest:
		var errResp registryErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			return nil, NewError(CategoryBadData, call.provider, errResp.Message, nil)
		}
		return nil, NewError(CategoryBadData, call.provider, "bad request", nil)
	case http.StatusNotFound:
		return nil, NewError(CategoryNotFound, call.provider, "record not found", nil)
	case http.StatusTooManyRequests:
		return nil, NewError(CategoryRateLimited, call.provider, "rate limited", nil)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return nil, NewError(CategoryOutage, call.provider, "registry unavailable", nil)
	default:
		return nil, NewError(CategoryInternal, call.provider,
			fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}
}
