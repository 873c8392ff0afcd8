package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const corporateProviderID = "corporate-registry-http"

// OrganizationRecord is the upstream corporate registry's view of a
// registered company.
type OrganizationRecord struct {
	CompanyName        string
	RegistrationNumber string
	CompanyStatus      string
	RegistrationDate   string
	EntityType         string
}

// Attributes flattens the record into the wire data map, keeping the
// registry's key spellings. Empty attributes are omitted.
func (r OrganizationRecord) Attributes() map[string]string {
	out := make(map[string]string, 5)
	put := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	put("company_name", r.CompanyName)
	put("rc_number", r.RegistrationNumber)
	put("status", r.CompanyStatus)
	put("date_of_registration", r.RegistrationDate)
	put("entity_type", r.EntityType)
	return out
}

// CorporateClient calls the upstream corporate registry over HTTP.
type CorporateClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// CorporateClientOption configures the CorporateClient.
type CorporateClientOption func(*CorporateClient)

// WithCorporateHTTPClient sets a custom HTTP client (for testing).
func WithCorporateHTTPClient(client *http.Client) CorporateClientOption {
	return func(c *CorporateClient) { c.httpClient = client }
}

// NewCorporateClient creates an HTTP client for the corporate registry.
func NewCorporateClient(baseURL, apiKey string, timeout time.Duration, opts ...CorporateClientOption) *CorporateClient {
	c := &CorporateClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type companyLookupRequest struct {
	RCNumber    string `json:"rc_number"`
	CompanyName string `json:"company_name"`
}

type companyLookupResponse struct {
	CompanyName        string `json:"company_name"`
	RCNumber           string `json:"rc_number"`
	Status             string `json:"status"`
	DateOfRegistration string `json:"date_of_registration"`
	EntityType         string `json:"entity_type"`
}

// Lookup fetches the company record for a registration number. The
// registry matches the pair, so the company name travels with the number.
func (c *CorporateClient) Lookup(ctx context.Context, registrationNumber, companyName string) (*OrganizationRecord, error) {
	body, err := doLookup(ctx, c.httpClient, lookupCall{
		provider: corporateProviderID,
		url:      fmt.Sprintf("%s/api/v1/company/lookup", c.baseURL),
		apiKey:   c.apiKey,
		payload:  companyLookupRequest{RCNumber: registrationNumber, CompanyName: companyName},
	})
	if err != nil {
		return nil, err
	}

	var resp companyLookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, NewError(CategoryContractMismatch, corporateProviderID, "failed to parse response", err)
	}

	return &OrganizationRecord{
		CompanyName:        resp.CompanyName,
		RegistrationNumber: resp.RCNumber,
		CompanyStatus:      resp.Status,
		RegistrationDate:   resp.DateOfRegistration,
		EntityType:         resp.EntityType,
	}, nil
}
