package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formfill/contracts/verification"
	"formfill/internal/verifyd/handler"
	"formfill/internal/verifyd/service"
	"formfill/pkg/fferrors"
)

type stubVerifier struct {
	personCalls int
	orgCalls    int
	lookup      service.Lookup
	err         error
}

func (s *stubVerifier) VerifyPerson(context.Context, string) (service.Lookup, error) {
	s.personCalls++
	return s.lookup, s.err
}

func (s *stubVerifier) VerifyOrganization(context.Context, string, string) (service.Lookup, error) {
	s.orgCalls++
	return s.lookup, s.err
}

func newRouter(svc *stubVerifier) http.Handler {
	r := chi.NewRouter()
	h := handler.New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.Routes(r)
	return r
}

func post(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestVerifyPersonSuccess(t *testing.T) {
	svc := &stubVerifier{lookup: service.Lookup{
		Data:   map[string]string{"firstname": "John", "surname": "Doe"},
		Cached: true,
	}}
	rec := post(t, newRouter(svc), "/api/v1/verify/person",
		verification.PersonRequest{Identifier: "12345678901"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp verification.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.True(t, resp.Cached)
	assert.Equal(t, "John", resp.Data["firstname"])
	assert.Equal(t, 1, svc.personCalls)
}

func TestVerifyPersonValidation(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		wantStatus int
		wantCode   string
	}{
		{"missing identifier", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"too short", "12345", http.StatusBadRequest, "INVALID_FORMAT"},
		{"non-numeric", "1234567890a", http.StatusBadRequest, "INVALID_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubVerifier{}
			rec := post(t, newRouter(svc), "/api/v1/verify/person",
				verification.PersonRequest{Identifier: tt.identifier})

			require.Equal(t, tt.wantStatus, rec.Code)
			var resp verification.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.ErrorCode)
			assert.Zero(t, svc.personCalls, "invalid requests must not reach the service")
		})
	}
}

func TestVerifyOrganizationRequiresBothFields(t *testing.T) {
	svc := &stubVerifier{}
	router := newRouter(svc)

	rec := post(t, router, "/api/v1/verify/organization",
		verification.OrganizationRequest{RegistrationNumber: "RC123456"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, router, "/api/v1/verify/organization",
		verification.OrganizationRequest{CompanyName: "Test Co"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, svc.orgCalls)
}

func TestVerifyOrganizationSuccess(t *testing.T) {
	svc := &stubVerifier{lookup: service.Lookup{
		Data: map[string]string{"company_name": "Test Co Ltd", "rc_number": "RC123456"},
	}}
	rec := post(t, newRouter(svc), "/api/v1/verify/organization",
		verification.OrganizationRequest{RegistrationNumber: "RC123456", CompanyName: "Test Co"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp verification.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Test Co Ltd", resp.Data["company_name"])
	assert.False(t, resp.Cached)
}

func TestServiceErrorTranslation(t *testing.T) {
	tests := []struct {
		code       fferrors.Code
		wantStatus int
	}{
		{fferrors.CodeNotFound, http.StatusNotFound},
		{fferrors.CodeRateLimit, http.StatusTooManyRequests},
		{fferrors.CodeUnauthorized, http.StatusUnauthorized},
		{fferrors.CodeTimeout, http.StatusGatewayTimeout},
		{fferrors.CodeServerError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			svc := &stubVerifier{err: fferrors.New(tt.code, "lookup failed")}
			rec := post(t, newRouter(svc), "/api/v1/verify/person",
				verification.PersonRequest{Identifier: "12345678901"})

			require.Equal(t, tt.wantStatus, rec.Code)
			var resp verification.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.code), resp.ErrorCode)
		})
	}
}

func TestMalformedBodyRejected(t *testing.T) {
	svc := &stubVerifier{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/verify/person",
		bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.personCalls)
}
