// Mock corporate registry for local development of the verification
// backend. Magic registration numbers control failure behavior; everything
// else yields deterministic pseudo-random company data.
package main

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort      = "8082"
	defaultAPIKey    = "corporate-registry-dev-key"
	defaultLatencyMs = "100"
)

type LookupRequest struct {
	RCNumber    string `json:"rc_number"`
	CompanyName string `json:"company_name"`
}

type LookupResponse struct {
	CompanyName        string `json:"company_name"`
	RCNumber           string `json:"rc_number"`
	Status             string `json:"status"`
	DateOfRegistration string `json:"date_of_registration"`
	EntityType         string `json:"entity_type"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var (
	apiKey    = getEnv("API_KEY", defaultAPIKey)
	latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)
)

// Magic registration numbers drive the mock's failure modes.
var magicNumbers = map[string]int{
	"RC404": http.StatusNotFound,
	"RC429": http.StatusTooManyRequests,
	"RC503": http.StatusServiceUnavailable,
	"RC401": http.StatusUnauthorized,
}

// testCompanies pins well-known registration numbers to fixed records.
// The suffixed company names exercise suffix standardization downstream.
var testCompanies = map[string]LookupResponse{
	"RC123456": {
		CompanyName:        "Test Co Ltd",
		RCNumber:           "RC123456",
		Status:             "Active",
		DateOfRegistration: "2020-05-15",
		EntityType:         "Private Company Limited by Shares",
	},
	"RC654321": {
		CompanyName:        "Acme Holdings PLC",
		RCNumber:           "RC654321",
		Status:             "Active",
		DateOfRegistration: "15/3/2012",
		EntityType:         "Public Company",
	},
}

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/api/v1/company/lookup", handleLookup)

	log.Printf("Mock corporate registry starting on port %s (latency %dms)", port, latencyMs)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "corporate-registry",
	})
}

func handleLookup(w http.ResponseWriter, r *http.Request) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)
	log.Printf("incoming request: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.Header.Get("X-API-Key") != apiKey {
		sendError(w, "Invalid API key", http.StatusUnauthorized)
		return
	}

	var req LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.RCNumber == "" || req.CompanyName == "" {
		sendError(w, "rc_number and company_name are required", http.StatusBadRequest)
		return
	}

	if status, ok := magicNumbers[req.RCNumber]; ok {
		sendError(w, http.StatusText(status), status)
		log.Printf("magic number %s -> %d", req.RCNumber, status)
		return
	}

	var company LookupResponse
	if fixed, ok := testCompanies[req.RCNumber]; ok {
		company = fixed
	} else {
		company = generateCompany(req.RCNumber, req.CompanyName)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(company)
	log.Printf("lookup successful: %s -> %s (%s)", req.RCNumber, company.CompanyName, company.Status)
}

func generateCompany(rcNumber, companyName string) LookupResponse {
	hash := sha256.Sum256([]byte(rcNumber))
	h := int(hash[0])

	statuses := []string{"Active", "Active", "Active", "Inactive", "Dissolved"}
	entityTypes := []string{
		"Private Company Limited by Shares",
		"Public Company",
		"Business Name",
		"Incorporated Trustees",
	}

	year := 1990 + (h % 35)
	month := 1 + (h % 12)
	day := 1 + (h % 28)
	regDate := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	if year > time.Now().Year() {
		regDate = fmt.Sprintf("%04d-%02d-%02d", time.Now().Year()-1, month, day)
	}

	return LookupResponse{
		CompanyName:        companyName + " Ltd",
		RCNumber:           rcNumber,
		Status:             statuses[h%len(statuses)],
		DateOfRegistration: regDate,
		EntityType:         entityTypes[(h*3)%len(entityTypes)],
	}
}

func sendError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key, fallback string) int {
	v := getEnv(key, fallback)
	n, err := strconv.Atoi(v)
	if err != nil {
		n, _ = strconv.Atoi(fallback)
	}
	return n
}
