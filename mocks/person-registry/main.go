// Mock national-identity registry for local development of the
// verification backend. Magic identifiers control failure behavior so the
// backend's error taxonomy can be exercised end to end; every other
// identifier yields deterministic pseudo-random person data.
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
	defaultPort      = "8081"
	defaultAPIKey    = "person-registry-dev-key"
	defaultLatencyMs = "100"
)

type LookupRequest struct {
	NIN string `json:"nin"`
}

type LookupResponse struct {
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

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var (
	apiKey    = getEnv("API_KEY", defaultAPIKey)
	latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)
)

// Magic identifiers drive the mock's failure modes.
var magicIdentifiers = map[string]int{
	"00000000404": http.StatusNotFound,
	"00000000429": http.StatusTooManyRequests,
	"00000000503": http.StatusServiceUnavailable,
	"00000000401": http.StatusUnauthorized,
}

// testPersons pins well-known identifiers to fixed records. The birthdate
// and phone formats deliberately vary so normalization gets exercised.
var testPersons = map[string]LookupResponse{
	"12345678901": {
		NIN:           "12345678901",
		FirstName:     "John",
		MiddleName:    "Ade",
		Surname:       "Doe",
		Gender:        "M",
		BirthDate:     "15/01/1990",
		PhoneNumber:   "+2348031234567",
		BirthState:    "Lagos",
		BirthDistrict: "Ikeja",
	},
	"10987654321": {
		NIN:           "10987654321",
		FirstName:     "Amina",
		Surname:       "Bello",
		Gender:        "female",
		BirthDate:     "3-MAR-1985",
		PhoneNumber:   "0803 987 6543",
		BirthState:    "Kano",
		BirthDistrict: "Nassarawa",
	},
}

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/api/v1/identity/lookup", handleLookup)

	log.Printf("Mock person registry starting on port %s (latency %dms)", port, latencyMs)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "person-registry",
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
	if req.NIN == "" {
		sendError(w, "nin is required", http.StatusBadRequest)
		return
	}

	if status, ok := magicIdentifiers[req.NIN]; ok {
		sendError(w, http.StatusText(status), status)
		log.Printf("magic identifier %s -> %d", req.NIN, status)
		return
	}

	var person LookupResponse
	if fixed, ok := testPersons[req.NIN]; ok {
		person = fixed
	} else {
		person = generatePerson(req.NIN)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(person)
	log.Printf("lookup successful: %s -> %s %s", req.NIN, person.FirstName, person.Surname)
}

func generatePerson(nin string) LookupResponse {
	hash := sha256.Sum256([]byte(nin))
	h := int(hash[0])

	firstNames := []string{"Chinedu", "Amina", "Tunde", "Ngozi", "Emeka", "Fatima", "Segun", "Zainab", "Ifeanyi", "Hauwa"}
	surnames := []string{"Okafor", "Bello", "Adeyemi", "Eze", "Mohammed", "Okonkwo", "Balogun", "Abubakar", "Nwosu", "Lawal"}
	states := []string{"Lagos", "Kano", "Rivers", "Oyo", "Kaduna", "Enugu", "Delta", "Anambra", "Ogun", "Plateau"}

	gender := "male"
	if h%2 == 1 {
		gender = "female"
	}

	age := 18 + (h % 62)
	birthYear := time.Now().Year() - age
	birthMonth := 1 + (h % 12)
	birthDay := 1 + (h % 28)

	return LookupResponse{
		NIN:           nin,
		FirstName:     firstNames[h%len(firstNames)],
		Surname:       surnames[(h*3)%len(surnames)],
		Gender:        gender,
		BirthDate:     fmt.Sprintf("%d/%d/%04d", birthDay, birthMonth, birthYear),
		PhoneNumber:   fmt.Sprintf("080%08d", (h*12345)%100000000),
		BirthState:    states[(h*2)%len(states)],
		BirthDistrict: fmt.Sprintf("District %d", 1+(h%20)),
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
