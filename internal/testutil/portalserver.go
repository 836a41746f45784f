package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/amirx1991/crm-sub001/internal/models"
)

// Staff fixture accepted by the fake token endpoint
const (
	StaffUsername = "admin"
	StaffPassword = "admin123"
)

// PortalServer is an in-process stand-in for the portal backend. Tests
// point the HTTP client at URL and steer failure scenarios through the
// exported knobs.
type PortalServer struct {
	URL string

	mu sync.Mutex

	// status returned by the sign-out endpoint, 200 unless a test
	// breaks it via SetSignOutStatus
	signOutStatus int

	// otp codes issued per phone number
	codes map[string]string

	// issued bearer tokens and their roles
	issued map[string]models.Role

	srv *httptest.Server
}

// StartPortalServer boots the fake backend and registers its shutdown
// with the test cleanup.
func StartPortalServer(t *testing.T) *PortalServer {
	t.Helper()

	p := &PortalServer{
		signOutStatus: http.StatusOK,
		codes:         map[string]string{},
		issued:        map[string]models.Role{},
	}

	r := chi.NewRouter()
	r.Post("/auth/token", p.handleToken)
	r.Post("/auth/otp/request", p.handleOtpRequest)
	r.Post("/auth/otp/verify", p.handleOtpVerify)
	r.Post("/auth/sign-out", p.handleSignOut)
	r.Get("/auth/profile", p.handleProfile)
	r.Get("/status/{code}", p.handleStatus)
	r.Get("/studies", p.requireAuth(p.handleStudies, models.RoleAdmin, models.RoleUser))

	p.srv = httptest.NewServer(r)
	p.URL = p.srv.URL
	t.Cleanup(p.srv.Close)

	return p
}

// IssueToken mints a bearer token for the given role, as if a login had
// happened, and returns it. Tests use it to seed stores directly.
func (p *PortalServer) IssueToken(t *testing.T, role models.Role, ttl time.Duration) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("portal-test-secret"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}

	p.mu.Lock()
	p.issued[token] = role
	p.mu.Unlock()

	return token
}

// LastCode returns the most recent OTP dispatched to phone.
func (p *PortalServer) LastCode(phone string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.codes[phone]
}

func (p *PortalServer) handleToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "malformed request")
		return
	}

	if req.Username != StaffUsername || req.Password != StaffPassword {
		errorJSON(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token := p.mint(models.RoleAdmin)
	writeJSON(w, http.StatusOK, map[string]any{"accessToken": token, "role": models.RoleAdmin})
}

func (p *PortalServer) handleOtpRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
		errorJSON(w, http.StatusBadRequest, "phone number required")
		return
	}

	p.mu.Lock()
	p.codes[req.Phone] = "13579"
	p.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"message": "code dispatched"})
}

func (p *PortalServer) handleOtpVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "malformed request")
		return
	}

	p.mu.Lock()
	expected, ok := p.codes[req.Phone]
	p.mu.Unlock()

	if !ok || req.Code != expected {
		errorJSON(w, http.StatusUnauthorized, "Incorrect or expired code")
		return
	}

	token := p.mint(models.RolePatient)
	writeJSON(w, http.StatusOK, map[string]any{"accessToken": token, "role": models.RolePatient})
}

// SetSignOutStatus makes the sign-out endpoint answer with status.
func (p *PortalServer) SetSignOutStatus(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signOutStatus = status
}

func (p *PortalServer) handleSignOut(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	status := p.signOutStatus
	p.mu.Unlock()

	if status >= 400 {
		errorJSON(w, status, "sign-out unavailable")
		return
	}
	writeJSON(w, status, map[string]any{"message": "signed out"})
}

func (p *PortalServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	role, ok := p.roleFor(r)
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"role": role})
}

// handleStatus echoes the status code named in the path, so tests can
// exercise every classification branch against a real response.
func (p *PortalServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "bad status code")
		return
	}
	errorJSON(w, code, http.StatusText(code))
}

func (p *PortalServer) handleStudies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]any{
		{"id": "st-001", "title": "Phase II hypertension cohort"},
		{"id": "st-002", "title": "Longitudinal sleep study"},
	})
}

func (p *PortalServer) requireAuth(next http.HandlerFunc, roles ...models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := p.roleFor(r)
		if !ok {
			errorJSON(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				next(w, r)
				return
			}
		}
		errorJSON(w, http.StatusForbidden, "insufficient permissions")
	}
}

func (p *PortalServer) roleFor(r *http.Request) (models.Role, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return "", false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	role, ok := p.issued[token]
	return role, ok
}

func (p *PortalServer) mint(role models.Role) string {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("portal-test-secret"))

	p.mu.Lock()
	p.issued[token] = role
	p.mu.Unlock()

	return token
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func errorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": "service_error", "message": message})
}
