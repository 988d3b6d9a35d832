// Package backendtest provides an in-process fake of the TrustCare REST
// backend for tests, in the spirit of net/http/httptest.
package backendtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/trustcare/cli/internal/models"
)

// ValidOTP is the only code the fake accepts
const ValidOTP = "123456"

// ForgotPasswordReply is returned for known emails
const ForgotPasswordReply = "Password reset token sent"

// Account is a user known to the fake backend
type Account struct {
	Profile      models.UserProfile
	PasswordHash []byte
}

// CheckPassword reports whether password matches the stored hash
func (a *Account) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)) == nil
}

// hashPassword hashes at bcrypt.MinCost
func hashPassword(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("backendtest: hash password: %v", err))
	}
	return hash
}

// Request is a recorded call
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
	Body          string
}

// Backend is a fake TrustCare backend served over httptest
type Backend struct {
	Server *httptest.Server

	mu            sync.Mutex
	accounts      map[string]*Account
	tokens        map[string]string
	resetTokens   map[string]string
	patients      []models.Patient
	doctors       []models.Doctor
	prescriptions []models.Prescription
	requests      []Request
	blocks        map[string]chan struct{}
	failures      map[string]int
	nextID        int
	nextToken     string
}

// New starts a backend that is closed when the test ends
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		accounts:    make(map[string]*Account),
		tokens:      make(map[string]string),
		resetTokens: make(map[string]string),
		blocks:      make(map[string]chan struct{}),
		failures:    make(map[string]int),
		nextID:      100,
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the base URL of the fake
func (b *Backend) URL() string {
	return b.Server.URL
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)
	r.Use(b.hold)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", b.login)
		r.Post("/verify-otp", b.verifyOtp)
		r.Post("/resend-otp", b.resendOtp)
		r.Post("/register", b.register)
		r.Post("/forgot-password", b.forgotPassword)
		r.Post("/reset-password", b.resetPassword)
		r.With(b.requireToken).Get("/me", b.me)
	})

	r.Group(func(r chi.Router) {
		r.Use(b.requireToken)

		r.With(b.requireRole("ADMIN", "DOCTOR")).Get("/patient", b.listPatients)
		r.Get("/patient/{id}", b.getPatient)
		r.With(b.requireRole("ADMIN")).Delete("/patient/{id}", b.deletePatient)

		r.Get("/doctor", b.listDoctors)
		r.Get("/doctor/user/{userID}", b.doctorByUser)

		r.Get("/api/prescriptions", b.listPrescriptions)
		r.Get("/api/prescriptions/doctor/{id}", b.prescriptionsByDoctor)
		r.With(b.requireRole("DOCTOR")).Post("/api/prescriptions", b.createPrescription)
		r.With(b.requireRole("ADMIN")).Delete("/api/prescriptions/{id}", b.deletePrescription)
	})

	return r
}

// AddUser registers an account and returns its profile id
func (b *Backend) AddUser(username, email, password, role string) *Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(username, email, password, role)
}

func (b *Backend) addUserLocked(username, email, password, role string) *Account {
	b.nextID++
	acc := &Account{
		PasswordHash: hashPassword(password),
		Profile: models.UserProfile{
			ID:       b.nextID,
			Username: username,
			Email:    email,
			Status:   "ACTIVE",
			Role:     &models.Role{RoleID: roleID(role), RoleName: role, Description: strings.ToLower(role) + " role"},
		},
	}
	b.accounts[email] = acc
	return acc
}

// AddDoctor links a doctor record to an account
func (b *Backend) AddDoctor(acc *Account, name string) models.Doctor {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	d := models.Doctor{
		ID:   b.nextID,
		Name: name,
		User: models.UserRef{ID: acc.Profile.ID, Username: acc.Profile.Username, Email: acc.Profile.Email},
	}
	b.doctors = append(b.doctors, d)
	return d
}

// AddPatient stores a patient record
func (b *Backend) AddPatient(p models.Patient) models.Patient {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.ID == 0 {
		b.nextID++
		p.ID = b.nextID
	}
	b.patients = append(b.patients, p)
	return p
}

// AddPrescription stores a prescription record
func (b *Backend) AddPrescription(p models.Prescription) models.Prescription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.ID == 0 {
		b.nextID++
		p.ID = b.nextID
	}
	b.prescriptions = append(b.prescriptions, p)
	return p
}

// AddResetToken makes token valid for a single password reset
func (b *Backend) AddResetToken(token, email string) {
	b.mu.Lock()
	b.resetTokens[token] = email
	b.mu.Unlock()
}

// SetNextToken fixes the token issued by the next successful OTP verification
func (b *Backend) SetNextToken(token string) {
	b.mu.Lock()
	b.nextToken = token
	b.mu.Unlock()
}

// RevokeTokens invalidates every issued bearer token
func (b *Backend) RevokeTokens() {
	b.mu.Lock()
	b.tokens = make(map[string]string)
	b.mu.Unlock()
}

// Block makes calls to path wait until the returned func is called
func (b *Backend) Block(path string) (release func()) {
	ch := make(chan struct{})
	b.mu.Lock()
	b.blocks[path] = ch
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.blocks, path)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// FailNext makes the next n calls to path answer with a 500
func (b *Backend) FailNext(path string, n int) {
	b.mu.Lock()
	b.failures[path] = n
	b.mu.Unlock()
}

// Requests returns the recorded calls
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Count returns how many calls hit path
func (b *Backend) Count(path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

// Account returns the stored account for email
func (b *Backend) Account(email string) (*Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.accounts[email]
	return acc, ok
}

// ---- middleware ----

type ctxKey struct{}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          string(body),
		})
		fail := b.failures[r.URL.Path]
		if fail > 0 {
			b.failures[r.URL.Path] = fail - 1
		}
		b.mu.Unlock()

		if fail > 0 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) hold(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		ch := b.blocks[r.URL.Path]
		b.mu.Unlock()
		if ch != nil {
			select {
			case <-ch:
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		email, known := b.tokens[token]
		acc := b.accounts[email]
		b.mu.Unlock()
		if !ok || !known || acc == nil {
			writeJSON(w, http.StatusUnauthorized, models.ErrorBody{Message: "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(withAccount(r, acc)))
	})
}

func (b *Backend) requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acc := accountFrom(r)
			for _, role := range roles {
				if acc != nil && acc.Profile.RoleName() == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSON(w, http.StatusForbidden, models.ErrorBody{Message: "Access denied"})
		})
	}
}

// ---- auth handlers ----

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorBody{Message: "Malformed request"})
		return
	}
	acc, ok := b.Account(req.Email)
	if !ok || !acc.CheckPassword(req.Password) {
		writeJSON(w, http.StatusUnauthorized, models.ErrorBody{Message: "Invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, models.LoginInitiateResponse{
		Message:     "OTP sent to your email",
		Username:    acc.Profile.Email,
		OtpSent:     true,
		MaskedEmail: MaskEmail(acc.Profile.Email),
	})
}

func (b *Backend) verifyOtp(w http.ResponseWriter, r *http.Request) {
	var req models.OtpVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorBody{Message: "Malformed request"})
		return
	}
	acc, ok := b.Account(req.Username)
	if !ok || req.Otp != ValidOTP {
		writeJSON(w, http.StatusBadRequest, models.ErrorBody{Message: "Invalid or expired OTP"})
		return
	}

	b.mu.Lock()
	token := b.nextToken
	if token == "" {
		token = fmt.Sprintf("token-%d-%d", acc.Profile.ID, len(b.tokens)+1)
	}
	b.nextToken = ""
	b.tokens[token] = acc.Profile.Email
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, models.AuthResponse{
		Token:    token,
		Username: acc.Profile.Email,
		Role:     acc.Profile.RoleName(),
	})
}

func (b *Backend) resendOtp(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	username := strings.TrimSpace(string(raw))
	acc, ok := b.Account(username)
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorBody{Message: "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, models.LoginInitiateResponse{
		Message:     "OTP resent",
		Username:    acc.Profile.Email,
		OtpSent:     true,
		MaskedEmail: MaskEmail(acc.Profile.Email),
	})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorBody{Message: "Malformed request"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.accounts[req.Email]; exists {
		writeJSON(w, http.StatusConflict, models.ErrorBody{Message: "Email is already registered"})
		return
	}
	b.addUserLocked(req.Username, req.Email, req.Password, req.RoleName)
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "User registered successfully")
}

// forgotPassword leaks existence with a 404, like many real backends do
func (b *Backend) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorBody{Message: "Malformed request"})
		return
	}
	if _, ok := b.Account(req.Email); !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorBody{Message: "No account for " + req.Email})
		return
	}
	writeJSON(w, http.StatusOK, ForgotPasswordReply)
}

func (b *Backend) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetVerification
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorBody{Message: "Malformed request"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	email, ok := b.resetTokens[req.Token]
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorBody{Message: "Invalid or expired reset token"})
		return
	}
	delete(b.resetTokens, req.Token)
	if acc := b.accounts[email]; acc != nil {
		acc.PasswordHash = hashPassword(req.NewPassword)
	}
	writeJSON(w, http.StatusOK, "Password reset successfully")
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, accountFrom(r).Profile)
}

// ---- entity handlers ----

func (b *Backend) listPatients(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := append([]models.Patient{}, b.patients...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getPatient(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.patients {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, models.ErrorBody{Message: "Patient not found"})
}

func (b *Backend) deletePatient(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range b.patients {
		if p.ID == id {
			b.patients = append(b.patients[:i], b.patients[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, models.ErrorBody{Message: "Patient not found"})
}

func (b *Backend) listDoctors(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := append([]models.Doctor{}, b.doctors...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) doctorByUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "userID"))
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range b.doctors {
		if d.User.ID == userID {
			writeJSON(w, http.StatusOK, d)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, models.ErrorBody{Message: "Doctor not found"})
}

func (b *Backend) listPrescriptions(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := append([]models.Prescription{}, b.prescriptions...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) prescriptionsByDoctor(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	b.mu.Lock()
	out := []models.Prescription{}
	for _, p := range b.prescriptions {
		if p.Doctor.ID == id {
			out = append(out, p)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createPrescription(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorBody{Message: "Malformed request"})
		return
	}
	if req.MedicationEncrypted == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "",
			"errors":  map[string]string{"medicationEncrypted": "must not be blank"},
		})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	var (
		patient models.Patient
		doctor  models.Doctor
		found   bool
	)
	for _, p := range b.patients {
		if p.ID == req.Patient.ID {
			patient, found = p, true
		}
	}
	if !found {
		writeJSON(w, http.StatusNotFound, models.ErrorBody{Message: "Patient not found"})
		return
	}
	for _, d := range b.doctors {
		if d.ID == req.Doctor.ID {
			doctor = d
		}
	}
	b.nextID++
	p := models.Prescription{
		ID:                  b.nextID,
		Patient:             patient,
		Doctor:              doctor,
		MedicationEncrypted: req.MedicationEncrypted,
		IssuedAt:            "2026-01-01T09:00:00",
		Status:              req.Status,
		RequestID:           r.Header.Get("X-Request-ID"),
	}
	b.prescriptions = append(b.prescriptions, p)
	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) deletePrescription(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range b.prescriptions {
		if p.ID == id {
			b.prescriptions = append(b.prescriptions[:i], b.prescriptions[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, models.ErrorBody{Message: "Prescription not found"})
}

// ---- helpers ----

// MaskEmail hides all but the first character of the local part
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return email
	}
	return local[:1] + "***@" + domain
}

func roleID(role string) int {
	switch role {
	case "ADMIN":
		return 1
	case "DOCTOR":
		return 2
	case "PATIENT":
		return 3
	default:
		return 0
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
