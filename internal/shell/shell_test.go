package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustcare/cli/internal/app"
	"github.com/trustcare/cli/internal/backendtest"
	"github.com/trustcare/cli/internal/format"
	"github.com/trustcare/cli/internal/models"
	"github.com/trustcare/cli/internal/routes"
	"github.com/trustcare/cli/internal/session"
)

type harness struct {
	backend *backendtest.Backend
	app     *app.App
	history *History
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func stubTerminal(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	stubTerminal(t)

	b := backendtest.New(t)
	doc := b.AddUser("house", "house@example.com", "Secret1!", "DOCTOR")
	doctor := b.AddDoctor(doc, "Gregory House")
	b.AddUser("alice", "alice@example.com", "Secret1!", "PATIENT")
	alice := b.AddPatient(models.Patient{Name: "Alice Smith", User: models.UserRef{Email: "alice@example.com"}})
	b.AddPatient(models.Patient{Name: "Bob Jones", User: models.UserRef{Email: "bob@example.com"}})
	b.AddPrescription(models.Prescription{Patient: alice, Doctor: doctor, MedicationEncrypted: "Amoxicillin", Status: models.StatusActive})
	b.AddPrescription(models.Prescription{Patient: alice, Doctor: doctor, MedicationEncrypted: "Ibuprofen", Status: models.StatusCompleted})

	history := NewHistory()
	return &harness{
		backend: b,
		app:     app.New(app.Options{BaseURL: b.URL(), Navigator: history}),
		history: history,
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
	}
}

func (h *harness) run(t *testing.T, lines ...string) {
	t.Helper()
	printer := &format.Printer{Out: h.out, Err: h.errOut, Format: "text"}
	prompt := NewPrompter(strings.NewReader(strings.Join(lines, "\n")+"\n"), h.out)
	require.NoError(t, New(h.app, h.history, prompt, printer, nil).Run(context.Background()))
}

func TestShell_DoctorSession(t *testing.T) {
	h := newHarness(t)

	h.run(t,
		"login house@example.com",
		"Secret1!",
		"otp 123456",
		"patients alice",
		"prescriptions --status completed",
		"back",
		"logout",
		"back",
		"exit",
	)

	out := h.out.String()
	assert.Contains(t, out, "Verification code sent to h***@example.com")
	assert.Contains(t, out, "Signed in as house")
	assert.Contains(t, out, "Doctor dashboard")
	assert.Contains(t, out, "Alice Smith")
	assert.Contains(t, out, "Showing 1 of 2 patients")
	assert.Contains(t, out, "Ibuprofen")
	assert.Contains(t, out, "Showing 1 of 2 prescriptions")
	assert.Contains(t, out, "Signed out")
	assert.Contains(t, h.errOut.String(), "Nothing to go back to")

	assert.Equal(t, session.Anonymous, h.app.Session.State())
	_, held := h.app.Tokens.Get()
	assert.False(t, held)
	assert.Equal(t, routes.Login, h.history.Current())
	assert.Equal(t, 1, h.history.Len())
	assert.Zero(t, h.app.Cache.Len())
}

func TestShell_PatientIsDeniedDoctorScreens(t *testing.T) {
	h := newHarness(t)

	h.run(t, "login alice@example.com", "Secret1!", "otp 123456", "go /doctor/patients")

	assert.Contains(t, h.out.String(), "Patient dashboard")
	assert.Contains(t, h.errOut.String(), "Error: "+routes.Outcome{Decision: routes.Deny, Required: []models.UserRole{models.RoleDoctor}}.DenyMessage()+"\n")
	assert.Equal(t, routes.DoctorPatients, h.history.Current())
	assert.Zero(t, h.backend.Count("/patient"))
}

func TestShell_HintPrintsTextVerbatim(t *testing.T) {
	var out bytes.Buffer
	s := &Shell{printer: &format.Printer{Out: &out, Err: &out, Format: "text"}}

	require.NoError(t, s.hint("Coverage is 100% for %s")(context.Background()))

	assert.Equal(t, "Coverage is 100% for %s\n", out.String())
}

func TestShell_AnonymousIsRedirected(t *testing.T) {
	h := newHarness(t)

	h.run(t, "go /doctor/prescriptions", "go /nowhere")

	assert.Equal(t, routes.Login, h.history.Current())
	assert.NotContains(t, h.errOut.String(), "Access Denied")
	assert.Zero(t, h.backend.Count("/api/prescriptions/doctor/1"))
}

func TestShell_RegisterValidatesLocally(t *testing.T) {
	h := newHarness(t)

	h.run(t, "register", "new_user", "new@example.com", "Secret1!", "Secret2!")

	assert.Contains(t, h.errOut.String(), "confirmPassword: Passwords don't match")
	assert.Zero(t, h.backend.Count("/auth/register"))
	assert.Equal(t, routes.Register, h.history.Current())
}

func TestShell_LeavingOtpScreenAbandonsLogin(t *testing.T) {
	h := newHarness(t)

	h.run(t, "login house@example.com", "Secret1!", "go /forgot-password", "otp 123456")

	assert.Equal(t, session.Anonymous, h.app.Session.State())
	assert.Contains(t, h.errOut.String(), "no login awaiting verification")
	assert.Zero(t, h.backend.Count("/auth/verify-otp"))
}

func TestShell_RevokedSessionReturnsToLogin(t *testing.T) {
	h := newHarness(t)

	h.run(t, "login house@example.com", "Secret1!", "otp 123456")
	require.True(t, h.app.Session.IsAuthenticated())

	h.backend.RevokeTokens()
	h.app.Cache.Purge() // force the next screen to hit the server
	h.run(t, "patients")

	assert.Contains(t, h.errOut.String(), "Your session has ended")
	assert.Equal(t, routes.Login, h.history.Current())
	assert.False(t, h.app.Session.IsAuthenticated())
}

func TestShell_ForgotPasswordIsOpaque(t *testing.T) {
	h := newHarness(t)

	h.run(t, "forgot ghost@example.com", "forgot alice@example.com")

	out := h.out.String()
	assert.Equal(t, 2, strings.Count(out, "If the email exists in our system"))
	assert.Equal(t, routes.ResetPassword, h.history.Current())
}

func TestShell_UnknownCommand(t *testing.T) {
	h := newHarness(t)
	h.run(t, "frobnicate")
	assert.Contains(t, h.errOut.String(), `unknown command "frobnicate"`)
}

func TestHistory(t *testing.T) {
	h := NewHistory()
	assert.Equal(t, routes.Login, h.Current())

	h.Navigate(routes.DoctorDashboard, false)
	h.Navigate(routes.DoctorPatients, false)
	assert.Equal(t, 3, h.Len())

	prev, ok := h.Back()
	assert.True(t, ok)
	assert.Equal(t, routes.DoctorDashboard, prev)

	v := h.Version()
	h.Navigate(routes.Login, true)
	assert.Equal(t, 1, h.Len())
	assert.Greater(t, h.Version(), v)

	_, ok = h.Back()
	assert.False(t, ok)
}
