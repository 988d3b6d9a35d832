package screens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustcare/cli/internal/api"
	"github.com/trustcare/cli/internal/backendtest"
	"github.com/trustcare/cli/internal/cache"
	"github.com/trustcare/cli/internal/models"
	"github.com/trustcare/cli/internal/session"
	"github.com/trustcare/cli/internal/validation"
)

type fixture struct {
	backend *backendtest.Backend
	cache   *cache.Cache
	svc     *Service
	doctor  models.Doctor
}

func strPtr(s string) *string { return &s }

// signedIn logs email in against the fake backend and returns a service for
// that session.
func signedIn(t *testing.T, b *backendtest.Backend, email string) (*Service, *cache.Cache) {
	t.Helper()
	ctx := context.Background()
	tokens := session.NewTokenStore()
	sess, writer := session.New()
	client := api.NewClient(b.URL(), tokens)

	_, err := client.InitiateLogin(ctx, models.LoginRequest{Email: email, Password: "Secret1!"})
	require.NoError(t, err)
	auth, err := client.VerifyOtp(ctx, models.OtpVerificationRequest{Username: email, Otp: backendtest.ValidOTP})
	require.NoError(t, err)
	tokens.Set(auth.Token)
	user, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	writer.Authenticate(user)

	c := cache.New(0, 0)
	return NewService(client, c, sess), c
}

func newDoctorFixture(t *testing.T) *fixture {
	t.Helper()
	b := backendtest.New(t)
	acc := b.AddUser("house", "house@example.com", "Secret1!", "DOCTOR")
	doctor := b.AddDoctor(acc, "Gregory House")
	other := b.AddDoctor(b.AddUser("wilson", "wilson@example.com", "Secret1!", "DOCTOR"), "James Wilson")

	alice := b.AddPatient(models.Patient{Name: "Alice Smith", User: models.UserRef{Email: "alice@example.com"}, Dob: strPtr("1990-01-01"), ContactInfo: strPtr("555-0100")})
	bob := b.AddPatient(models.Patient{Name: "Bob Jones", User: models.UserRef{Email: "bob@example.com"}})
	b.AddPatient(models.Patient{Name: "Carol White", User: models.UserRef{Email: "carol@example.com"}, ContactInfo: strPtr("Ward 7")})

	b.AddPrescription(models.Prescription{Patient: alice, Doctor: doctor, MedicationEncrypted: "Amoxicillin", Status: models.StatusActive})
	b.AddPrescription(models.Prescription{Patient: bob, Doctor: doctor, MedicationEncrypted: "Ibuprofen", Status: models.StatusCompleted})
	b.AddPrescription(models.Prescription{Patient: alice, Doctor: doctor, MedicationEncrypted: "Vicodin", Status: models.StatusActive})
	b.AddPrescription(models.Prescription{Patient: bob, Doctor: other, MedicationEncrypted: "Aspirin", Status: models.StatusActive})

	svc, c := signedIn(t, b, "house@example.com")
	return &fixture{backend: b, cache: c, svc: svc, doctor: doctor}
}

func TestDashboard_Doctor(t *testing.T) {
	f := newDoctorFixture(t)

	d, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "DOCTOR", d.Profile.Role)
	require.NotNil(t, d.Doctor)
	assert.Equal(t, "Gregory House", d.Doctor.DoctorName)
	assert.Equal(t, 3, d.Doctor.TotalPatients)
	assert.Equal(t, 3, d.Doctor.MyPrescriptions)
	assert.Equal(t, 2, d.Doctor.ActivePrescriptions)
	assert.Len(t, d.Rows(), 9)
}

func TestDashboard_PatientHasNoStats(t *testing.T) {
	b := backendtest.New(t)
	b.AddUser("alice", "alice@example.com", "Secret1!", "PATIENT")
	svc, _ := signedIn(t, b, "alice@example.com")

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PATIENT", d.Profile.Role)
	assert.Nil(t, d.Doctor)
	assert.Zero(t, b.Count("/patient"))
}

func TestDashboard_RequiresSession(t *testing.T) {
	sess, _ := session.New()
	svc := NewService(nil, cache.New(0, 0), sess)

	_, err := svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestPatients_Search(t *testing.T) {
	f := newDoctorFixture(t)
	ctx := context.Background()

	tests := []struct {
		search string
		want   []string
	}{
		{"", []string{"Alice Smith", "Bob Jones", "Carol White"}},
		{"ALICE", []string{"Alice Smith"}},
		{"bob@", []string{"Bob Jones"}},
		{"ward", []string{"Carol White"}},
		{"nobody", nil},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			list, err := f.svc.Patients(ctx, tt.search)
			require.NoError(t, err)

			var names []string
			for _, p := range list.Patients {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, 3, list.Total)
			assert.Equal(t, 1, list.WithDateOfBirth)
			assert.Equal(t, 2, list.WithContactInfo)
		})
	}

	assert.Equal(t, 1, f.backend.Count("/patient"), "patient list is cached")
}

func TestPrescriptions_FilterAndCounts(t *testing.T) {
	f := newDoctorFixture(t)
	ctx := context.Background()

	list, err := f.svc.Prescriptions(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Len(t, list.Prescriptions, 3)
	assert.Equal(t, map[string]int{"ACTIVE": 2, "PENDING": 0, "COMPLETED": 1, "CANCELLED": 0}, list.Counts)

	list, err = f.svc.Prescriptions(ctx, "", "active")
	require.NoError(t, err)
	assert.Len(t, list.Prescriptions, 2)

	list, err = f.svc.Prescriptions(ctx, "alice", "ACTIVE")
	require.NoError(t, err)
	assert.Len(t, list.Prescriptions, 2)

	list, err = f.svc.Prescriptions(ctx, "ibuprofen", "ALL")
	require.NoError(t, err)
	require.Len(t, list.Prescriptions, 1)
	assert.Equal(t, "Bob Jones", list.Prescriptions[0].Patient.Name)

	_, err = f.svc.Prescriptions(ctx, "", "EXPIRED")
	assert.ErrorContains(t, err, "unknown status")
}

func TestCreatePrescription(t *testing.T) {
	f := newDoctorFixture(t)
	ctx := context.Background()

	before, err := f.svc.Prescriptions(ctx, "", "")
	require.NoError(t, err)

	patients, err := f.svc.Patients(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, patients.Patients, 1)

	created, err := f.svc.CreatePrescription(ctx, validation.PrescriptionForm{
		PatientID:  patients.Patients[0].ID,
		Medication: "Metformin",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, created.Status)
	assert.Equal(t, f.doctor.ID, created.Doctor.ID)

	after, err := f.svc.Prescriptions(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, before.Total+1, after.Total, "cache invalidated after create")
}

func TestCreatePrescription_Validation(t *testing.T) {
	f := newDoctorFixture(t)

	_, err := f.svc.CreatePrescription(context.Background(), validation.PrescriptionForm{Status: "bogus"})
	require.Error(t, err)
	assert.True(t, validation.IsValidationError(err))
	assert.Zero(t, f.backend.Count("/api/prescriptions"))
}

func TestPurgeDropsCachedData(t *testing.T) {
	f := newDoctorFixture(t)
	ctx := context.Background()

	_, err := f.svc.Patients(ctx, "")
	require.NoError(t, err)
	f.cache.Purge()
	_, err = f.svc.Patients(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, 2, f.backend.Count("/patient"))
}
