package shell

import (
	"context"
	"strconv"
	"strings"

	"github.com/trustcare/cli/internal/models"
	"github.com/trustcare/cli/internal/routes"
	"github.com/trustcare/cli/internal/validation"
)

func (s *Shell) buildRouter() *routes.Router {
	r := routes.NewRouter(s.app.Session)

	r.Public(routes.Login, "Sign in", s.viewLogin)
	r.Public(routes.VerifyOtp, "Verify code", s.viewVerifyOtp)
	r.Public(routes.Register, "Create account", s.hint("Create an account with: register"))
	r.Public(routes.ForgotPassword, "Forgot password", s.hint("Request a reset token with: forgot <email>"))
	r.Public(routes.ResetPassword, "Reset password", s.hint("Set a new password with: reset <token>"))

	protected := r.Group(routes.RequireAuth())
	protected.Handle(routes.Dashboard, "Dashboard", s.viewDashboard)
	protected.Group(routes.RequireRole(models.RoleAdmin)).
		Handle(routes.AdminDashboard, "Admin dashboard", s.viewDashboard)
	protected.Group(routes.RequireRole(models.RolePatient)).
		Handle(routes.PatientDashboard, "Patient dashboard", s.viewDashboard)

	doctor := protected.Group(routes.RequireRole(models.RoleDoctor))
	doctor.Handle(routes.DoctorDashboard, "Doctor dashboard", s.viewDashboard)
	doctor.Handle(routes.DoctorPatients, "Patients", s.viewPatients)
	doctor.Handle(routes.DoctorPrescriptions, "Prescriptions", s.viewPrescriptions)
	doctor.Handle(routes.DoctorNewPrescription, "New prescription", s.viewNewPrescription)

	return r
}

func (s *Shell) hint(text string) routes.Handler {
	return func(context.Context) error {
		s.printer.Info("%s", text)
		return nil
	}
}

func (s *Shell) viewLogin(context.Context) error {
	if s.app.Session.IsAuthenticated() {
		s.printer.Info("Signed in as %s. Use 'dashboard' or 'logout'.", s.app.Session.User().Username)
		return nil
	}
	s.printer.Info("Sign in with: login <email>")
	s.printer.Info("No account? register. Forgot your password? forgot <email>")
	return nil
}

func (s *Shell) viewVerifyOtp(context.Context) error {
	pending, ok := s.app.Session.Pending()
	if !ok {
		s.history.Navigate(routes.Login, true)
		return nil
	}
	s.printer.Info("A verification code was sent to %s.", pending.MaskedEmail)
	s.printer.Info("Enter it with: otp <code>   (or 'resend' for a new one)")
	return nil
}

func (s *Shell) viewDashboard(ctx context.Context) error {
	d, err := s.app.Screens.Dashboard(ctx)
	if err != nil {
		return err
	}
	return s.printer.Print(d)
}

func (s *Shell) viewPatients(ctx context.Context) error {
	list, err := s.app.Screens.Patients(ctx, s.patientSearch)
	if err != nil {
		return err
	}
	if err := s.printer.Print(list); err != nil {
		return err
	}
	s.printer.Info("Showing %d of %d patients. With date of birth: %d. With contact info: %d.",
		len(list.Patients), list.Total, list.WithDateOfBirth, list.WithContactInfo)
	return nil
}

func (s *Shell) viewPrescriptions(ctx context.Context) error {
	list, err := s.app.Screens.Prescriptions(ctx, s.prescriptionSearch, s.prescriptionStatus)
	if err != nil {
		return err
	}
	if err := s.printer.Print(list); err != nil {
		return err
	}
	counts := make([]string, 0, len(models.PrescriptionStatuses))
	for _, st := range models.PrescriptionStatuses {
		counts = append(counts, st+": "+strconv.Itoa(list.Counts[st]))
	}
	s.printer.Info("Showing %d of %d prescriptions. %s.", len(list.Prescriptions), list.Total, strings.Join(counts, ", "))
	return nil
}

func (s *Shell) viewNewPrescription(ctx context.Context) error {
	var (
		form validation.PrescriptionForm
		err  error
	)
	if form.PatientID, err = s.askInt("Patient ID"); err != nil {
		return err
	}
	if form.Medication, err = s.prompt.Text("Medication"); err != nil {
		return err
	}
	if form.Status, err = s.prompt.Text("Status [ACTIVE]"); err != nil {
		return err
	}
	if form.MedicalRecordID, err = s.askInt("Medical record ID (optional)"); err != nil {
		return err
	}

	created, err := s.app.Screens.CreatePrescription(ctx, form)
	if err != nil {
		return err
	}
	s.printer.Success("Prescription %d created for %s", created.ID, created.Patient.Name)
	s.history.Navigate(routes.DoctorPrescriptions, false)
	return nil
}

// askInt reads an optional number; blank or unparsable input reads as 0 and
// is left to form validation.
func (s *Shell) askInt(label string) (int, error) {
	text, err := s.prompt.Text(label)
	if err != nil {
		return 0, err
	}
	n, _ := strconv.Atoi(text)
	return n, nil
}
