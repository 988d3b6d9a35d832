package validation

import (
	"errors"
	"slices"

	"github.com/trustcare/cli/internal/models"
)

// LoginForm is the first login step
type LoginForm struct {
	Email    string
	Password string
}

func (f LoginForm) Validate() error {
	errs := &Errors{}
	errs.Add("email", ValidateEmail(f.Email))
	errs.Add("password", ValidateRequired(f.Password, "Password is required"))
	return errs.Err()
}

// OtpForm is the second login step
type OtpForm struct {
	Otp string
}

func (f OtpForm) Validate() error {
	errs := &Errors{}
	errs.Add("otp", ValidateOTP(f.Otp))
	return errs.Err()
}

// RegisterForm is the account registration form
type RegisterForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

func (f RegisterForm) Validate() error {
	errs := &Errors{}
	errs.Add("username", ValidateUsername(f.Username))
	errs.Add("email", ValidateEmail(f.Email))
	errs.Add("password", ValidatePassword(f.Password))
	errs.Add("confirmPassword", ValidateConfirmation(f.Password, f.ConfirmPassword))
	return errs.Err()
}

// ForgotPasswordForm requests a reset token
type ForgotPasswordForm struct {
	Email string
}

func (f ForgotPasswordForm) Validate() error {
	errs := &Errors{}
	errs.Add("email", ValidateEmail(f.Email))
	return errs.Err()
}

// ResetPasswordForm consumes a reset token
type ResetPasswordForm struct {
	Token           string
	NewPassword     string
	ConfirmPassword string
}

func (f ResetPasswordForm) Validate() error {
	errs := &Errors{}
	errs.Add("token", ValidateRequired(f.Token, "Reset token is required"))
	errs.Add("newPassword", ValidatePassword(f.NewPassword))
	errs.Add("confirmPassword", ValidateConfirmation(f.NewPassword, f.ConfirmPassword))
	return errs.Err()
}

// PrescriptionForm is the new prescription form
type PrescriptionForm struct {
	PatientID       int
	Medication      string
	Status          string
	MedicalRecordID int
}

func (f PrescriptionForm) Validate() error {
	errs := &Errors{}
	if f.PatientID <= 0 {
		errs.Add("patient", errors.New("Please select a patient"))
	}
	errs.Add("medication", ValidateRequired(f.Medication, "Medication is required"))
	if !slices.Contains(models.PrescriptionStatuses, f.Status) {
		errs.Add("status", errors.New("Please select a status"))
	}
	if f.MedicalRecordID < 0 {
		errs.Add("medicalRecord", errors.New("Medical record id must be positive"))
	}
	return errs.Err()
}
