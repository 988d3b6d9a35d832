package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  string
	}{
		{"Secret1!", ""},
		{"Sh0rt!", "Password must be at least 8 characters long"},
		{"secret12!", "Password must contain at least one uppercase letter"},
		{"SECRET12!", "Password must contain at least one lowercase letter"},
		{"Secretss!", "Password must contain at least one digit"},
		{"Secret123", "Password must contain at least one special character"},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("a@b.com"))
	assert.EqualError(t, ValidateEmail(""), "Email is required")
	assert.EqualError(t, ValidateEmail("not-an-email"), "Invalid email address")
	assert.EqualError(t, ValidateEmail("Name <a@b.com>"), "Invalid email address")
}

func TestValidateOTP(t *testing.T) {
	assert.NoError(t, ValidateOTP("123456"))
	assert.EqualError(t, ValidateOTP("12345"), "OTP must be 6 digits")
	assert.EqualError(t, ValidateOTP("1234567"), "OTP must be 6 digits")
	assert.EqualError(t, ValidateOTP("12a456"), "OTP must contain only digits")
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("dr_who_42"))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername(string(make([]byte, 51))))
}

func TestRegisterForm_MismatchedConfirmation(t *testing.T) {
	err := RegisterForm{
		Username:        "alice",
		Email:           "a@b.com",
		Password:        "Secret1!",
		ConfirmPassword: "Secret2!",
	}.Validate()
	require.Error(t, err)
	require.True(t, IsValidationError(err))

	var errs *Errors
	require.ErrorAs(t, err, &errs)
	msg, ok := errs.Field("confirmPassword")
	require.True(t, ok)
	assert.Equal(t, "Passwords don't match", msg)
	_, ok = errs.Field("password")
	assert.False(t, ok)
}

func TestRegisterForm_CollectsEveryField(t *testing.T) {
	err := RegisterForm{}.Validate()
	var errs *Errors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs.Fields, 4)
}

func TestResetPasswordForm(t *testing.T) {
	assert.NoError(t, ResetPasswordForm{Token: "tok", NewPassword: "Secret1!", ConfirmPassword: "Secret1!"}.Validate())

	err := ResetPasswordForm{NewPassword: "Secret1!", ConfirmPassword: "Secret1!"}.Validate()
	var errs *Errors
	require.ErrorAs(t, err, &errs)
	msg, _ := errs.Field("token")
	assert.Equal(t, "Reset token is required", msg)
}

func TestPrescriptionForm(t *testing.T) {
	assert.NoError(t, PrescriptionForm{PatientID: 1, Medication: "Amoxicillin 500mg", Status: "ACTIVE"}.Validate())

	err := PrescriptionForm{Status: "ALL"}.Validate()
	var errs *Errors
	require.ErrorAs(t, err, &errs)
	for _, field := range []string{"patient", "medication", "status"} {
		_, ok := errs.Field(field)
		assert.True(t, ok, field)
	}
}

func TestLoginAndForgotForms(t *testing.T) {
	assert.NoError(t, LoginForm{Email: "a@b.com", Password: "x"}.Validate())
	assert.Error(t, LoginForm{Email: "a@b.com"}.Validate())
	assert.NoError(t, ForgotPasswordForm{Email: "a@b.com"}.Validate())
	assert.Error(t, OtpForm{Otp: "abc"}.Validate())
}
