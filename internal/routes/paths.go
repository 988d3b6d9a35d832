// Package routes defines the client's screens and the guards that decide
// whether the current session may enter them.
//
// Guards never mutate the session. An unauthenticated visitor is redirected to
// the login screen; an authenticated visitor with the wrong role is denied in
// place, so the two cases stay distinguishable.
package routes

import "github.com/trustcare/cli/internal/models"

const (
	Root           = "/"
	Login          = "/login"
	VerifyOtp      = "/verify-otp"
	Register       = "/register"
	ForgotPassword = "/forgot-password"
	ResetPassword  = "/reset-password"

	Dashboard             = "/dashboard"
	AdminDashboard        = "/admin/dashboard"
	DoctorDashboard       = "/doctor/dashboard"
	DoctorPatients        = "/doctor/patients"
	DoctorPrescriptions   = "/doctor/prescriptions"
	DoctorNewPrescription = "/doctor/prescriptions/new"
	PatientDashboard      = "/patient/dashboard"
)

// Navigator moves the client to another screen. With replace set the current
// history is discarded, so going back cannot return to it.
type Navigator interface {
	Navigate(path string, replace bool)
}

// LandingRoute is where a freshly authenticated user starts.
func LandingRoute(role models.UserRole) string {
	switch role {
	case models.RoleAdmin:
		return AdminDashboard
	case models.RoleDoctor:
		return DoctorDashboard
	case models.RolePatient:
		return PatientDashboard
	case models.RoleUnknown:
		return Dashboard
	default:
		return Dashboard
	}
}
