package models

import "strings"

// UserRole is the closed set of roles the client knows how to route
type UserRole int

const (
	RoleUnknown UserRole = iota
	RoleAdmin
	RoleDoctor
	RolePatient
)

// ParseUserRole matches a backend role name case-insensitively
func ParseUserRole(name string) UserRole {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ADMIN":
		return RoleAdmin
	case "DOCTOR":
		return RoleDoctor
	case "PATIENT":
		return RolePatient
	default:
		return RoleUnknown
	}
}

func (r UserRole) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleDoctor:
		return "DOCTOR"
	case RolePatient:
		return "PATIENT"
	default:
		return "UNKNOWN"
	}
}
