package models

// Role represents the role attached to a user account
type Role struct {
	RoleID      int    `json:"roleId" yaml:"role_id"`
	RoleName    string `json:"roleName" yaml:"role_name"`
	Description string `json:"description" yaml:"description"`
}

// UserProfile represents the authenticated user as returned by /auth/me
type UserProfile struct {
	ID                  int     `json:"id,omitempty" yaml:"id"`
	UserID              int     `json:"userId,omitempty" yaml:"user_id,omitempty"`
	Username            string  `json:"username" yaml:"username"`
	Email               string  `json:"email" yaml:"email"`
	Status              string  `json:"status" yaml:"status"`
	Role                *Role   `json:"role" yaml:"role"`
	FailedLoginAttempts *int    `json:"failedLoginAttempts" yaml:"failed_login_attempts,omitempty"`
	AccountLocked       *bool   `json:"accountLocked" yaml:"account_locked,omitempty"`
	LockTime            *string `json:"lockTime" yaml:"lock_time,omitempty"`
}

// Identifier returns the numeric user id, whichever field the backend filled in
func (u *UserProfile) Identifier() int {
	if u == nil {
		return 0
	}
	if u.ID != 0 {
		return u.ID
	}
	return u.UserID
}

// RoleName returns the role name or an empty string when no role is attached
func (u *UserProfile) RoleName() string {
	if u == nil || u.Role == nil {
		return ""
	}
	return u.Role.RoleName
}

// LoginRequest represents the first login step
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInitiateResponse is returned by login and resend-otp
type LoginInitiateResponse struct {
	Message     string `json:"message"`
	Username    string `json:"username"`
	OtpSent     bool   `json:"otpSent"`
	MaskedEmail string `json:"maskedEmail"`
}

// OtpVerificationRequest represents the second login step
type OtpVerificationRequest struct {
	Username string `json:"username"`
	Otp      string `json:"otp"`
}

// AuthResponse carries the issued bearer token
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// RegisterRequest represents an account registration
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleName string `json:"roleName"`
}

// PasswordResetRequest asks the backend to send a reset token
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetVerification consumes a reset token
type PasswordResetVerification struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}
