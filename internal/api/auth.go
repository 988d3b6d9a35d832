package api

import (
	"context"

	"github.com/trustcare/cli/internal/models"
)

const authBasePath = "/auth"

// InitiateLogin sends credentials; the backend mails an OTP on success
func (c *Client) InitiateLogin(ctx context.Context, req models.LoginRequest) (*models.LoginInitiateResponse, error) {
	var out models.LoginInitiateResponse
	if err := c.post(ctx, authBasePath+"/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOtp exchanges the OTP for a bearer token
func (c *Client) VerifyOtp(ctx context.Context, req models.OtpVerificationRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.post(ctx, authBasePath+"/verify-otp", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendOtp asks for a new OTP. The backend expects the raw username as text.
func (c *Client) ResendOtp(ctx context.Context, username string) (*models.LoginInitiateResponse, error) {
	var out models.LoginInitiateResponse
	if err := c.post(ctx, authBasePath+"/resend-otp", plainText(username), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns the backend's confirmation text
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	var out string
	if err := c.post(ctx, authBasePath+"/register", req, &out); err != nil {
		return "", err
	}
	return out, nil
}

// ForgotPassword requests a reset token by email
func (c *Client) ForgotPassword(ctx context.Context, req models.PasswordResetRequest) (string, error) {
	var out string
	if err := c.post(ctx, authBasePath+"/forgot-password", req, &out); err != nil {
		return "", err
	}
	return out, nil
}

// ResetPassword consumes a reset token
func (c *Client) ResetPassword(ctx context.Context, req models.PasswordResetVerification) (string, error) {
	var out string
	if err := c.post(ctx, authBasePath+"/reset-password", req, &out); err != nil {
		return "", err
	}
	return out, nil
}

// CurrentUser fetches the profile of the bearer token's owner
func (c *Client) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.get(ctx, authBasePath+"/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
