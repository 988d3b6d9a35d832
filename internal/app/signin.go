package app

import (
	"context"
	"fmt"
	"io"

	"github.com/trustcare/cli/internal/models"
	"github.com/trustcare/cli/internal/validation"
)

// Prompter asks the user for input.
type Prompter interface {
	Text(label string) (string, error)
	Secret(label string) (string, error)
}

// SignIn runs both login steps, asking for whatever email and password leave
// out and then for the emailed code.
func (a *App) SignIn(ctx context.Context, p Prompter, email, password string) (*models.UserProfile, error) {
	var err error
	if email == "" {
		if email, err = p.Text("Email"); err != nil {
			return nil, err
		}
	}
	if password == "" {
		if password, err = p.Secret("Password"); err != nil {
			return nil, err
		}
	}

	pending, err := a.Auth.SubmitCredentials(ctx, validation.LoginForm{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	code, err := p.Secret(fmt.Sprintf("Verification code sent to %s", pending.MaskedEmail))
	if err != nil {
		return nil, err
	}
	if _, err := a.Auth.SubmitOTP(ctx, validation.OtpForm{Otp: code}); err != nil {
		return nil, err
	}
	return a.Session.User(), nil
}

// Connect wires an app from the loaded configuration and signs it in. The
// session lasts as long as the returned app.
func Connect(ctx context.Context, p Prompter, logOut io.Writer, email, password string) (*App, error) {
	a := FromConfig(nil, logOut)
	if _, err := a.SignIn(ctx, p, email, password); err != nil {
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}
	return a, nil
}
