// Package auth drives the login state machine. It is the only writer of the
// token store and the session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/trustcare/cli/internal/api"
	"github.com/trustcare/cli/internal/logging"
	"github.com/trustcare/cli/internal/models"
	"github.com/trustcare/cli/internal/routes"
	"github.com/trustcare/cli/internal/session"
	"github.com/trustcare/cli/internal/validation"
)

// DefaultRegistrationRole is given to every self-registered account.
const DefaultRegistrationRole = "PATIENT"

// ForgotPasswordNotice is returned for every accepted reset request, whether
// or not the address belongs to an account.
const ForgotPasswordNotice = "If the email exists in our system, a password reset token has been sent. Please check your email."

const resetPasswordNotice = "Password reset successfully"

var (
	ErrInFlight             = errors.New("operation already in progress")
	ErrSuperseded           = errors.New("session changed while the request was in flight")
	ErrNoPendingLogin       = errors.New("no login awaiting verification")
	ErrAlreadyAuthenticated = errors.New("already signed in; log out first")
)

// Op names a controller operation for in-flight tracking.
type Op string

const (
	OpLogin          Op = "login"
	OpVerifyOTP      Op = "verify-otp"
	OpResendOTP      Op = "resend-otp"
	OpRegister       Op = "register"
	OpForgotPassword Op = "forgot-password"
	OpResetPassword  Op = "reset-password"
	OpRestore        Op = "restore"
)

// holdsSession reports whether guards must wait while op runs.
func (op Op) holdsSession() bool {
	return op == OpVerifyOTP || op == OpRestore
}

// Backend is the part of the API client the controller talks to.
type Backend interface {
	InitiateLogin(ctx context.Context, req models.LoginRequest) (*models.LoginInitiateResponse, error)
	VerifyOtp(ctx context.Context, req models.OtpVerificationRequest) (*models.AuthResponse, error)
	ResendOtp(ctx context.Context, username string) (*models.LoginInitiateResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	ForgotPassword(ctx context.Context, req models.PasswordResetRequest) (string, error)
	ResetPassword(ctx context.Context, req models.PasswordResetVerification) (string, error)
	CurrentUser(ctx context.Context) (*models.UserProfile, error)
}

// Purger drops cached server data.
type Purger interface {
	Purge()
}

// Option configures a Controller.
type Option func(*Controller)

func WithNavigator(n routes.Navigator) Option {
	return func(c *Controller) { c.nav = n }
}

func WithCache(p Purger) Option {
	return func(c *Controller) { c.cache = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller owns the authentication flow.
type Controller struct {
	backend Backend
	tokens  *session.TokenStore
	writer  *session.Writer
	nav     routes.Navigator
	cache   Purger
	logger  *slog.Logger

	// mu serialises generation checks with the writes they guard.
	mu       sync.Mutex
	inFlight map[Op]bool
}

// NewController returns a controller writing to tokens and the session owned
// by writer. Navigation happens outside the controller's lock, so the
// navigator may read the session freely.
func NewController(backend Backend, tokens *session.TokenStore, writer *session.Writer, opts ...Option) *Controller {
	c := &Controller{
		backend:  backend,
		tokens:   tokens,
		writer:   writer,
		inFlight: make(map[Op]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	return c
}

// Session is the read-only view of the session.
func (c *Controller) Session() session.View {
	return c.writer.Session()
}

// IsLoading reports whether op is in flight.
func (c *Controller) IsLoading(op Op) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[op]
}

// TokenClaims decodes the held token for display.
func (c *Controller) TokenClaims() (session.Claims, bool) {
	token, ok := c.tokens.Get()
	if !ok {
		return session.Claims{}, false
	}
	claims, err := session.ParseClaims(token)
	if err != nil {
		return session.Claims{}, false
	}
	return claims, true
}

// SubmitCredentials starts a login. On success the session waits for the OTP
// that the backend sent out of band.
func (c *Controller) SubmitCredentials(ctx context.Context, form validation.LoginForm) (session.PendingLogin, error) {
	if c.Session().IsAuthenticated() {
		return session.PendingLogin{}, ErrAlreadyAuthenticated
	}
	if err := form.Validate(); err != nil {
		return session.PendingLogin{}, err
	}
	done, err := c.begin(OpLogin)
	if err != nil {
		return session.PendingLogin{}, err
	}
	defer done()

	c.writer.BeginLogin()
	gen := c.generation()

	resp, err := c.backend.InitiateLogin(ctx, models.LoginRequest{Email: form.Email, Password: form.Password})

	var pending session.PendingLogin
	applied := c.apply(gen, func() {
		if err != nil {
			c.writer.Reset()
			return
		}
		pending = session.PendingLogin{Username: resp.Username, MaskedEmail: resp.MaskedEmail}
		if pending.Username == "" {
			pending.Username = form.Email
		}
		c.writer.SetPending(pending)
	})
	if !applied {
		return session.PendingLogin{}, ErrSuperseded
	}
	if err != nil {
		c.logger.Info("login rejected", "error", err)
		return session.PendingLogin{}, fmt.Errorf("login: %w", err)
	}

	c.logger.Debug("otp issued", "masked_email", pending.MaskedEmail)
	c.navigate(routes.VerifyOtp, false)
	return pending, nil
}

// SubmitOTP completes a pending login and returns the landing route.
func (c *Controller) SubmitOTP(ctx context.Context, form validation.OtpForm) (string, error) {
	pending, ok := c.Session().Pending()
	if !ok {
		return "", ErrNoPendingLogin
	}
	if err := form.Validate(); err != nil {
		return "", err
	}
	done, err := c.begin(OpVerifyOTP)
	if err != nil {
		return "", err
	}
	defer done()

	gen := c.generation()
	auth, err := c.backend.VerifyOtp(ctx, models.OtpVerificationRequest{Username: pending.Username, Otp: form.Otp})
	if err != nil {
		if c.generation() != gen {
			return "", ErrSuperseded
		}
		return "", fmt.Errorf("verify otp: %w", err)
	}
	if !c.apply(gen, func() { c.tokens.Set(auth.Token) }) {
		return "", ErrSuperseded
	}

	user, err := c.backend.CurrentUser(ctx)
	if err != nil {
		// The token alone is not a session.
		c.apply(gen, func() { c.tokens.Clear() })
		return "", fmt.Errorf("load profile: %w", err)
	}
	if !c.apply(gen, func() { c.writer.Authenticate(user) }) {
		return "", ErrSuperseded
	}

	roleName := auth.Role
	if roleName == "" {
		roleName = user.RoleName()
	}
	landing := routes.LandingRoute(models.ParseUserRole(roleName))
	c.logger.Info("signed in", "user", user.Identifier(), "role", roleName)
	c.navigate(landing, true)
	return landing, nil
}

// ResendOTP asks the backend to issue a fresh code for the pending login.
func (c *Controller) ResendOTP(ctx context.Context) (session.PendingLogin, error) {
	pending, ok := c.Session().Pending()
	if !ok {
		return session.PendingLogin{}, ErrNoPendingLogin
	}
	return c.ResendOTPFor(ctx, pending.Username)
}

// ResendOTPFor re-issues a code for username. The pending login is refreshed
// only if it still belongs to username.
func (c *Controller) ResendOTPFor(ctx context.Context, username string) (session.PendingLogin, error) {
	if err := validation.ValidateRequired(username, "Username is required"); err != nil {
		return session.PendingLogin{}, err
	}
	done, err := c.begin(OpResendOTP)
	if err != nil {
		return session.PendingLogin{}, err
	}
	defer done()

	gen := c.generation()
	resp, err := c.backend.ResendOtp(ctx, username)
	if err != nil {
		if c.generation() != gen {
			return session.PendingLogin{}, ErrSuperseded
		}
		return session.PendingLogin{}, fmt.Errorf("resend otp: %w", err)
	}

	refreshed := session.PendingLogin{Username: username, MaskedEmail: resp.MaskedEmail}
	if !c.apply(gen, func() {
		if cur, ok := c.Session().Pending(); ok && cur.Username == username {
			c.writer.SetPending(refreshed)
		}
	}) {
		return session.PendingLogin{}, ErrSuperseded
	}
	return refreshed, nil
}

// Register creates an account. It never signs the user in.
func (c *Controller) Register(ctx context.Context, form validation.RegisterForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}
	done, err := c.begin(OpRegister)
	if err != nil {
		return "", err
	}
	defer done()

	msg, err := c.backend.Register(ctx, models.RegisterRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		RoleName: DefaultRegistrationRole,
	})
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	c.logger.Info("account registered", "username", form.Username)
	c.navigate(routes.Login, false)
	return msg, nil
}

// ForgotPassword requests a reset token. The answer does not reveal whether
// the address is known.
func (c *Controller) ForgotPassword(ctx context.Context, form validation.ForgotPasswordForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}
	done, err := c.begin(OpForgotPassword)
	if err != nil {
		return "", err
	}
	defer done()

	if _, err := c.backend.ForgotPassword(ctx, models.PasswordResetRequest{Email: form.Email}); err != nil && !api.IsNotFoundError(err) {
		return "", fmt.Errorf("forgot password: %w", err)
	}
	return ForgotPasswordNotice, nil
}

// ResetPassword consumes a reset token and returns to the login screen.
func (c *Controller) ResetPassword(ctx context.Context, form validation.ResetPasswordForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}
	done, err := c.begin(OpResetPassword)
	if err != nil {
		return "", err
	}
	defer done()

	msg, err := c.backend.ResetPassword(ctx, models.PasswordResetVerification{Token: form.Token, NewPassword: form.NewPassword})
	if err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}
	if msg == "" {
		msg = resetPasswordNotice
	}
	c.navigate(routes.Login, false)
	return msg, nil
}

// Restore loads the profile for a token already held. It reports false when
// there is no token to restore from.
func (c *Controller) Restore(ctx context.Context) (bool, error) {
	if _, ok := c.tokens.Get(); !ok {
		return false, nil
	}
	done, err := c.begin(OpRestore)
	if err != nil {
		return false, err
	}
	defer done()

	gen := c.generation()
	user, err := c.backend.CurrentUser(ctx)
	if err != nil {
		return false, fmt.Errorf("restore session: %w", err)
	}
	if !c.apply(gen, func() { c.writer.Authenticate(user) }) {
		return false, ErrSuperseded
	}
	return true, nil
}

// Logout ends the session. Calling it while anonymous changes nothing.
func (c *Controller) Logout() {
	c.mu.Lock()
	hadToken := c.tokens.Clear()
	changed := c.writer.Reset()
	if hadToken && !changed {
		c.writer.Invalidate()
	}
	c.mu.Unlock()

	if hadToken || changed {
		c.purge()
		c.logger.Info("signed out")
	}
	c.navigate(routes.Login, true)
}

// HandleUnauthorized is the API client's 401 hook, given the token the
// rejected request carried. Only the call that clears that token, while it is
// still the current one, resets the session.
func (c *Controller) HandleUnauthorized(token string) {
	c.mu.Lock()
	if !c.tokens.ClearIf(token) {
		c.mu.Unlock()
		return
	}
	if !c.writer.Reset() {
		c.writer.Invalidate()
	}
	c.mu.Unlock()

	c.purge()
	c.logger.Warn("session rejected by server, signing out")
	c.navigate(routes.Login, true)
}

// AbandonPending drops a half-finished login when the user leaves the OTP
// screen. Responses still in flight for it are discarded.
func (c *Controller) AbandonPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.Session().State() {
	case session.LoginPending, session.OtpPending:
		c.writer.Reset()
	}
}

func (c *Controller) begin(op Op) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[op] {
		return nil, ErrInFlight
	}
	c.inFlight[op] = true

	endLoading := func() {}
	if op.holdsSession() {
		endLoading = c.writer.BeginLoading()
	}
	return func() {
		endLoading()
		c.mu.Lock()
		delete(c.inFlight, op)
		c.mu.Unlock()
	}, nil
}

func (c *Controller) generation() uint64 {
	return c.writer.Session().Generation()
}

// apply runs fn only if the session is still in generation gen.
func (c *Controller) apply(gen uint64, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation() != gen {
		return false
	}
	fn()
	return true
}

func (c *Controller) navigate(path string, replace bool) {
	if c.nav != nil {
		c.nav.Navigate(path, replace)
	}
}

func (c *Controller) purge() {
	if c.cache != nil {
		c.cache.Purge()
	}
}
