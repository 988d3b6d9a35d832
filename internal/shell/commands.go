package shell

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/trustcare/cli/internal/models"
	"github.com/trustcare/cli/internal/routes"
	"github.com/trustcare/cli/internal/validation"
)

// dispatch parses line with a fresh command tree, so flag values never leak
// from one line into the next.
func (s *Shell) dispatch(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	root := s.commands()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (s *Shell) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "",
		Short:         "TrustCare shell commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(s.printer.Out)
	root.SetErr(s.printer.Err)

	root.AddCommand(
		&cobra.Command{
			Use:   "login [email]",
			Short: "Sign in with email and password",
			Args:  cobra.MaximumNArgs(1),
			RunE:  s.cmdLogin,
		},
		&cobra.Command{
			Use:   "otp [code]",
			Short: "Enter the verification code",
			Args:  cobra.MaximumNArgs(1),
			RunE:  s.cmdOtp,
		},
		&cobra.Command{
			Use:   "resend",
			Short: "Send a new verification code",
			Args:  cobra.NoArgs,
			RunE:  s.cmdResend,
		},
		&cobra.Command{
			Use:   "register",
			Short: "Create a patient account",
			Args:  cobra.NoArgs,
			RunE:  s.cmdRegister,
		},
		&cobra.Command{
			Use:   "forgot [email]",
			Short: "Request a password reset token",
			Args:  cobra.MaximumNArgs(1),
			RunE:  s.cmdForgot,
		},
		&cobra.Command{
			Use:   "reset [token]",
			Short: "Set a new password with a reset token",
			Args:  cobra.MaximumNArgs(1),
			RunE:  s.cmdReset,
		},
		&cobra.Command{
			Use:   "go <path>",
			Short: "Open a screen, e.g. go /doctor/patients",
			Args:  cobra.ExactArgs(1),
			Run: func(_ *cobra.Command, args []string) {
				s.history.Navigate(args[0], false)
			},
		},
		&cobra.Command{
			Use:   "back",
			Short: "Return to the previous screen",
			Args:  cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				if _, ok := s.history.Back(); !ok {
					s.printer.Warning("Nothing to go back to")
				}
			},
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the signed-in user",
			Args:  cobra.NoArgs,
			RunE:  s.cmdWhoami,
		},
		&cobra.Command{
			Use:   "dashboard",
			Short: "Open your dashboard",
			Args:  cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				role := models.ParseUserRole(s.app.Session.User().RoleName())
				s.history.Navigate(routes.LandingRoute(role), false)
			},
		},
		&cobra.Command{
			Use:   "patients [search]",
			Short: "List patients, optionally filtered by name, email or contact",
			Run: func(_ *cobra.Command, args []string) {
				s.patientSearch = strings.Join(args, " ")
				s.history.Navigate(routes.DoctorPatients, false)
			},
		},
		s.prescriptionsCommand(),
		&cobra.Command{
			Use:   "prescribe",
			Short: "Issue a new prescription",
			Args:  cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				s.history.Navigate(routes.DoctorNewPrescription, false)
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Sign out",
			Args:  cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				s.app.Auth.Logout()
				s.printer.Success("Signed out")
			},
		},
		&cobra.Command{
			Use:     "exit",
			Aliases: []string{"quit"},
			Short:   "Leave the shell",
			Args:    cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				s.exit = true
			},
		},
	)
	return root
}

func (s *Shell) prescriptionsCommand() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "prescriptions [search]",
		Short: "List your prescriptions, optionally filtered",
		Run: func(_ *cobra.Command, args []string) {
			s.prescriptionSearch = strings.Join(args, " ")
			s.prescriptionStatus = status
			s.history.Navigate(routes.DoctorPrescriptions, false)
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", models.StatusAll, "filter by status (ACTIVE, PENDING, COMPLETED, CANCELLED, ALL)")
	return cmd
}

func (s *Shell) cmdLogin(cmd *cobra.Command, args []string) error {
	form := validation.LoginForm{}
	var err error
	if len(args) == 1 {
		form.Email = args[0]
	} else if form.Email, err = s.prompt.Text("Email"); err != nil {
		return err
	}
	if form.Password, err = s.prompt.Secret("Password"); err != nil {
		return err
	}

	pending, err := s.app.Auth.SubmitCredentials(cmd.Context(), form)
	if err != nil {
		return err
	}
	s.printer.Success("Verification code sent to %s", pending.MaskedEmail)
	return nil
}

func (s *Shell) cmdOtp(cmd *cobra.Command, args []string) error {
	form := validation.OtpForm{}
	var err error
	if len(args) == 1 {
		form.Otp = args[0]
	} else if form.Otp, err = s.prompt.Secret("Code"); err != nil {
		return err
	}

	if _, err := s.app.Auth.SubmitOTP(cmd.Context(), form); err != nil {
		return err
	}
	s.printer.Success("Signed in as %s", s.app.Session.User().Username)
	return nil
}

func (s *Shell) cmdResend(cmd *cobra.Command, _ []string) error {
	pending, err := s.app.Auth.ResendOTP(cmd.Context())
	if err != nil {
		return err
	}
	s.printer.Success("A new code was sent to %s", pending.MaskedEmail)
	return nil
}

func (s *Shell) cmdRegister(cmd *cobra.Command, _ []string) error {
	s.history.Navigate(routes.Register, false)

	var (
		form validation.RegisterForm
		err  error
	)
	if form.Username, err = s.prompt.Text("Username"); err != nil {
		return err
	}
	if form.Email, err = s.prompt.Text("Email"); err != nil {
		return err
	}
	if form.Password, err = s.prompt.Secret("Password"); err != nil {
		return err
	}
	if form.ConfirmPassword, err = s.prompt.Secret("Confirm password"); err != nil {
		return err
	}

	msg, err := s.app.Auth.Register(cmd.Context(), form)
	if err != nil {
		return err
	}
	s.printer.Success("%s. You can now sign in.", strings.TrimSuffix(orDefault(msg, "Registration successful"), "."))
	return nil
}

func (s *Shell) cmdForgot(cmd *cobra.Command, args []string) error {
	form := validation.ForgotPasswordForm{}
	var err error
	if len(args) == 1 {
		form.Email = args[0]
	} else if form.Email, err = s.prompt.Text("Email"); err != nil {
		return err
	}

	notice, err := s.app.Auth.ForgotPassword(cmd.Context(), form)
	if err != nil {
		return err
	}
	s.printer.Success("%s", notice)
	s.history.Navigate(routes.ResetPassword, false)
	return nil
}

func (s *Shell) cmdReset(cmd *cobra.Command, args []string) error {
	form := validation.ResetPasswordForm{}
	var err error
	if len(args) == 1 {
		form.Token = args[0]
	} else if form.Token, err = s.prompt.Text("Reset token"); err != nil {
		return err
	}
	if form.NewPassword, err = s.prompt.Secret("New password"); err != nil {
		return err
	}
	if form.ConfirmPassword, err = s.prompt.Secret("Confirm password"); err != nil {
		return err
	}

	msg, err := s.app.Auth.ResetPassword(cmd.Context(), form)
	if err != nil {
		return err
	}
	s.printer.Success("%s. Please sign in.", strings.TrimSuffix(msg, "."))
	return nil
}

func (s *Shell) cmdWhoami(_ *cobra.Command, _ []string) error {
	user := s.app.Session.User()
	if !s.app.Session.IsAuthenticated() || user == nil {
		s.printer.Info("Not signed in (%s)", s.app.Session.State())
		return nil
	}
	if err := s.printer.Print(user); err != nil {
		return err
	}
	if claims, ok := s.app.Auth.TokenClaims(); ok && !claims.ExpiresAt.IsZero() {
		if claims.Expired(time.Now()) {
			s.printer.Warning("Session token expired at %s", claims.ExpiresAt.Format(time.RFC1123))
		} else {
			s.printer.Info("Session token valid until %s", claims.ExpiresAt.Format(time.RFC1123))
		}
	}
	return nil
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
