package auth

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trustcare/cli/internal/app"
	"github.com/trustcare/cli/internal/format"
	"github.com/trustcare/cli/internal/routes"
	"github.com/trustcare/cli/internal/shell"
	"github.com/trustcare/cli/internal/validation"
)

// AuthCmd represents the auth command
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Account and sign-in commands",
	Long: `Account and sign-in commands for TrustCare CLI.

This command group includes sign-in with a one-time code, registration
and password reset. Sessions are held in memory only; 'auth login' checks
credentials and shows the profile, then the session ends.`,
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to TrustCare",
	Long:  "Sign in with email and password, then the one-time code sent by email",
	RunE:  runLogin,
}

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a patient account",
	Long:  "Create a new account. Self-registered accounts are always patients.",
	RunE:  runRegister,
}

// forgotPasswordCmd represents the forgot-password command
var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password",
	Short: "Request a password reset token",
	Long:  "Request a password reset token by email",
	RunE:  runForgotPassword,
}

// resetPasswordCmd represents the reset-password command
var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Reset a password",
	Long:  "Set a new password using a reset token received by email",
	RunE:  runResetPassword,
}

func newApp() *app.App {
	return app.FromConfig(nil, os.Stderr)
}

func newPrompter() *shell.Prompter {
	return shell.NewPrompter(os.Stdin, os.Stderr)
}

// askIfEmpty prompts for value unless a flag already set it
func askIfEmpty(value string, ask func(string) (string, error), label string) (string, error) {
	if value != "" {
		return value, nil
	}
	return ask(label)
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	a := newApp()
	user, err := a.SignIn(cmd.Context(), newPrompter(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	format.PrintSuccess("✓ Signed in as %s", user.Username)
	return format.Print(user)
}

func runRegister(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("username")
	email, _ := cmd.Flags().GetString("email")
	p := newPrompter()

	var (
		form validation.RegisterForm
		err  error
	)
	if form.Username, err = askIfEmpty(username, p.Text, "Username"); err != nil {
		return err
	}
	if form.Email, err = askIfEmpty(email, p.Text, "Email"); err != nil {
		return err
	}
	if form.Password, err = p.Secret("Password"); err != nil {
		return err
	}
	if form.ConfirmPassword, err = p.Secret("Confirm password"); err != nil {
		return err
	}

	msg, err := newApp().Auth.Register(cmd.Context(), form)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Registration successful"
	}
	format.PrintSuccess("✓ %s", msg)
	return nil
}

func runForgotPassword(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	email, err := askIfEmpty(email, newPrompter().Text, "Email")
	if err != nil {
		return err
	}

	notice, err := newApp().Auth.ForgotPassword(cmd.Context(), validation.ForgotPasswordForm{Email: email})
	if err != nil {
		return err
	}
	format.PrintSuccess("%s", notice)
	return nil
}

func runResetPassword(cmd *cobra.Command, args []string) error {
	token, _ := cmd.Flags().GetString("token")
	p := newPrompter()

	var (
		form validation.ResetPasswordForm
		err  error
	)
	if form.Token, err = askIfEmpty(token, p.Text, "Reset token"); err != nil {
		return err
	}
	if form.NewPassword, err = p.Secret("New password"); err != nil {
		return err
	}
	if form.ConfirmPassword, err = p.Secret("Confirm password"); err != nil {
		return err
	}

	msg, err := newApp().Auth.ResetPassword(cmd.Context(), form)
	if err != nil {
		return err
	}
	format.PrintSuccess("✓ %s. Sign in at %s with your new password.", msg, routes.Login)
	return nil
}

func init() {
	loginCmd.Flags().StringP("email", "e", "", "Email address")
	loginCmd.Flags().StringP("password", "p", "", "Password (prompted without echo when omitted)")

	registerCmd.Flags().StringP("username", "u", "", "Username")
	registerCmd.Flags().StringP("email", "e", "", "Email address")

	forgotPasswordCmd.Flags().StringP("email", "e", "", "Email address")
	resetPasswordCmd.Flags().StringP("token", "t", "", "Reset token from the email")

	AuthCmd.AddCommand(loginCmd)
	AuthCmd.AddCommand(registerCmd)
	AuthCmd.AddCommand(forgotPasswordCmd)
	AuthCmd.AddCommand(resetPasswordCmd)
}
