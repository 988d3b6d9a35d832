package shell

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/trustcare/cli/internal/app"
	"github.com/trustcare/cli/internal/config"
	"github.com/trustcare/cli/internal/format"
	"github.com/trustcare/cli/internal/logging"
	repl "github.com/trustcare/cli/internal/shell"
)

// ShellCmd represents the shell command
var ShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive TrustCare session",
	Long: `Start an interactive session. Sign in once with 'login' and 'otp',
then move between screens with 'go', 'dashboard', 'patients' and
'prescriptions'. Type 'help' for the command list.

The session token lives only in this process; leaving the shell signs out.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	history := repl.NewHistory()
	a := app.FromConfig(history, os.Stderr)

	printer := format.NewPrinter(os.Stdout, os.Stderr)
	logger := logging.New(os.Stderr, config.LogLevel())

	s := repl.New(a, history, repl.NewPrompter(os.Stdin, os.Stdout), printer, logger)
	return s.Run(cmd.Context())
}
