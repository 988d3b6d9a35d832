package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trustcare/cli/cmd/auth"
	"github.com/trustcare/cli/cmd/config"
	"github.com/trustcare/cli/cmd/doctors"
	"github.com/trustcare/cli/cmd/patients"
	"github.com/trustcare/cli/cmd/prescriptions"
	"github.com/trustcare/cli/cmd/shell"
	appConfig "github.com/trustcare/cli/internal/config"
)

var (
	cfgFile string
	debug   bool
	output  string
	server  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trustcare",
	Short: "TrustCare CLI - command-line client for the TrustCare hospital backend",
	Long: `TrustCare CLI signs staff and patients in to the TrustCare backend
and gives doctors access to their patients and prescriptions.

Sign-in is two-step: email and password, then a one-time code sent by email.
The session token is kept in memory only, so it ends with the process. Use
'trustcare shell' for an interactive session.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := appConfig.Initialize(cfgFile); err != nil {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}

		if debug {
			appConfig.SetDebug(true)
		}
		if output != "" {
			appConfig.SetOutputFormat(output)
		}
		if server != "" {
			appConfig.SetServerURL(server)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.trustcare-cli.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output format (table, json, yaml, text)")
	rootCmd.PersistentFlags().StringVar(&server, "server", "", "backend base URL (overrides server.url)")

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(shell.ShellCmd)
	rootCmd.AddCommand(doctors.DoctorsCmd)
	rootCmd.AddCommand(patients.PatientsCmd)
	rootCmd.AddCommand(prescriptions.PrescriptionsCmd)
	rootCmd.AddCommand(config.ConfigCmd)
}
