package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	appConfig "github.com/trustcare/cli/internal/config"
	"github.com/trustcare/cli/internal/format"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "CLI configuration commands",
	Long: `CLI configuration commands for TrustCare CLI.

This command group shows the effective configuration, writes a default
configuration file and prints where it lives.`,
}

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  "Show configuration after flags, environment and file are merged",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return format.Print(appConfig.Get())
	},
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

// pathCmd represents the path command
var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := appConfig.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path, err := appConfig.Path()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}
	if err := appConfig.Write(path, appConfig.Default()); err != nil {
		return err
	}

	format.PrintSuccess("✓ Wrote %s", path)
	return nil
}

func init() {
	initCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")

	ConfigCmd.AddCommand(showCmd)
	ConfigCmd.AddCommand(initCmd)
	ConfigCmd.AddCommand(pathCmd)
}
