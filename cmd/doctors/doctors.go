package doctors

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trustcare/cli/internal/app"
	"github.com/trustcare/cli/internal/format"
	"github.com/trustcare/cli/internal/models"
	"github.com/trustcare/cli/internal/shell"
)

// DoctorsCmd represents the doctors command
var DoctorsCmd = &cobra.Command{
	Use:   "doctors",
	Short: "Doctor directory commands",
	Long: `Doctor directory commands for TrustCare CLI.

Every command signs in first (email, password and the emailed code) and
the session ends when the command returns.`,
}

// listCmd lists doctors
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List doctors",
	Long:  "List all doctors, optionally filtered by specialization",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

// getCmd shows one doctor
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a doctor",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

// byUserCmd finds the doctor record of a user account
var byUserCmd = &cobra.Command{
	Use:   "by-user <user-id>",
	Short: "Show the doctor record of a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runByUser,
}

// byLicenseCmd finds a doctor by license number
var byLicenseCmd = &cobra.Command{
	Use:   "by-license <license-number>",
	Short: "Show the doctor holding a license",
	Args:  cobra.ExactArgs(1),
	RunE:  runByLicense,
}

// createCmd creates a doctor record
var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a doctor record",
	Long:  "Create a doctor record linked to an existing user account",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

// updateCmd updates a doctor record
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a doctor record",
	Long:  "Update the name, specialization or license of a doctor. Omitted flags keep their value.",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

// deleteCmd deletes a doctor record
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a doctor record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

// doctorTable renders doctors one per row
type doctorTable []models.Doctor

func (t doctorTable) Headers() []string {
	return []string{"ID", "Name", "Username", "Specialization", "License"}
}

func (t doctorTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, d := range t {
		rows = append(rows, []string{
			strconv.Itoa(d.ID),
			d.Name,
			d.User.Username,
			models.StringValue(d.Specialization),
			models.StringValue(d.LicenseNumber),
		})
	}
	return rows
}

func connect(cmd *cobra.Command) (*app.App, error) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	return app.Connect(cmd.Context(), shell.NewPrompter(os.Stdin, os.Stderr), os.Stderr, email, password)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func optional(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := connect(cmd)
	if err != nil {
		return err
	}

	var doctors []models.Doctor
	if specialty, _ := cmd.Flags().GetString("specialization"); specialty != "" {
		doctors, err = a.Client.ListDoctorsBySpecialization(cmd.Context(), specialty)
	} else {
		doctors, err = a.Client.ListDoctors(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("failed to list doctors: %w", err)
	}

	if len(doctors) == 0 {
		fmt.Println("No doctors found")
		return nil
	}
	return format.Print(doctorTable(doctors))
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := connect(cmd)
	if err != nil {
		return err
	}

	doctor, err := a.Client.GetDoctor(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get doctor: %w", err)
	}
	return format.Print(doctorTable{*doctor})
}

func runByUser(cmd *cobra.Command, args []string) error {
	userID, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := connect(cmd)
	if err != nil {
		return err
	}

	doctor, err := a.Client.GetDoctorByUserID(cmd.Context(), userID)
	if err != nil {
		return fmt.Errorf("failed to get doctor: %w", err)
	}
	return format.Print(doctorTable{*doctor})
}

func runByLicense(cmd *cobra.Command, args []string) error {
	a, err := connect(cmd)
	if err != nil {
		return err
	}

	doctor, err := a.Client.GetDoctorByLicense(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get doctor: %w", err)
	}
	return format.Print(doctorTable{*doctor})
}

func runCreate(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetInt("user-id")
	if userID <= 0 {
		return fmt.Errorf("--user-id is required")
	}
	a, err := connect(cmd)
	if err != nil {
		return err
	}

	doctor, err := a.Client.CreateDoctor(cmd.Context(), models.Doctor{
		User:           models.UserRef{ID: userID},
		Name:           args[0],
		Specialization: optional(cmd, "specialization"),
		LicenseNumber:  optional(cmd, "license"),
	})
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}

	format.PrintSuccess("✓ Doctor '%s' created with id %d", doctor.Name, doctor.ID)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := connect(cmd)
	if err != nil {
		return err
	}

	doctor, err := a.Client.GetDoctor(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get doctor: %w", err)
	}
	if name := optional(cmd, "name"); name != nil {
		doctor.Name = *name
	}
	if specialty := optional(cmd, "specialization"); specialty != nil {
		doctor.Specialization = specialty
	}
	if license := optional(cmd, "license"); license != nil {
		doctor.LicenseNumber = license
	}

	if _, err := a.Client.UpdateDoctor(cmd.Context(), id, *doctor); err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	format.PrintSuccess("✓ Doctor %d updated", id)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := connect(cmd)
	if err != nil {
		return err
	}

	if err := a.Client.DeleteDoctor(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	format.PrintSuccess("✓ Doctor %d deleted", id)
	return nil
}

func init() {
	DoctorsCmd.PersistentFlags().StringP("email", "e", "", "Sign-in email (prompted when omitted)")
	DoctorsCmd.PersistentFlags().StringP("password", "p", "", "Sign-in password (prompted without echo when omitted)")

	listCmd.Flags().String("specialization", "", "Only doctors with this specialization")

	createCmd.Flags().Int("user-id", 0, "User account the record belongs to")
	createCmd.Flags().String("specialization", "", "Specialization")
	createCmd.Flags().String("license", "", "License number")

	updateCmd.Flags().String("name", "", "New name")
	updateCmd.Flags().String("specialization", "", "New specialization")
	updateCmd.Flags().String("license", "", "New license number")

	DoctorsCmd.AddCommand(listCmd)
	DoctorsCmd.AddCommand(getCmd)
	DoctorsCmd.AddCommand(byUserCmd)
	DoctorsCmd.AddCommand(byLicenseCmd)
	DoctorsCmd.AddCommand(createCmd)
	DoctorsCmd.AddCommand(updateCmd)
	DoctorsCmd.AddCommand(deleteCmd)
}
