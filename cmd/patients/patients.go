package patients

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

// PatientsCmd represents the patients command
var PatientsCmd = &cobra.Command{
	Use:   "patients",
	Short: "Patient record commands",
	Long: `Patient record commands for TrustCare CLI.

Every command signs in first and the session ends when the command
returns. The backend decides which records the signed-in role may see.`,
}

// listCmd lists patients
var listCmd = &cobra.Command{
	Use:   "list [search]",
	Short: "List patients",
	Long:  "List patients, optionally filtered by name, email or contact info",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

// getCmd shows one patient
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a patient",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

// byUserCmd finds the patient record of a user account
var byUserCmd = &cobra.Command{
	Use:   "by-user <user-id>",
	Short: "Show the patient record of a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runByUser,
}

// createCmd creates a patient record
var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a patient record",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

// updateCmd updates a patient record
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a patient record",
	Long:  "Update the name, date of birth or contact info of a patient. Omitted flags keep their value.",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

// deleteCmd deletes a patient record
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a patient record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

// patientTable renders patients one per row
type patientTable []models.Patient

func (t patientTable) Headers() []string {
	return []string{"ID", "Name", "Email", "Date Of Birth", "Contact"}
}

func (t patientTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, p := range t {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.Name,
			p.User.Email,
			models.StringValue(p.Dob),
			models.StringValue(p.ContactInfo),
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
	var search string
	if len(args) > 0 {
		search = args[0]
	}
	a, err := connect(cmd)
	if err != nil {
		return err
	}

	list, err := a.Screens.Patients(cmd.Context(), search)
	if err != nil {
		return fmt.Errorf("failed to list patients: %w", err)
	}
	if len(list.Patients) == 0 {
		fmt.Println("No patients found")
		return nil
	}
	return format.Print(patientTable(list.Patients))
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

	patient, err := a.Client.GetPatient(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get patient: %w", err)
	}
	return format.Print(patientTable{*patient})
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

	patient, err := a.Client.GetPatientByUserID(cmd.Context(), userID)
	if err != nil {
		return fmt.Errorf("failed to get patient: %w", err)
	}
	return format.Print(patientTable{*patient})
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

	patient, err := a.Client.CreatePatient(cmd.Context(), models.Patient{
		User:        models.UserRef{ID: userID},
		Name:        args[0],
		Dob:         optional(cmd, "dob"),
		ContactInfo: optional(cmd, "contact"),
	})
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}

	format.PrintSuccess("✓ Patient '%s' created with id %d", patient.Name, patient.ID)
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

	patient, err := a.Client.GetPatient(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get patient: %w", err)
	}
	if name := optional(cmd, "name"); name != nil {
		patient.Name = *name
	}
	if dob := optional(cmd, "dob"); dob != nil {
		patient.Dob = dob
	}
	if contact := optional(cmd, "contact"); contact != nil {
		patient.ContactInfo = contact
	}

	if _, err := a.Client.UpdatePatient(cmd.Context(), id, *patient); err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	format.PrintSuccess("✓ Patient %d updated", id)
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

	if err := a.Client.DeletePatient(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	format.PrintSuccess("✓ Patient %d deleted", id)
	return nil
}

func init() {
	PatientsCmd.PersistentFlags().StringP("email", "e", "", "Sign-in email (prompted when omitted)")
	PatientsCmd.PersistentFlags().StringP("password", "p", "", "Sign-in password (prompted without echo when omitted)")

	createCmd.Flags().Int("user-id", 0, "User account the record belongs to")
	createCmd.Flags().String("dob", "", "Date of birth (YYYY-MM-DD)")
	createCmd.Flags().String("contact", "", "Contact info")

	updateCmd.Flags().String("name", "", "New name")
	updateCmd.Flags().String("dob", "", "New date of birth (YYYY-MM-DD)")
	updateCmd.Flags().String("contact", "", "New contact info")

	PatientsCmd.AddCommand(listCmd)
	PatientsCmd.AddCommand(getCmd)
	PatientsCmd.AddCommand(byUserCmd)
	PatientsCmd.AddCommand(createCmd)
	PatientsCmd.AddCommand(updateCmd)
	PatientsCmd.AddCommand(deleteCmd)
}
