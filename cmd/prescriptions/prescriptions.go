package prescriptions

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trustcare/cli/internal/app"
	"github.com/trustcare/cli/internal/format"
	"github.com/trustcare/cli/internal/models"
	"github.com/trustcare/cli/internal/shell"
	"github.com/trustcare/cli/internal/validation"
)

// PrescriptionsCmd represents the prescriptions command
var PrescriptionsCmd = &cobra.Command{
	Use:   "prescriptions",
	Short: "Prescription commands",
	Long: `Prescription commands for TrustCare CLI.

'mine' and 'create' act as the signed-in doctor. The other commands read
or change any prescription the signed-in role is allowed to reach.`,
}

// mineCmd lists the signed-in doctor's prescriptions
var mineCmd = &cobra.Command{
	Use:   "mine [search]",
	Short: "List your prescriptions",
	Long:  "List the signed-in doctor's prescriptions, filtered by patient or medication and by status",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMine,
}

// listCmd lists every prescription
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all prescriptions",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

// getCmd shows one prescription
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a prescription",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

// byPatientCmd lists a patient's prescriptions
var byPatientCmd = &cobra.Command{
	Use:   "by-patient <patient-id>",
	Short: "List prescriptions of a patient",
	Args:  cobra.ExactArgs(1),
	RunE:  runByPatient,
}

// byDoctorCmd lists a doctor's prescriptions
var byDoctorCmd = &cobra.Command{
	Use:   "by-doctor <doctor-id>",
	Short: "List prescriptions issued by a doctor",
	Args:  cobra.ExactArgs(1),
	RunE:  runByDoctor,
}

// createCmd issues a prescription as the signed-in doctor
var createCmd = &cobra.Command{
	Use:   "create <patient-id> <medication>",
	Short: "Issue a prescription",
	Args:  cobra.ExactArgs(2),
	RunE:  runCreate,
}

// statusCmd changes the status of a prescription
var statusCmd = &cobra.Command{
	Use:   "set-status <id> <status>",
	Short: "Change the status of a prescription",
	Long:  fmt.Sprintf("Change the status of a prescription to one of %s", strings.Join(models.PrescriptionStatuses, ", ")),
	Args:  cobra.ExactArgs(2),
	RunE:  runSetStatus,
}

// deleteCmd deletes a prescription
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a prescription",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

// prescriptionTable renders prescriptions one per row
type prescriptionTable []models.Prescription

func (t prescriptionTable) Headers() []string {
	return []string{"ID", "Patient", "Doctor", "Medication", "Issued", "Status"}
}

func (t prescriptionTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, p := range t {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.Patient.Name,
			p.Doctor.Name,
			p.MedicationEncrypted,
			p.IssuedAt,
			p.Status,
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

func printList(prescriptions []models.Prescription) error {
	if len(prescriptions) == 0 {
		fmt.Println("No prescriptions found")
		return nil
	}
	return format.Print(prescriptionTable(prescriptions))
}

func runMine(cmd *cobra.Command, args []string) error {
	var search string
	if len(args) > 0 {
		search = args[0]
	}
	status, _ := cmd.Flags().GetString("status")
	a, err := connect(cmd)
	if err != nil {
		return err
	}

	list, err := a.Screens.Prescriptions(cmd.Context(), search, status)
	if err != nil {
		return err
	}
	format.PrintInfo("Showing %d of %d prescriptions", len(list.Prescriptions), list.Total)
	return printList(list.Prescriptions)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := connect(cmd)
	if err != nil {
		return err
	}

	prescriptions, err := a.Client.ListPrescriptions(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return printList(prescriptions)
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

	p, err := a.Client.GetPrescription(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get prescription: %w", err)
	}
	return format.Print(prescriptionTable{*p})
}

func runByPatient(cmd *cobra.Command, args []string) error {
	patientID, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := connect(cmd)
	if err != nil {
		return err
	}

	prescriptions, err := a.Client.ListPrescriptionsByPatient(cmd.Context(), patientID)
	if err != nil {
		return fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return printList(prescriptions)
}

func runByDoctor(cmd *cobra.Command, args []string) error {
	doctorID, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := connect(cmd)
	if err != nil {
		return err
	}

	prescriptions, err := a.Client.ListPrescriptionsByDoctor(cmd.Context(), doctorID)
	if err != nil {
		return fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return printList(prescriptions)
}

func runCreate(cmd *cobra.Command, args []string) error {
	patientID, err := parseID(args[0])
	if err != nil {
		return err
	}
	status, _ := cmd.Flags().GetString("status")
	recordID, _ := cmd.Flags().GetInt("medical-record")
	form := validation.PrescriptionForm{
		PatientID:       patientID,
		Medication:      args[1],
		Status:          strings.ToUpper(status),
		MedicalRecordID: recordID,
	}
	// fail before prompting for credentials
	if err := form.Validate(); err != nil {
		return err
	}

	a, err := connect(cmd)
	if err != nil {
		return err
	}
	p, err := a.Screens.CreatePrescription(cmd.Context(), form)
	if err != nil {
		return err
	}

	format.PrintSuccess("✓ Prescription %d issued to %s", p.ID, p.Patient.Name)
	return nil
}

func runSetStatus(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	status := strings.ToUpper(args[1])
	if !slices.Contains(models.PrescriptionStatuses, status) {
		return fmt.Errorf("unknown status %q (want one of %s)", args[1], strings.Join(models.PrescriptionStatuses, ", "))
	}
	a, err := connect(cmd)
	if err != nil {
		return err
	}

	p, err := a.Client.GetPrescription(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get prescription: %w", err)
	}
	p.Status = status
	if _, err := a.Client.UpdatePrescription(cmd.Context(), id, *p); err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}

	format.PrintSuccess("✓ Prescription %d is now %s", id, status)
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

	if err := a.Client.DeletePrescription(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}

	format.PrintSuccess("✓ Prescription %d deleted", id)
	return nil
}

func init() {
	PrescriptionsCmd.PersistentFlags().StringP("email", "e", "", "Sign-in email (prompted when omitted)")
	PrescriptionsCmd.PersistentFlags().StringP("password", "p", "", "Sign-in password (prompted without echo when omitted)")

	mineCmd.Flags().StringP("status", "s", models.StatusAll, "Only prescriptions with this status")

	createCmd.Flags().StringP("status", "s", models.StatusActive, "Initial status")
	createCmd.Flags().Int("medical-record", 0, "Medical record the prescription belongs to")

	PrescriptionsCmd.AddCommand(mineCmd)
	PrescriptionsCmd.AddCommand(listCmd)
	PrescriptionsCmd.AddCommand(getCmd)
	PrescriptionsCmd.AddCommand(byPatientCmd)
	PrescriptionsCmd.AddCommand(byDoctorCmd)
	PrescriptionsCmd.AddCommand(createCmd)
	PrescriptionsCmd.AddCommand(statusCmd)
	PrescriptionsCmd.AddCommand(deleteCmd)
}
