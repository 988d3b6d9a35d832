package models

// Prescription statuses known to the backend
const (
	StatusActive    = "ACTIVE"
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"

	// StatusAll is a filter value, never stored
	StatusAll = "ALL"
)

// PrescriptionStatuses lists every storable status in display order
var PrescriptionStatuses = []string{StatusActive, StatusPending, StatusCompleted, StatusCancelled}

// Doctor represents a doctor record
type Doctor struct {
	ID             int     `json:"id" yaml:"id"`
	User           UserRef `json:"user" yaml:"user"`
	Name           string  `json:"name" yaml:"name"`
	Specialization *string `json:"specialization" yaml:"specialization"`
	LicenseNumber  *string `json:"licenseNumber" yaml:"license_number"`
}

// Patient represents a patient record
type Patient struct {
	ID          int     `json:"id" yaml:"id"`
	User        UserRef `json:"user" yaml:"user"`
	Name        string  `json:"name" yaml:"name"`
	Dob         *string `json:"dob" yaml:"dob"`
	ContactInfo *string `json:"contactInfo" yaml:"contact_info"`
}

// MedicalRecord holds encrypted clinical data; the client never decrypts it
type MedicalRecord struct {
	ID                 int     `json:"id" yaml:"id"`
	Patient            Patient `json:"patient" yaml:"patient"`
	Doctor             Doctor  `json:"doctor" yaml:"doctor"`
	DiagnosisEncrypted string  `json:"diagnosisEncrypted" yaml:"diagnosis_encrypted"`
	TreatmentEncrypted string  `json:"treatmentEncrypted" yaml:"treatment_encrypted"`
	NotesEncrypted     string  `json:"notesEncrypted" yaml:"notes_encrypted"`
	RecordDate         string  `json:"recordDate" yaml:"record_date"`
	RequestID          string  `json:"requestId" yaml:"request_id"`
}

// Prescription represents a prescription record
type Prescription struct {
	ID                  int            `json:"id" yaml:"id"`
	Patient             Patient        `json:"patient" yaml:"patient"`
	Doctor              Doctor         `json:"doctor" yaml:"doctor"`
	MedicalRecord       *MedicalRecord `json:"medicalRecord" yaml:"medical_record,omitempty"`
	MedicationEncrypted string         `json:"medicationEncrypted" yaml:"medication"`
	IssuedAt            string         `json:"issuedAt" yaml:"issued_at"`
	Status              string         `json:"status" yaml:"status"`
	RequestID           string         `json:"requestId" yaml:"request_id"`
}

// CreatePrescriptionRequest is the payload for a new prescription
type CreatePrescriptionRequest struct {
	Patient             IDRef  `json:"patient"`
	Doctor              IDRef  `json:"doctor"`
	MedicalRecord       *IDRef `json:"medicalRecord,omitempty"`
	MedicationEncrypted string `json:"medicationEncrypted"`
	Status              string `json:"status"`
}

// StringValue dereferences an optional string field
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
