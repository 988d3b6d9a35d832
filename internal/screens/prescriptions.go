package screens

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/trustcare/cli/internal/models"
	"github.com/trustcare/cli/internal/validation"
)

// PrescriptionList is the prescriptions screen.
type PrescriptionList struct {
	Prescriptions []models.Prescription `json:"prescriptions" yaml:"prescriptions"`
	Total         int                   `json:"total" yaml:"total"`
	Counts        map[string]int        `json:"counts" yaml:"counts"`
}

func (l *PrescriptionList) Headers() []string {
	return []string{"ID", "Patient", "Email", "Medication", "Issued", "Status"}
}

func (l *PrescriptionList) Rows() [][]string {
	rows := make([][]string, 0, len(l.Prescriptions))
	for _, p := range l.Prescriptions {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.Patient.Name,
			p.Patient.User.Email,
			p.MedicationEncrypted,
			p.IssuedAt,
			p.Status,
		})
	}
	return rows
}

// Prescriptions lists the signed-in doctor's prescriptions matching search
// and status. An empty status or ALL matches every status.
func (s *Service) Prescriptions(ctx context.Context, search, status string) (*PrescriptionList, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" {
		status = models.StatusAll
	}
	if status != models.StatusAll && !slices.Contains(models.PrescriptionStatuses, status) {
		return nil, fmt.Errorf("unknown status %q (want one of %s, %s)", status, strings.Join(models.PrescriptionStatuses, ", "), models.StatusAll)
	}

	doctor, err := s.CurrentDoctor(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.doctorPrescriptions(ctx, doctor.ID)
	if err != nil {
		return nil, fmt.Errorf("load prescriptions: %w", err)
	}

	list := &PrescriptionList{
		Prescriptions: []models.Prescription{},
		Total:         len(all),
		Counts:        make(map[string]int, len(models.PrescriptionStatuses)),
	}
	for _, st := range models.PrescriptionStatuses {
		list.Counts[st] = 0
	}
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, p := range all {
		list.Counts[p.Status]++
		if status != models.StatusAll && p.Status != status {
			continue
		}
		if needle != "" && !matchesPrescription(p, needle) {
			continue
		}
		list.Prescriptions = append(list.Prescriptions, p)
	}
	return list, nil
}

func matchesPrescription(p models.Prescription, needle string) bool {
	return containsFold(p.Patient.Name, needle) ||
		containsFold(p.Patient.User.Email, needle) ||
		containsFold(p.MedicationEncrypted, needle)
}

// CreatePrescription issues a prescription from the signed-in doctor.
func (s *Service) CreatePrescription(ctx context.Context, form validation.PrescriptionForm) (*models.Prescription, error) {
	if form.Status == "" {
		form.Status = models.StatusActive
	}
	form.Status = strings.ToUpper(form.Status)
	if err := form.Validate(); err != nil {
		return nil, err
	}

	doctor, err := s.CurrentDoctor(ctx)
	if err != nil {
		return nil, err
	}
	req := models.CreatePrescriptionRequest{
		Patient:             models.IDRef{ID: form.PatientID},
		Doctor:              models.IDRef{ID: doctor.ID},
		MedicationEncrypted: strings.TrimSpace(form.Medication),
		Status:              form.Status,
	}
	if form.MedicalRecordID > 0 {
		req.MedicalRecord = &models.IDRef{ID: form.MedicalRecordID}
	}

	created, err := s.backend.CreatePrescription(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create prescription: %w", err)
	}
	s.cache.Invalidate(keyPrescriptions)
	return created, nil
}
