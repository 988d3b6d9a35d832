package screens

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/trustcare/cli/internal/models"
)

// PatientList is the patients screen.
type PatientList struct {
	Patients        []models.Patient `json:"patients" yaml:"patients"`
	Total           int              `json:"total" yaml:"total"`
	WithDateOfBirth int              `json:"withDateOfBirth" yaml:"with_date_of_birth"`
	WithContactInfo int              `json:"withContactInfo" yaml:"with_contact_info"`
}

func (l *PatientList) Headers() []string {
	return []string{"ID", "Name", "Email", "Date of Birth", "Contact"}
}

func (l *PatientList) Rows() [][]string {
	rows := make([][]string, 0, len(l.Patients))
	for _, p := range l.Patients {
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

// Patients lists every patient matching search. The summary counts cover
// all patients, not just the matches.
func (s *Service) Patients(ctx context.Context, search string) (*PatientList, error) {
	if _, err := s.user(); err != nil {
		return nil, err
	}
	all, err := s.allPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}

	list := &PatientList{Patients: []models.Patient{}, Total: len(all)}
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, p := range all {
		if p.Dob != nil && *p.Dob != "" {
			list.WithDateOfBirth++
		}
		if p.ContactInfo != nil && *p.ContactInfo != "" {
			list.WithContactInfo++
		}
		if needle == "" || matchesPatient(p, needle) {
			list.Patients = append(list.Patients, p)
		}
	}
	return list, nil
}

func matchesPatient(p models.Patient, needle string) bool {
	return containsFold(p.Name, needle) ||
		containsFold(p.User.Email, needle) ||
		containsFold(models.StringValue(p.ContactInfo), needle)
}
