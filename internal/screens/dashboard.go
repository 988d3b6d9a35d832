package screens

import (
	"context"
	"fmt"
	"strconv"

	"github.com/trustcare/cli/internal/models"
)

// Profile is the card shown on every dashboard.
type Profile struct {
	ID       int    `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email" yaml:"email"`
	Role     string `json:"role" yaml:"role"`
	Status   string `json:"status" yaml:"status"`
}

// DoctorStats are the counters on the doctor dashboard.
type DoctorStats struct {
	DoctorName          string `json:"doctorName" yaml:"doctor_name"`
	TotalPatients       int    `json:"totalPatients" yaml:"total_patients"`
	MyPrescriptions     int    `json:"myPrescriptions" yaml:"my_prescriptions"`
	ActivePrescriptions int    `json:"activePrescriptions" yaml:"active_prescriptions"`
}

// Dashboard is the landing screen content.
type Dashboard struct {
	Profile Profile      `json:"profile" yaml:"profile"`
	Doctor  *DoctorStats `json:"doctor,omitempty" yaml:"doctor,omitempty"`
}

func (d *Dashboard) Headers() []string { return []string{"Field", "Value"} }

func (d *Dashboard) Rows() [][]string {
	rows := [][]string{
		{"User ID", strconv.Itoa(d.Profile.ID)},
		{"Username", d.Profile.Username},
		{"Email", d.Profile.Email},
		{"Role", d.Profile.Role},
		{"Status", d.Profile.Status},
	}
	if d.Doctor != nil {
		rows = append(rows,
			[]string{"Doctor", d.Doctor.DoctorName},
			[]string{"Total Patients", strconv.Itoa(d.Doctor.TotalPatients)},
			[]string{"My Prescriptions", strconv.Itoa(d.Doctor.MyPrescriptions)},
			[]string{"Active Prescriptions", strconv.Itoa(d.Doctor.ActivePrescriptions)},
		)
	}
	return rows
}

// Dashboard builds the dashboard of the signed-in user.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	user, err := s.user()
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Profile: Profile{
		ID:       user.Identifier(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.RoleName(),
		Status:   user.Status,
	}}
	if models.ParseUserRole(user.RoleName()) != models.RoleDoctor {
		return d, nil
	}

	doctor, err := s.CurrentDoctor(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := s.allPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	prescriptions, err := s.doctorPrescriptions(ctx, doctor.ID)
	if err != nil {
		return nil, fmt.Errorf("load prescriptions: %w", err)
	}

	stats := &DoctorStats{
		DoctorName:      doctor.Name,
		TotalPatients:   len(patients),
		MyPrescriptions: len(prescriptions),
	}
	for _, p := range prescriptions {
		if p.Status == models.StatusActive {
			stats.ActivePrescriptions++
		}
	}
	d.Doctor = stats
	return d, nil
}
