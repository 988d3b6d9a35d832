package api

import (
	"context"
	"fmt"

	"github.com/trustcare/cli/internal/models"
)

const patientBasePath = "/patient"

// ListPatients returns every patient. Admin and doctor only.
func (c *Client) ListPatients(ctx context.Context) ([]models.Patient, error) {
	var out []models.Patient
	if err := c.get(ctx, patientBasePath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPatient(ctx context.Context, id int) (*models.Patient, error) {
	var out models.Patient
	if err := c.get(ctx, fmt.Sprintf("%s/%d", patientBasePath, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPatientByUserID(ctx context.Context, userID int) (*models.Patient, error) {
	var out models.Patient
	if err := c.get(ctx, fmt.Sprintf("%s/user/%d", patientBasePath, userID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePatient(ctx context.Context, patient models.Patient) (*models.Patient, error) {
	var out models.Patient
	if err := c.post(ctx, patientBasePath, patient, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePatient(ctx context.Context, id int, patient models.Patient) (*models.Patient, error) {
	var out models.Patient
	if err := c.put(ctx, fmt.Sprintf("%s/%d", patientBasePath, id), patient, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePatient(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("%s/%d", patientBasePath, id))
}
