package api

import (
	"context"
	"fmt"

	"github.com/trustcare/cli/internal/models"
)

const prescriptionBasePath = "/api/prescriptions"

// CreatePrescription issues a new prescription. Doctor only.
func (c *Client) CreatePrescription(ctx context.Context, req models.CreatePrescriptionRequest) (*models.Prescription, error) {
	var out models.Prescription
	if err := c.post(ctx, prescriptionBasePath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPrescriptions(ctx context.Context) ([]models.Prescription, error) {
	var out []models.Prescription
	if err := c.get(ctx, prescriptionBasePath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPrescription(ctx context.Context, id int) (*models.Prescription, error) {
	var out models.Prescription
	if err := c.get(ctx, fmt.Sprintf("%s/%d", prescriptionBasePath, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPrescriptionsByPatient(ctx context.Context, patientID int) ([]models.Prescription, error) {
	var out []models.Prescription
	if err := c.get(ctx, fmt.Sprintf("%s/patient/%d", prescriptionBasePath, patientID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListPrescriptionsByDoctor(ctx context.Context, doctorID int) ([]models.Prescription, error) {
	var out []models.Prescription
	if err := c.get(ctx, fmt.Sprintf("%s/doctor/%d", prescriptionBasePath, doctorID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdatePrescription(ctx context.Context, id int, p models.Prescription) (*models.Prescription, error) {
	var out models.Prescription
	if err := c.put(ctx, fmt.Sprintf("%s/%d", prescriptionBasePath, id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePrescription removes a prescription. Admin only.
func (c *Client) DeletePrescription(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("%s/%d", prescriptionBasePath, id))
}
