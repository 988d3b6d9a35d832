package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/trustcare/cli/internal/models"
)

const doctorBasePath = "/doctor"

func (c *Client) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	var out []models.Doctor
	if err := c.get(ctx, doctorBasePath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetDoctor(ctx context.Context, id int) (*models.Doctor, error) {
	var out models.Doctor
	if err := c.get(ctx, fmt.Sprintf("%s/%d", doctorBasePath, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDoctorByUserID resolves the doctor record linked to a user account
func (c *Client) GetDoctorByUserID(ctx context.Context, userID int) (*models.Doctor, error) {
	var out models.Doctor
	if err := c.get(ctx, fmt.Sprintf("%s/user/%d", doctorBasePath, userID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetDoctorByLicense(ctx context.Context, licenseNumber string) (*models.Doctor, error) {
	var out models.Doctor
	if err := c.get(ctx, doctorBasePath+"/license/"+url.PathEscape(licenseNumber), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListDoctorsBySpecialization(ctx context.Context, specialization string) ([]models.Doctor, error) {
	var out []models.Doctor
	if err := c.get(ctx, doctorBasePath+"/specialization/"+url.PathEscape(specialization), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateDoctor(ctx context.Context, doctor models.Doctor) (*models.Doctor, error) {
	var out models.Doctor
	if err := c.post(ctx, doctorBasePath, doctor, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateDoctor(ctx context.Context, id int, doctor models.Doctor) (*models.Doctor, error) {
	var out models.Doctor
	if err := c.put(ctx, fmt.Sprintf("%s/%d", doctorBasePath, id), doctor, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDoctor(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("%s/%d", doctorBasePath, id))
}
