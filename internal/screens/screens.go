// Package screens loads and shapes the data behind each protected screen.
// Server-fetched lists go through the query cache, which logout purges.
package screens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/trustcare/cli/internal/cache"
	"github.com/trustcare/cli/internal/models"
	"github.com/trustcare/cli/internal/session"
)

var ErrNotSignedIn = errors.New("not signed in")

// Backend is the part of the API client the screens read from.
type Backend interface {
	ListPatients(ctx context.Context) ([]models.Patient, error)
	GetDoctorByUserID(ctx context.Context, userID int) (*models.Doctor, error)
	ListPrescriptionsByDoctor(ctx context.Context, doctorID int) ([]models.Prescription, error)
	CreatePrescription(ctx context.Context, req models.CreatePrescriptionRequest) (*models.Prescription, error)
}

const (
	keyPatients      = "patients"
	keyDoctor        = "doctor/user/"
	keyPrescriptions = "prescriptions/"
)

// Service serves the screens of the signed-in user.
type Service struct {
	backend Backend
	cache   *cache.Cache
	view    session.View
}

func NewService(backend Backend, c *cache.Cache, view session.View) *Service {
	return &Service{backend: backend, cache: c, view: view}
}

func (s *Service) user() (*models.UserProfile, error) {
	user := s.view.User()
	if !s.view.IsAuthenticated() || user == nil {
		return nil, ErrNotSignedIn
	}
	return user, nil
}

// CurrentDoctor resolves the doctor record of the signed-in user.
func (s *Service) CurrentDoctor(ctx context.Context) (*models.Doctor, error) {
	user, err := s.user()
	if err != nil {
		return nil, err
	}
	id := user.Identifier()
	doctor, err := cache.Fetch(ctx, s.cache, fmt.Sprintf("%s%d", keyDoctor, id), func(ctx context.Context) (*models.Doctor, error) {
		return s.backend.GetDoctorByUserID(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("load doctor profile: %w", err)
	}
	return doctor, nil
}

func (s *Service) allPatients(ctx context.Context) ([]models.Patient, error) {
	return cache.Fetch(ctx, s.cache, keyPatients, s.backend.ListPatients)
}

func (s *Service) doctorPrescriptions(ctx context.Context, doctorID int) ([]models.Prescription, error) {
	return cache.Fetch(ctx, s.cache, fmt.Sprintf("%s%d", keyPrescriptions, doctorID), func(ctx context.Context) ([]models.Prescription, error) {
		return s.backend.ListPrescriptionsByDoctor(ctx, doctorID)
	})
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
