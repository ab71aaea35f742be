package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/logger"
)

const MsgPatientIDExists = "Patient ID already exists"

type Service struct {
	repo   repository.PatientRepository
	logger *logger.Logger
}

func NewService(repo repository.PatientRepository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, logger: log}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	p := req.ToPatient()
	p.Email = normalizeEmail(p.Email)

	if _, err := s.repo.Get(ctx, p.PatientID); err == nil {
		return nil, duplicate(p.PatientID, nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check patient_id: %w", err)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicate(p.PatientID, err)
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	s.logger.Info("patient created", "patient_id", p.PatientID)
	return p, nil
}

func (s *Service) Get(ctx context.Context, patientID string) (*model.Patient, error) {
	p, err := s.repo.Get(ctx, patientID)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, params model.ListParams) ([]*model.Patient, model.Pagination, error) {
	params = params.Normalize()
	patients, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, model.NewPagination(total, params), nil
}

// Update patches every field except patient_id.
func (s *Service) Update(ctx context.Context, patientID string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	p, err := s.repo.Get(ctx, patientID)
	if err != nil {
		return nil, notFound(err)
	}
	req.Apply(p)
	p.Email = normalizeEmail(p.Email)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// Delete removes the patient only. Visits and prescriptions that reference it are kept.
func (s *Service) Delete(ctx context.Context, patientID string) (*model.Patient, error) {
	p, err := s.repo.Delete(ctx, patientID)
	if err != nil {
		return nil, notFound(err)
	}
	s.logger.Info("patient deleted", "patient_id", patientID)
	return p, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func duplicate(patientID string, err error) error {
	return apperrors.NewConflict(MsgPatientIDExists, err).
		WithDetails(fmt.Sprintf("patient_id %s is already in use", patientID))
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("Patient", err)
	}
	return err
}
