package prescription

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/guard"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/logger"
)

type Service struct {
	repos  *repository.Repositories
	refs   *guard.References
	logger *logger.Logger
}

func NewService(repos *repository.Repositories, refs *guard.References, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repos: repos, refs: refs, logger: log}
}

// Create stores a prescription on one of the caller's visits. The stored
// doctor_id is the visit's, whatever the request carried.
func (s *Service) Create(ctx context.Context, caps guard.Capabilities, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	p := req.ToPrescription()
	if err := s.refs.CheckPrescriptionCreate(ctx, caps, p); err != nil {
		return nil, err
	}
	if err := s.repos.Prescriptions.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("Prescription ID already exists", err).
				WithDetails(fmt.Sprintf("prescription_id %s is already in use", p.PrescriptionID))
		}
		return nil, fmt.Errorf("failed to create prescription: %w", err)
	}
	s.logger.Info("prescription created", "prescription_id", p.PrescriptionID, "visit_id", p.VisitID, "doctor_id", p.DoctorID)
	return p, nil
}

// Get reports a prescription outside the caller's scope as not found.
func (s *Service) Get(ctx context.Context, caps guard.Capabilities, prescriptionID string) (*model.Prescription, error) {
	p, err := s.repos.Prescriptions.Get(ctx, prescriptionID, caps.Scope())
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, caps guard.Capabilities, params model.ListParams) ([]*model.PrescriptionView, model.Pagination, error) {
	params = params.Normalize()
	prescriptions, total, err := s.repos.Prescriptions.List(ctx, params, caps.Scope())
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to list prescriptions: %w", err)
	}

	ids := make([]string, 0, len(prescriptions))
	for _, p := range prescriptions {
		ids = append(ids, p.PatientID)
	}
	names, err := s.repos.Patients.Names(ctx, ids)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to resolve patient names: %w", err)
	}

	views := make([]*model.PrescriptionView, 0, len(prescriptions))
	for _, p := range prescriptions {
		name := names[p.PatientID]
		if name == "" {
			name = "Unknown"
		}
		views = append(views, &model.PrescriptionView{Prescription: *p, PatientName: name})
	}
	return views, model.NewPagination(total, params), nil
}

// Update never relinks the prescription.
func (s *Service) Update(ctx context.Context, caps guard.Capabilities, prescriptionID string, req *model.UpdatePrescriptionRequest) (*model.Prescription, error) {
	p, err := s.repos.Prescriptions.Get(ctx, prescriptionID, caps.Scope())
	if err != nil {
		return nil, notFound(err)
	}
	req.Apply(p)
	if err := s.repos.Prescriptions.Update(ctx, p, caps.Scope()); err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, caps guard.Capabilities, prescriptionID string) (*model.Prescription, error) {
	p, err := s.repos.Prescriptions.Delete(ctx, prescriptionID, caps.Scope())
	if err != nil {
		return nil, notFound(err)
	}
	s.logger.Info("prescription deleted", "prescription_id", prescriptionID)
	return p, nil
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("Prescription", err)
	}
	return err
}
