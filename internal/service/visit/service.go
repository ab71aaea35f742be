package visit

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/guard"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/trend"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/logger"
)

const unknown = "Unknown"

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

func (s *Service) Create(ctx context.Context, req *model.CreateVisitRequest) (*model.Visit, error) {
	v := req.ToVisit()
	if err := checkStay(v); err != nil {
		return nil, err
	}
	if err := s.refs.CheckVisitCreate(ctx, v); err != nil {
		return nil, err
	}
	if err := s.repos.Visits.Create(ctx, v); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("Visit ID already exists", err).
				WithDetails(fmt.Sprintf("visit_id %s is already in use", v.VisitID))
		}
		return nil, fmt.Errorf("failed to create visit: %w", err)
	}
	s.logger.Info("visit created", "visit_id", v.VisitID, "patient_id", v.PatientID, "doctor_id", v.DoctorID)
	return v, nil
}

// Get returns the visit when it is inside the caller's scope.
func (s *Service) Get(ctx context.Context, caps guard.Capabilities, visitID string) (*model.Visit, error) {
	v, err := s.repos.Visits.Get(ctx, visitID, caps.Scope())
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

// List returns one page of visits enriched with patient and doctor names.
func (s *Service) List(ctx context.Context, caps guard.Capabilities, params model.ListParams) ([]*model.VisitView, model.Pagination, error) {
	params = params.Normalize()
	visits, total, err := s.repos.Visits.List(ctx, params, caps.Scope())
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to list visits: %w", err)
	}
	views, err := s.enrich(ctx, visits)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return views, model.NewPagination(total, params), nil
}

// Update merges the patch, re-checks the stay rule on the result and
// re-resolves a changed patient or doctor.
func (s *Service) Update(ctx context.Context, caps guard.Capabilities, visitID string, req *model.UpdateVisitRequest) (*model.Visit, error) {
	v, err := s.repos.Visits.Get(ctx, visitID, caps.Scope())
	if err != nil {
		return nil, notFound(err)
	}
	before := *v
	req.Apply(v)

	if err := checkStay(v); err != nil {
		return nil, err
	}
	if v.PatientID != before.PatientID || v.DoctorID != before.DoctorID {
		if err := s.refs.CheckVisitLinks(ctx, v); err != nil {
			return nil, err
		}
	}
	if err := s.repos.Visits.Update(ctx, v, caps.Scope()); err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

// Delete removes the visit only. Its prescriptions are kept.
func (s *Service) Delete(ctx context.Context, caps guard.Capabilities, visitID string) (*model.Visit, error) {
	v, err := s.repos.Visits.Delete(ctx, visitID, caps.Scope())
	if err != nil {
		return nil, notFound(err)
	}
	s.logger.Info("visit deleted", "visit_id", visitID)
	return v, nil
}

// SeverityTrend classifies the patient's visits visible to the caller, oldest first.
func (s *Service) SeverityTrend(ctx context.Context, caps guard.Capabilities, patientID string) ([]model.TrendPoint, error) {
	visits, err := s.repos.Visits.ListByPatient(ctx, patientID, caps.Scope())
	if err != nil {
		return nil, fmt.Errorf("failed to load visits for %s: %w", patientID, err)
	}
	return trend.Derive(visits), nil
}

func (s *Service) enrich(ctx context.Context, visits []*model.Visit) ([]*model.VisitView, error) {
	patientIDs := make([]string, 0, len(visits))
	doctorIDs := make([]string, 0, len(visits))
	for _, v := range visits {
		patientIDs = append(patientIDs, v.PatientID)
		doctorIDs = append(doctorIDs, v.DoctorID)
	}

	names, err := s.repos.Patients.Names(ctx, patientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve patient names: %w", err)
	}
	doctors, err := s.repos.Doctors.GetMany(ctx, doctorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve doctors: %w", err)
	}

	views := make([]*model.VisitView, 0, len(visits))
	for _, v := range visits {
		view := &model.VisitView{
			Visit:            *v,
			PatientName:      unknown,
			DoctorName:       unknown,
			DoctorSpeciality: unknown,
		}
		if name, ok := names[v.PatientID]; ok && name != "" {
			view.PatientName = name
		}
		if d, ok := doctors[v.DoctorID]; ok {
			view.DoctorName = d.DoctorName
			view.DoctorSpeciality = d.DoctorSpeciality
		}
		views = append(views, view)
	}
	return views, nil
}

func checkStay(v *model.Visit) error {
	if msg := model.StayError(v.VisitType, v.LengthOfStay); msg != "" {
		return apperrors.NewBadRequest("Validation failed", nil).WithDetails(msg)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("Visit", err)
	}
	return err
}
