package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

// References checks interactive writes against stored records.
type References struct {
	repos *repository.Repositories
}

func NewReferences(repos *repository.Repositories) *References {
	return &References{repos: repos}
}

// CheckVisitCreate requires an existing patient and doctor and a free visit_id.
func (r *References) CheckVisitCreate(ctx context.Context, v *model.Visit) error {
	if err := r.CheckVisitLinks(ctx, v); err != nil {
		return err
	}
	_, err := r.repos.Visits.Get(ctx, v.VisitID, repository.Scope{})
	switch {
	case err == nil:
		return apperrors.NewConflict("Visit ID already exists", nil).
			WithDetails(fmt.Sprintf("visit_id %s is already in use", v.VisitID))
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}
	return nil
}

// CheckVisitLinks resolves the patient and doctor a visit points at.
func (r *References) CheckVisitLinks(ctx context.Context, v *model.Visit) error {
	if _, err := r.repos.Patients.Get(ctx, v.PatientID); err != nil {
		return notFoundOr(err, "Patient", fmt.Sprintf("patient_id %s does not exist", v.PatientID))
	}
	if _, err := r.repos.Doctors.Get(ctx, v.DoctorID); err != nil {
		return notFoundOr(err, "Doctor", fmt.Sprintf("doctor_id %s does not exist", v.DoctorID))
	}
	return nil
}

// CheckPrescriptionCreate validates p for caps and copies the visit's doctor
// onto it. Ownership is checked before the patient so a foreign visit is
// reported as forbidden.
func (r *References) CheckPrescriptionCreate(ctx context.Context, caps Capabilities, p *model.Prescription) error {
	visit, err := r.repos.Visits.Get(ctx, p.VisitID, repository.Scope{})
	if err != nil {
		return notFoundOr(err, "Visit", fmt.Sprintf("visit_id %s does not exist", p.VisitID))
	}
	if caps.Actor().Role == model.RoleDoctor && visit.DoctorID != caps.Actor().DoctorID {
		return apperrors.NewForbidden(MsgOwnVisitPrescription)
	}
	if _, err := r.repos.Patients.Get(ctx, p.PatientID); err != nil {
		return notFoundOr(err, "Patient", fmt.Sprintf("patient_id %s does not exist", p.PatientID))
	}
	if visit.PatientID != p.PatientID {
		return apperrors.NewBadRequest("Patient ID mismatch", nil).
			WithDetails("The patient_id does not match the visit patient")
	}

	_, err = r.repos.Prescriptions.Get(ctx, p.PrescriptionID, repository.Scope{})
	switch {
	case err == nil:
		return apperrors.NewConflict("Prescription ID already exists", nil).
			WithDetails(fmt.Sprintf("prescription_id %s is already in use", p.PrescriptionID))
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}

	p.DoctorID = visit.DoctorID
	return nil
}

// notFoundOr turns a missing reference into a 400 naming the entity.
func notFoundOr(err error, entity, detail string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewBadRequest(entity+" not found", err).WithDetails(detail)
	}
	return err
}
