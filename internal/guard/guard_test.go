package guard

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

var (
	admin   = model.Actor{UserID: "admin_hospital", Role: model.RoleAdmin, DoctorID: "DOC-ADMIN-001"}
	doctorA = model.Actor{UserID: "dr_a", Role: model.RoleDoctor, DoctorID: "DOC-A"}
	nobody  = model.Actor{UserID: "ghost", Role: model.Role("nurse")}
)

func TestCapabilities(t *testing.T) {
	tests := []struct {
		actor model.Actor
		op    Operation
		kind  model.EntityKind
		want  bool
	}{
		{admin, OpWrite, model.EntityPatients, true},
		{doctorA, OpRead, model.EntityPatients, false},
		{admin, OpRead, model.EntityVisits, true},
		{doctorA, OpRead, model.EntityVisits, true},
		{doctorA, OpWrite, model.EntityVisits, false},
		{admin, OpRead, model.EntityPrescriptions, false},
		{doctorA, OpWrite, model.EntityPrescriptions, true},
		{doctorA, OpImport, model.EntityPrescriptions, true},
		{admin, OpImport, model.EntityVisits, true},
		{admin, OpImport, model.EntityDoctors, false},
		{nobody, OpRead, model.EntityVisits, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, For(tt.actor).Can(tt.op, tt.kind), "%s %s %s", tt.actor.Role, tt.op, tt.kind)
	}
}

func TestRequireMessages(t *testing.T) {
	cases := []struct {
		actor model.Actor
		op    Operation
		kind  model.EntityKind
		msg   string
	}{
		{doctorA, OpWrite, model.EntityPatients, MsgAdminRequired},
		{admin, OpWrite, model.EntityPrescriptions, MsgDoctorRequired},
		{nobody, OpRead, model.EntityVisits, MsgInsufficient},
	}
	for _, c := range cases {
		err := For(c.actor).Require(c.op, c.kind)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, appErr.HTTPStatus())
		assert.Equal(t, c.msg, appErr.Message)
	}
	assert.NoError(t, For(admin).Require(OpRead, model.EntityVisits))
}

func TestScope(t *testing.T) {
	assert.True(t, For(admin).Scope().Unscoped())
	assert.Equal(t, repository.Scope{DoctorID: "DOC-A"}, For(doctorA).Scope())
	assert.True(t, For(doctorA).Owns("DOC-A"))
	assert.False(t, For(doctorA).Owns("DOC-B"))
	assert.True(t, For(admin).Owns("DOC-B"))
}

func TestDoctorWithoutIdentityHasNoAccess(t *testing.T) {
	anonymous := For(model.Actor{UserID: "dr_x", Role: model.RoleDoctor})

	for _, kind := range []model.EntityKind{model.EntityVisits, model.EntityPrescriptions} {
		assert.False(t, anonymous.CanRead(kind))
		assert.False(t, anonymous.CanWrite(kind))
		assert.Error(t, anonymous.Require(OpRead, kind))
	}
	assert.False(t, anonymous.Owns("DOC-A"))
	assert.False(t, anonymous.Owns(""))
}

func setup(t *testing.T) (*References, *repository.Repositories) {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	require.NoError(t, repos.Patients.Create(ctx, &model.Patient{PatientID: "PAT-2"}))
	require.NoError(t, repos.Patients.Create(ctx, &model.Patient{PatientID: "PAT-9"}))
	require.NoError(t, repos.Doctors.Create(ctx, &model.Doctor{DoctorID: "DOC-A", UserID: "dr_a"}))
	require.NoError(t, repos.Doctors.Create(ctx, &model.Doctor{DoctorID: "DOC-B", UserID: "dr_b"}))
	require.NoError(t, repos.Visits.Create(ctx, &model.Visit{VisitID: "V-A", PatientID: "PAT-2", DoctorID: "DOC-A"}))
	require.NoError(t, repos.Visits.Create(ctx, &model.Visit{VisitID: "V-B", PatientID: "PAT-2", DoctorID: "DOC-B"}))
	require.NoError(t, repos.Prescriptions.Create(ctx, &model.Prescription{PrescriptionID: "R-OLD", VisitID: "V-A", DoctorID: "DOC-A"}))
	return NewReferences(repos), repos
}

func appError(t *testing.T, err error) *apperrors.AppError {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr
}

func TestCheckVisitCreate(t *testing.T) {
	refs, _ := setup(t)
	ctx := context.Background()

	assert.NoError(t, refs.CheckVisitCreate(ctx, &model.Visit{VisitID: "V-NEW", PatientID: "PAT-2", DoctorID: "DOC-A"}))

	e := appError(t, refs.CheckVisitCreate(ctx, &model.Visit{VisitID: "V-NEW", PatientID: "PAT-404", DoctorID: "DOC-A"}))
	assert.Equal(t, "Patient not found", e.Message)
	assert.Equal(t, []string{"patient_id PAT-404 does not exist"}, e.Details)
	assert.Equal(t, http.StatusBadRequest, e.HTTPStatus())

	e = appError(t, refs.CheckVisitCreate(ctx, &model.Visit{VisitID: "V-NEW", PatientID: "PAT-2", DoctorID: "DOC-404"}))
	assert.Equal(t, "Doctor not found", e.Message)

	e = appError(t, refs.CheckVisitCreate(ctx, &model.Visit{VisitID: "V-A", PatientID: "PAT-2", DoctorID: "DOC-A"}))
	assert.Equal(t, "Visit ID already exists", e.Message)
	assert.Equal(t, []string{"visit_id V-A is already in use"}, e.Details)
}

func TestCheckPrescriptionCreate(t *testing.T) {
	refs, _ := setup(t)
	ctx := context.Background()
	caps := For(doctorA)

	p := &model.Prescription{PrescriptionID: "R-NEW", VisitID: "V-A", PatientID: "PAT-2", DoctorID: "DOC-B"}
	require.NoError(t, refs.CheckPrescriptionCreate(ctx, caps, p))
	assert.Equal(t, "DOC-A", p.DoctorID, "doctor always comes from the visit")

	e := appError(t, refs.CheckPrescriptionCreate(ctx, caps, &model.Prescription{PrescriptionID: "R-NEW", VisitID: "V-404", PatientID: "PAT-2"}))
	assert.Equal(t, "Visit not found", e.Message)
	assert.Equal(t, http.StatusBadRequest, e.HTTPStatus())

	e = appError(t, refs.CheckPrescriptionCreate(ctx, caps, &model.Prescription{PrescriptionID: "R-NEW", VisitID: "V-B", PatientID: "PAT-2"}))
	assert.Equal(t, http.StatusForbidden, e.HTTPStatus())
	assert.Equal(t, MsgOwnVisitPrescription, e.Message)

	e = appError(t, refs.CheckPrescriptionCreate(ctx, caps, &model.Prescription{PrescriptionID: "R-NEW", VisitID: "V-A", PatientID: "PAT-404"}))
	assert.Equal(t, "Patient not found", e.Message)

	e = appError(t, refs.CheckPrescriptionCreate(ctx, caps, &model.Prescription{PrescriptionID: "R-NEW", VisitID: "V-A", PatientID: "PAT-9"}))
	assert.Equal(t, "Patient ID mismatch", e.Message)
	assert.Equal(t, []string{"The patient_id does not match the visit patient"}, e.Details)

	e = appError(t, refs.CheckPrescriptionCreate(ctx, caps, &model.Prescription{PrescriptionID: "R-OLD", VisitID: "V-A", PatientID: "PAT-2"}))
	assert.Equal(t, "Prescription ID already exists", e.Message)
}
