package patient

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

func createRequest(id, email string) *model.CreatePatientRequest {
	age, bmi, no := 42, 23.5, false
	return &model.CreatePatientRequest{
		PatientID:         id,
		FullName:          "Jane Roe",
		Age:               &age,
		Gender:            "Female",
		BloodGroup:        "O+",
		PhoneNumber:       "555-0100",
		Email:             email,
		EmergencyContact:  "John Roe",
		HospitalLocation:  "North Wing",
		BMI:               &bmi,
		SmokerStatus:      &no,
		AlcoholUse:        &no,
		ChronicConditions: []string{"Asthma"},
		InsuranceType:     "Private",
	}
}

func TestCreateNormalizesEmailAndRejectsDuplicates(t *testing.T) {
	svc := NewService(memory.NewRepositories(memory.NewStore()).Patients, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, createRequest("PAT-1", " Jane.Roe@Example.COM "))
	require.NoError(t, err)
	assert.Equal(t, "jane.roe@example.com", p.Email)

	_, err = svc.Create(ctx, createRequest("PAT-1", "other@example.com"))
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, MsgPatientIDExists, appErr.Message)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())
}

func TestUpdatePatchesFields(t *testing.T) {
	svc := NewService(memory.NewRepositories(memory.NewStore()).Patients, nil)
	ctx := context.Background()
	_, err := svc.Create(ctx, createRequest("PAT-1", "a@b.com"))
	require.NoError(t, err)

	email := "NEW@B.COM"
	age := 43
	p, err := svc.Update(ctx, "PAT-1", &model.UpdatePatientRequest{Email: &email, Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "new@b.com", p.Email)
	assert.Equal(t, 43, p.Age)
	assert.Equal(t, "Jane Roe", p.FullName)
	assert.Equal(t, "PAT-1", p.PatientID)

	_, err = svc.Update(ctx, "PAT-404", &model.UpdatePatientRequest{Age: &age})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestListSearchAndDelete(t *testing.T) {
	svc := NewService(memory.NewRepositories(memory.NewStore()).Patients, nil)
	ctx := context.Background()
	for _, id := range []string{"PAT-1", "PAT-2", "PAT-3"} {
		_, err := svc.Create(ctx, createRequest(id, id+"@example.com"))
		require.NoError(t, err)
	}

	patients, page, err := svc.List(ctx, model.ListParams{Search: "pat-2"})
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, 1, page.Total)

	patients, page, err = svc.List(ctx, model.ListParams{Limit: 2, Page: 2})
	require.NoError(t, err)
	assert.Len(t, patients, 1)
	assert.Equal(t, model.Pagination{Total: 3, Page: 2, Limit: 2, Pages: 2}, page)

	deleted, err := svc.Delete(ctx, "PAT-2")
	require.NoError(t, err)
	assert.Equal(t, "PAT-2", deleted.PatientID)
	_, err = svc.Delete(ctx, "PAT-2")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
