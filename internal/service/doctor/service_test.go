package doctor

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

func newService() *Service {
	repos := memory.NewRepositories(memory.NewStore())
	return NewService(repos.Doctors, security.NewBcryptHasher(4), nil)
}

func TestCreateGeneratesIDAndHashesPassword(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	d, err := svc.Create(ctx, &model.CreateDoctorRequest{
		DoctorName:       "Dr. Ada Byron",
		UserID:           "dr_ada",
		Password:         "secret1",
		DoctorSpeciality: "Oncology",
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^DOC-[0-9A-Z]+$`), d.DoctorID)
	assert.Equal(t, model.RoleDoctor, d.Role)
	assert.NotEqual(t, "secret1", d.PasswordHash)
	assert.NoError(t, security.NewBcryptHasher(4).Compare(d.PasswordHash, "secret1"))

	_, err = svc.Create(ctx, &model.CreateDoctorRequest{DoctorName: "Other", UserID: "dr_ada", Password: "secret2", DoctorSpeciality: "X"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())
	assert.Equal(t, MsgUserIDExists, appErr.Message)
}

func TestPasswordLengthIsValidated(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreateDoctorRequest{
		DoctorName: "Dr. Long", UserID: "dr_long", Password: strings.Repeat("x", security.MaxPasswordLen+1), DoctorSpeciality: "X",
	})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())
	assert.Equal(t, []string{security.ErrPasswordTooLong.Error()}, appErr.Details)

	d, err := svc.Create(ctx, &model.CreateDoctorRequest{DoctorName: "Dr. Short", UserID: "dr_short", Password: "secret1", DoctorSpeciality: "X"})
	require.NoError(t, err)
	short := "12345"
	_, err = svc.Update(ctx, d.DoctorID, &model.UpdateDoctorRequest{Password: &short})
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{security.ErrPasswordTooShort.Error()}, appErr.Details)
}

func TestGenerateIDUsesClock(t *testing.T) {
	svc := newService()
	svc.now = func() time.Time { return time.UnixMilli(36 * 36) }

	id := svc.generateID()
	assert.Len(t, id, len("DOC-100")+6)
	assert.Equal(t, "DOC-100", id[:7])
}

func TestUpdateKeepsIdentifiers(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	_, err := svc.Seed(ctx, DefaultAccounts)
	require.NoError(t, err)

	name := "Dr. Sarah J. Johnson"
	pw := "newpass1"
	d, err := svc.Update(ctx, "DOC-CARDIO-001", &model.UpdateDoctorRequest{DoctorName: &name, Password: &pw})
	require.NoError(t, err)
	assert.Equal(t, "dr_cardiology", d.UserID)
	assert.Equal(t, name, d.DoctorName)

	stored, err := svc.Get(ctx, "DOC-CARDIO-001")
	require.NoError(t, err)
	assert.NoError(t, security.NewBcryptHasher(4).Compare(stored.PasswordHash, pw))

	_, err = svc.Update(ctx, "DOC-NONE", &model.UpdateDoctorRequest{DoctorName: &name})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestSeedSkipsExistingUsers(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Seed(ctx, DefaultAccounts)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = svc.Seed(ctx, DefaultAccounts)
	require.NoError(t, err)
	assert.Zero(t, created)

	admin, err := svc.Get(ctx, "DOC-ADMIN-001")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
}

func TestListAndDelete(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	_, err := svc.Seed(ctx, DefaultAccounts)
	require.NoError(t, err)

	doctors, page, err := svc.List(ctx, model.ListParams{Search: "neuro"})
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "DOC-NEURO-001", doctors[0].DoctorID)
	assert.Equal(t, model.Pagination{Total: 1, Page: 1, Limit: 50, Pages: 1}, page)

	_, err = svc.Delete(ctx, "DOC-NEURO-001")
	require.NoError(t, err)
	_, err = svc.Get(ctx, "DOC-NEURO-001")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
