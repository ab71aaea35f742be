package upload

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/guard"
	"github.com/jwalitptl/hospital-api/internal/ingest"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/notify"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

type captureBroker struct {
	messaging.NoopBroker
	mu       sync.Mutex
	messages [][]byte
}

func (b *captureBroker) Publish(_ context.Context, _ string, message interface{}) error {
	raw, err := json.Marshal(message)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, raw)
	return nil
}

type captureNotifier struct {
	mu        sync.Mutex
	summaries []notify.ImportSummary
}

func (n *captureNotifier) SendImportReport(_ context.Context, s notify.ImportSummary) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.summaries = append(n.summaries, s)
	return nil
}

const patientsCSV = `patient_id,full_name,age,gender,blood_group,phone_number,email,emergency_contact,hospital_location,bmi,smoker_status,alcohol_use,chronic_conditions,registration_date,insurance_type
PAT-1,Jane Roe,42,Female,O+,555-0100,jane@example.com,John Roe,North Wing,23.5,No,No,Asthma,2024-01-02,Private
PAT-2,John Doe,abc,Male,A+,555-0101,john@example.com,Jane Doe,South Wing,25,No,Yes,,2024-01-03,Public
`

func TestImportPublishesAndMails(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	broker := &captureBroker{}
	notifier := &captureNotifier{}
	svc := NewService(ingest.NewPipeline(repos), messaging.NewEventPublisher(broker, "test.events"), notifier, metrics.NewTestMetrics(), nil)

	admin := guard.For(model.Actor{UserID: "admin_hospital", Role: model.RoleAdmin})
	report, err := svc.Import(context.Background(), admin, model.EntityPatients, []byte(patientsCSV))
	require.NoError(t, err)
	svc.Wait()

	assert.Equal(t, 2, report.TotalRows)
	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, 1, report.FailedCount)

	require.Len(t, broker.messages, 1)
	var msg struct {
		Type    string                    `json:"type"`
		Payload messaging.ImportCompleted `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(broker.messages[0], &msg))
	assert.Equal(t, messaging.EventImportCompleted, msg.Type)
	assert.Equal(t, "patients", msg.Payload.Entity)
	assert.Equal(t, "admin_hospital", msg.Payload.Actor)
	assert.Equal(t, 1, msg.Payload.FailedCount)

	require.Len(t, notifier.summaries, 1)
	assert.Equal(t, report, notifier.summaries[0].Report)
}

func TestImportRequiresCapability(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	broker := &captureBroker{}
	svc := NewService(ingest.NewPipeline(repos), messaging.NewEventPublisher(broker, ""), nil, nil, nil)

	doctor := guard.For(model.Actor{UserID: "dr_a", Role: model.RoleDoctor, DoctorID: "DOC-A"})
	_, err := svc.Import(context.Background(), doctor, model.EntityPatients, []byte(patientsCSV))
	e, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, e.HTTPStatus())
	assert.Equal(t, guard.MsgAdminRequired, e.Message)
	assert.Empty(t, broker.messages)
}

func TestImportSchemaErrorPublishesNothing(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	broker := &captureBroker{}
	svc := NewService(ingest.NewPipeline(repos), messaging.NewEventPublisher(broker, ""), nil, nil, nil)

	admin := guard.For(model.Actor{UserID: "admin_hospital", Role: model.RoleAdmin})
	_, err := svc.Import(context.Background(), admin, model.EntityPatients, []byte("patient_id,full_name\nPAT-1,Jane\n"))
	var schemaErr *ingest.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
	assert.Empty(t, broker.messages)
}
