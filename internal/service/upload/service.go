// Package upload runs CSV imports for the HTTP and CLI surfaces and announces the result.
package upload

import (
	"context"
	"sync"
	"time"

	"github.com/jwalitptl/hospital-api/internal/guard"
	"github.com/jwalitptl/hospital-api/internal/ingest"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/notify"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

const mailTimeout = 30 * time.Second

type Service struct {
	pipeline  *ingest.Pipeline
	publisher *messaging.EventPublisher
	notifier  notify.Notifier
	metrics   *metrics.Metrics
	logger    *logger.Logger
	now       func() time.Time
	wg        sync.WaitGroup
}

func NewService(pipeline *ingest.Pipeline, publisher *messaging.EventPublisher, notifier notify.Notifier,
	m *metrics.Metrics, log *logger.Logger) *Service {
	if publisher == nil {
		publisher = messaging.NewEventPublisher(nil, "")
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		pipeline:  pipeline,
		publisher: publisher,
		notifier:  notifier,
		metrics:   m,
		logger:    log,
		now:       time.Now,
	}
}

// Import checks the caller may import kind, ingests raw and publishes an
// import.completed event. Failed rows are mailed in the background.
func (s *Service) Import(ctx context.Context, caps guard.Capabilities, kind model.EntityKind, raw []byte) (*model.ImportReport, error) {
	if err := caps.Require(guard.OpImport, kind); err != nil {
		return nil, err
	}
	actor := caps.Actor()

	report, err := s.pipeline.Ingest(ctx, raw, kind, actor)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, messaging.ImportCompleted{
		Entity:       string(kind),
		Actor:        actor.UserID,
		TotalRows:    report.TotalRows,
		SuccessCount: report.SuccessCount,
		FailedCount:  report.FailedCount,
		At:           s.now().UTC(),
	})

	if report.FailedCount > 0 {
		s.mail(notify.ImportSummary{Entity: kind, Actor: actor.UserID, Report: report})
	}
	return report, nil
}

func (s *Service) publish(ctx context.Context, evt messaging.ImportCompleted) {
	status := "ok"
	if err := s.publisher.PublishImportCompleted(ctx, evt); err != nil {
		status = "error"
		s.logger.Error(err, "publish failed", "entity", evt.Entity)
	}
	if s.metrics != nil {
		s.metrics.EventsPublished.WithLabelValues(messaging.EventImportCompleted, status).Inc()
	}
}

func (s *Service) mail(summary notify.ImportSummary) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := s.notifier.SendImportReport(ctx, summary); err != nil {
			s.logger.Error(err, "import report mail failed", "entity", string(summary.Entity))
		}
	}()
}

// Wait blocks until pending report mails are done.
func (s *Service) Wait() {
	s.wg.Wait()
}
