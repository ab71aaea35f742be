// Package ingest validates uploaded CSV batches and inserts the valid rows.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/registry"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

type Pipeline struct {
	repos    *repository.Repositories
	registry *registry.Registry
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

type Option func(*Pipeline)

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

func NewPipeline(repos *repository.Repositories, opts ...Option) *Pipeline {
	p := &Pipeline{
		repos:    repos,
		registry: registry.New(repos),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest parses raw, checks the header, validates every row against one
// existence snapshot and inserts the valid rows without ordering.
// A *ParseError or *SchemaError aborts the batch before anything is written.
// Once started, a batch runs to completion even if ctx is cancelled.
func (p *Pipeline) Ingest(ctx context.Context, raw []byte, kind model.EntityKind, actor model.Actor) (*model.ImportReport, error) {
	start := time.Now()
	ctx = context.WithoutCancel(ctx)

	required, err := Columns(kind)
	if err != nil {
		return nil, err
	}

	table, err := Parse(raw)
	if err != nil {
		p.observeBatch(kind, "malformed", start)
		return nil, err
	}
	if len(table.Records) > 0 {
		if err := CheckHeader(required, table.Header); err != nil {
			p.observeBatch(kind, "schema_error", start)
			return nil, err
		}
	}

	snap, err := p.registry.Snapshot(ctx, kind)
	if err != nil {
		return nil, err
	}

	var report *model.ImportReport
	switch kind {
	case model.EntityPatients:
		report, err = run(ctx, p, kind, table.Records, entity[model.Patient]{
			idColumn: "patient_id",
			validate: func(r Row) []string { return ValidatePatient(r, snap) },
			coerce:   CoercePatient,
			insert:   p.repos.Patients.InsertMany,
		})
	case model.EntityVisits:
		report, err = run(ctx, p, kind, table.Records, entity[model.Visit]{
			idColumn: "visit_id",
			validate: func(r Row) []string { return ValidateVisit(r, snap) },
			coerce:   CoerceVisit,
			insert:   p.repos.Visits.InsertMany,
		})
	case model.EntityPrescriptions:
		report, err = run(ctx, p, kind, table.Records, entity[model.Prescription]{
			idColumn: "prescription_id",
			validate: func(r Row) []string { return ValidatePrescription(r, snap, actor) },
			afterDuplicate: func(r Row) []string {
				if id := r.Get("prescription_id"); snap.Prescriptions.Has(id) {
					return []string{fmt.Sprintf("prescription_id %s already exists", id)}
				}
				return nil
			},
			coerce: func(r Row) (*model.Prescription, []string) { return CoercePrescription(r, actor) },
			insert: p.repos.Prescriptions.InsertMany,
		})
	}
	if err != nil {
		p.observeBatch(kind, "error", start)
		return nil, err
	}

	p.observeBatch(kind, "completed", start)
	p.logger.Info("csv import completed",
		"entity", string(kind),
		"actor", actor.UserID,
		"total", report.TotalRows,
		"succeeded", report.SuccessCount,
		"failed", report.FailedCount,
	)
	return report, nil
}

// entity describes how one kind of row is checked, typed and stored.
type entity[T any] struct {
	idColumn string
	validate func(Row) []string
	// afterDuplicate runs after the in-batch duplicate check.
	afterDuplicate func(Row) []string
	coerce         func(Row) (*T, []string)
	insert         func(context.Context, []*T) (*repository.BatchResult, error)
}

func run[T any](ctx context.Context, p *Pipeline, kind model.EntityKind, records []Record, e entity[T]) (*model.ImportReport, error) {
	report := &model.ImportReport{TotalRows: len(records), Errors: []model.RowError{}}

	var (
		valid   []*T
		rows    []int
		ids     []string
		inBatch = registry.NewSet()
	)
	for _, rec := range records {
		id := rec.Fields.Get(e.idColumn)

		errs := e.validate(rec.Fields)
		if inBatch.Has(id) {
			errs = append(errs, fmt.Sprintf("Duplicate %s %s in CSV", e.idColumn, id))
		}
		if e.afterDuplicate != nil {
			errs = append(errs, e.afterDuplicate(rec.Fields)...)
		}

		var item *T
		if len(errs) == 0 {
			var coerceErrs []string
			item, coerceErrs = e.coerce(rec.Fields)
			errs = append(errs, coerceErrs...)
		}

		if len(errs) > 0 {
			report.Errors = append(report.Errors, model.RowError{Row: rec.Row, Errors: errs})
			continue
		}
		valid = append(valid, item)
		rows = append(rows, rec.Row)
		ids = append(ids, id)
		inBatch.Add(id)
	}
	p.countRows(kind, metrics.OutcomeRejected, len(report.Errors))

	if len(valid) > 0 {
		res, err := e.insert(ctx, valid)
		if err != nil {
			return nil, fmt.Errorf("failed to insert %s: %w", kind, err)
		}
		report.SuccessCount = res.Inserted

		for _, f := range res.Failures {
			report.Errors = append(report.Errors, model.RowError{
				Row:    rows[f.Index],
				Errors: []string{persistMessage(e.idColumn, ids[f.Index], f.Err)},
			})
			p.logger.Warn("csv row failed to persist",
				"entity", string(kind),
				"row", rows[f.Index],
				"id", ids[f.Index],
				"error", f.Err.Error(),
			)
			if errors.Is(f.Err, repository.ErrDuplicate) {
				p.countRows(kind, metrics.OutcomeConflict, 1)
			} else {
				p.countRows(kind, metrics.OutcomeRejected, 1)
			}
		}
		p.countRows(kind, metrics.OutcomePersisted, res.Inserted)
	}

	sort.SliceStable(report.Errors, func(i, j int) bool {
		return report.Errors[i].Row < report.Errors[j].Row
	})
	report.FailedCount = len(report.Errors)
	return report, nil
}

func persistMessage(idColumn, id string, err error) string {
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Sprintf("%s %s already exists", idColumn, id)
	}
	return fmt.Sprintf("failed to save %s %s", idColumn, id)
}

func (p *Pipeline) observeBatch(kind model.EntityKind, result string, start time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.ImportBatches.WithLabelValues(string(kind), result).Inc()
	p.metrics.ImportDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
}

func (p *Pipeline) countRows(kind model.EntityKind, outcome string, n int) {
	if p.metrics == nil || n == 0 {
		return
	}
	p.metrics.ImportRows.WithLabelValues(string(kind), outcome).Add(float64(n))
}
