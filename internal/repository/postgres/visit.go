package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

const visitColumns = `visit_id, patient_id, doctor_id, visit_date, severity_score, visit_type,
	length_of_stay, lab_result_glucose, lab_result_bp, previous_visit_gap_days,
	readmitted_within_30_days, visit_cost, created_at, updated_at`

// scopeClause filters by doctor when the bound parameter is non-empty.
func scopeClause(param int) string {
	return fmt.Sprintf("($%d = '' OR doctor_id = $%d)", param, param)
}

type visitRepository struct {
	BaseRepository
}

func NewVisitRepository(db *sqlx.DB) repository.VisitRepository {
	return &visitRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	stampNew(&visit.Timestamps)
	query := `
		INSERT INTO visits (` + visitColumns + `)
		VALUES (:visit_id, :patient_id, :doctor_id, :visit_date, :severity_score, :visit_type,
			:length_of_stay, :lab_result_glucose, :lab_result_bp, :previous_visit_gap_days,
			:readmitted_within_30_days, :visit_cost, :created_at, :updated_at)
	`
	if err := r.insertNamed(ctx, query, visit); err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}
	return nil
}

func (r *visitRepository) InsertMany(ctx context.Context, visits []*model.Visit) (*repository.BatchResult, error) {
	return repository.InsertEach(len(visits),
		func(i int) string { return visits[i].VisitID },
		func(i int) error { return r.Create(ctx, visits[i]) },
	), nil
}

func (r *visitRepository) Get(ctx context.Context, visitID string, scope repository.Scope) (*model.Visit, error) {
	var visit model.Visit
	query := `SELECT ` + visitColumns + ` FROM visits WHERE visit_id = $1 AND ` + scopeClause(2)
	if err := r.db.GetContext(ctx, &visit, query, visitID, scope.DoctorID); err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", mapError(err))
	}
	return &visit, nil
}

func (r *visitRepository) Update(ctx context.Context, visit *model.Visit, scope repository.Scope) error {
	visit.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE visits SET
			patient_id = $2, doctor_id = $3, visit_date = $4, severity_score = $5, visit_type = $6,
			length_of_stay = $7, lab_result_glucose = $8, lab_result_bp = $9,
			previous_visit_gap_days = $10, readmitted_within_30_days = $11, visit_cost = $12,
			updated_at = $13
		WHERE visit_id = $1 AND ($14 = '' OR doctor_id = $14)
	`
	res, err := r.db.ExecContext(ctx, query,
		visit.VisitID, visit.PatientID, visit.DoctorID, visit.VisitDate, visit.SeverityScore,
		visit.VisitType, visit.LengthOfStay, visit.LabResultGlucose, visit.LabResultBP,
		visit.PreviousVisitGapDays, visit.ReadmittedWithin30Days, visit.VisitCost,
		visit.UpdatedAt, scope.DoctorID,
	)
	if err != nil {
		return fmt.Errorf("failed to update visit: %w", mapError(err))
	}
	if err := rowsAffected(res); err != nil {
		return fmt.Errorf("failed to update visit: %w", err)
	}
	return nil
}

func (r *visitRepository) Delete(ctx context.Context, visitID string, scope repository.Scope) (*model.Visit, error) {
	var visit model.Visit
	query := `DELETE FROM visits WHERE visit_id = $1 AND ` + scopeClause(2) + ` RETURNING ` + visitColumns
	if err := r.db.GetContext(ctx, &visit, query, visitID, scope.DoctorID); err != nil {
		return nil, fmt.Errorf("failed to delete visit: %w", mapError(err))
	}
	return &visit, nil
}

func (r *visitRepository) List(ctx context.Context, params model.ListParams, scope repository.Scope) ([]*model.Visit, int, error) {
	where := `WHERE ` + scopeClause(1) + ` AND ($2 = '' OR visit_id ILIKE $3 OR patient_id ILIKE $3)`
	args := []interface{}{scope.DoctorID, params.Search, likePattern(params.Search)}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM visits `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count visits: %w", err)
	}

	visits := []*model.Visit{}
	query := `SELECT ` + visitColumns + ` FROM visits ` + where +
		` ORDER BY visit_date DESC NULLS LAST, visit_id LIMIT $4 OFFSET $5`
	if err := r.db.SelectContext(ctx, &visits, query, append(args, params.Limit, params.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, total, nil
}

func (r *visitRepository) ListAll(ctx context.Context) ([]*model.Visit, error) {
	visits := []*model.Visit{}
	query := `SELECT ` + visitColumns + ` FROM visits ORDER BY created_at, visit_id`
	if err := r.db.SelectContext(ctx, &visits, query); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

func (r *visitRepository) ListByPatient(ctx context.Context, patientID string, scope repository.Scope) ([]*model.Visit, error) {
	visits := []*model.Visit{}
	query := `SELECT ` + visitColumns + ` FROM visits WHERE patient_id = $1 AND ` + scopeClause(2) +
		` ORDER BY visit_date ASC NULLS FIRST, created_at ASC`
	if err := r.db.SelectContext(ctx, &visits, query, patientID, scope.DoctorID); err != nil {
		return nil, fmt.Errorf("failed to list patient visits: %w", err)
	}
	return visits, nil
}

func (r *visitRepository) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT visit_id FROM visits`); err != nil {
		return nil, fmt.Errorf("failed to load visit ids: %w", err)
	}
	return ids, nil
}

func (r *visitRepository) Refs(ctx context.Context) (map[string]model.VisitRef, error) {
	rows := []struct {
		VisitID   string `db:"visit_id"`
		PatientID string `db:"patient_id"`
		DoctorID  string `db:"doctor_id"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, `SELECT visit_id, patient_id, doctor_id FROM visits`); err != nil {
		return nil, fmt.Errorf("failed to load visit refs: %w", err)
	}
	refs := make(map[string]model.VisitRef, len(rows))
	for _, row := range rows {
		refs[row.VisitID] = model.VisitRef{PatientID: row.PatientID, DoctorID: row.DoctorID}
	}
	return refs, nil
}
