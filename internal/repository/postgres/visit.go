package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	apperrors "github.com/meditrack/visit-api/pkg/errors"

	"github.com/meditrack/visit-api/internal/model"
)

// exclusionViolation is the Postgres error code raised by the visits_no_overlap
// exclusion constraint when two overlapping intervals race past the in-tx check.
const exclusionViolation = "23P01"

func (r *visitRepository) CountOverlapping(ctx context.Context, doctorID int64, start, end time.Time) (int64, error) {
	// Half-open [start, end): an existing visit ending exactly at the
	// candidate's start does not overlap it.
	query := `
		SELECT COUNT(*)
		FROM visits
		WHERE doctor_id = $1
		  AND start_time < $3
		  AND end_time > $2
	`
	var count int64
	if err := sqlx.GetContext(ctx, r.ext(ctx), &count, query, doctorID, start, end); err != nil {
		return 0, fmt.Errorf("failed to count overlapping visits: %w", err)
	}
	return count, nil
}

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	query := `
		INSERT INTO visits (doctor_id, patient_id, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	visit.CreatedAt = time.Now()

	err := sqlx.GetContext(ctx, r.ext(ctx), &visit.ID, query,
		visit.DoctorID,
		visit.PatientID,
		visit.StartTime,
		visit.EndTime,
		visit.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == exclusionViolation {
			return apperrors.Conflict("doctor already has a visit scheduled at this time")
		}
		return fmt.Errorf("failed to create visit: %w", err)
	}
	return nil
}

// WithDoctorLock serializes concurrent bookings for one doctor: it locks the
// doctor row for the duration of fn, so the conflict check inside fn sees
// every previously committed visit before the insert commits.
func (r *visitRepository) WithDoctorLock(ctx context.Context, doctorID int64, fn func(ctx context.Context) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var locked int64
	if err := tx.GetContext(ctx, &locked, `SELECT id FROM doctors WHERE id = $1 FOR UPDATE`, doctorID); err != nil {
		return fmt.Errorf("failed to lock doctor %d: %w", doctorID, err)
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}
