package repository

import (
	"context"
	"time"

	"github.com/meditrack/visit-api/internal/model"
)

// All repository interfaces in one file
type (
	// DoctorRepository resolves doctor reference data. Get returns
	// sql.ErrNoRows (wrapped) when the id does not resolve.
	DoctorRepository interface {
		Get(ctx context.Context, id int64) (*model.Doctor, error)
	}

	// PatientRepository resolves patients and executes the aggregation
	// query behind GET /patients.
	PatientRepository interface {
		Get(ctx context.Context, id int64) (*model.Patient, error)

		// QueryPatients runs the filtered-and-paginated aggregation
		// query and returns the flat rows plus the total number of
		// distinct matching patients under the same filters. The rows
		// are ordered by patient id and carry at most one row per
		// (patient, doctor) pair: that pair's most recent visit.
		QueryPatients(ctx context.Context, q model.PatientQuery) ([]model.PatientVisitRow, int64, error)
	}

	// VisitRepository persists visits. CountOverlapping and Create
	// observe a transaction installed by WithDoctorLock when one is
	// present in ctx.
	VisitRepository interface {
		// CountOverlapping counts persisted visits for the doctor whose
		// [start, end) interval overlaps the candidate. Touching
		// boundaries do not count.
		CountOverlapping(ctx context.Context, doctorID int64, start, end time.Time) (int64, error)

		// Create inserts the visit and sets its ID.
		Create(ctx context.Context, visit *model.Visit) error

		// WithDoctorLock runs fn inside a transaction holding a row
		// lock on the doctor, serializing concurrent bookings for the
		// same doctor across the check-then-insert window.
		WithDoctorLock(ctx context.Context, doctorID int64, fn func(ctx context.Context) error) error
	}
)
