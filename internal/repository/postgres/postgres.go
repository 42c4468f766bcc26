package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/meditrack/visit-api/internal/repository"
)

type doctorRepository struct {
	db *sqlx.DB
}

type patientRepository struct {
	db *sqlx.DB
}

type visitRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewVisitRepository(db *sqlx.DB) repository.VisitRepository {
	return &visitRepository{db: db}
}

type txKey struct{}

// withTx installs a transaction into ctx so repository calls made inside
// VisitRepository.WithDoctorLock run on it instead of the pool.
func withTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func (r *visitRepository) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return r.db
}
