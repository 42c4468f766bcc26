package visit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/meditrack/visit-api/internal/model"
	"github.com/meditrack/visit-api/internal/repository"
	"github.com/meditrack/visit-api/internal/schedule"
)

// Compile-time checks that the mocks satisfy the repository contracts.
var (
	_ repository.DoctorRepository  = (*MockDoctorRepository)(nil)
	_ repository.PatientRepository = (*MockPatientRepository)(nil)
	_ repository.VisitRepository   = (*MockVisitRepository)(nil)
	_ repository.VisitRepository   = (*fakeVisitStore)(nil)
)

type MockDoctorRepository struct {
	GetFunc      func(ctx context.Context, id int64) (*model.Doctor, error)
	GetCallCount int32
}

func (m *MockDoctorRepository) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, errors.New("GetFunc not implemented in mock")
}

type MockPatientRepository struct {
	GetFunc           func(ctx context.Context, id int64) (*model.Patient, error)
	QueryPatientsFunc func(ctx context.Context, q model.PatientQuery) ([]model.PatientVisitRow, int64, error)

	QueryCallCount int32
}

func (m *MockPatientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, errors.New("GetFunc not implemented in mock")
}

func (m *MockPatientRepository) QueryPatients(ctx context.Context, q model.PatientQuery) ([]model.PatientVisitRow, int64, error) {
	atomic.AddInt32(&m.QueryCallCount, 1)
	if m.QueryPatientsFunc != nil {
		return m.QueryPatientsFunc(ctx, q)
	}
	return nil, 0, errors.New("QueryPatientsFunc not implemented in mock")
}

type MockVisitRepository struct {
	CountOverlappingFunc func(ctx context.Context, doctorID int64, start, end time.Time) (int64, error)
	CreateFunc           func(ctx context.Context, visit *model.Visit) error
	WithDoctorLockFunc   func(ctx context.Context, doctorID int64, fn func(ctx context.Context) error) error

	CreateCallCount int32
	LockCallCount   int32
}

func (m *MockVisitRepository) CountOverlapping(ctx context.Context, doctorID int64, start, end time.Time) (int64, error) {
	if m.CountOverlappingFunc != nil {
		return m.CountOverlappingFunc(ctx, doctorID, start, end)
	}
	return 0, nil
}

func (m *MockVisitRepository) Create(ctx context.Context, visit *model.Visit) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, visit)
	}
	visit.ID = 1
	return nil
}

func (m *MockVisitRepository) WithDoctorLock(ctx context.Context, doctorID int64, fn func(ctx context.Context) error) error {
	atomic.AddInt32(&m.LockCallCount, 1)
	if m.WithDoctorLockFunc != nil {
		return m.WithDoctorLockFunc(ctx, doctorID, fn)
	}
	return fn(ctx)
}

// fakeVisitStore is an in-memory visit store with real overlap semantics,
// used for the sequential double-booking scenarios.
type fakeVisitStore struct {
	visits []schedule.Interval
	nextID int64
}

func (f *fakeVisitStore) CountOverlapping(ctx context.Context, doctorID int64, start, end time.Time) (int64, error) {
	candidate := schedule.Interval{Start: start, End: end}
	var count int64
	for _, iv := range f.visits {
		if iv.Overlaps(candidate) {
			count++
		}
	}
	return count, nil
}

func (f *fakeVisitStore) Create(ctx context.Context, visit *model.Visit) error {
	f.nextID++
	visit.ID = f.nextID
	f.visits = append(f.visits, schedule.Interval{Start: visit.StartTime, End: visit.EndTime})
	return nil
}

func (f *fakeVisitStore) WithDoctorLock(ctx context.Context, doctorID int64, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func notFoundErr(entity string, id int64) error {
	return fmt.Errorf("failed to get %s %d: %w", entity, id, sql.ErrNoRows)
}
