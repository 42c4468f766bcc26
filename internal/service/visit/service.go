package visit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/meditrack/visit-api/pkg/errors"
	"github.com/meditrack/visit-api/pkg/logger"
	"github.com/meditrack/visit-api/pkg/metrics"

	"github.com/meditrack/visit-api/internal/model"
	"github.com/meditrack/visit-api/internal/repository"
	"github.com/meditrack/visit-api/internal/schedule"
	"github.com/meditrack/visit-api/internal/timeutil"
)

const (
	DefaultPage = 0
	DefaultSize = 20
)

type Service struct {
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	visits   repository.VisitRepository
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewService(
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	visits repository.VisitRepository,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		doctors:  doctors,
		patients: patients,
		visits:   visits,
		logger:   log,
		metrics:  m,
	}
}

// BookVisit runs the booking workflow: resolve doctor, resolve patient,
// normalize the timestamps into the doctor's timezone, validate the range,
// then conflict-check and insert inside one doctor-locked transaction.
// Entity resolution happens before range validation on purpose: a malformed
// range against a missing doctor reports the missing doctor.
func (s *Service) BookVisit(ctx context.Context, req *model.CreateVisitRequest) error {
	start := time.Now()
	err := s.bookVisit(ctx, req)
	s.metrics.BookingDuration.Observe(time.Since(start).Seconds())
	s.metrics.BookingsTotal.WithLabelValues(bookingOutcome(err)).Inc()
	return err
}

func (s *Service) bookVisit(ctx context.Context, req *model.CreateVisitRequest) error {
	doctor, err := s.doctors.Get(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("doctor")
		}
		return apperrors.Persistence(err)
	}

	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("patient")
		}
		return apperrors.Persistence(err)
	}

	loc, err := timeutil.LoadZone(doctor.Timezone)
	if err != nil {
		return apperrors.Validation(err.Error())
	}

	startTime, err := timeutil.ParseInZone(req.Start, loc)
	if err != nil {
		return apperrors.Validation(err.Error())
	}
	endTime, err := timeutil.ParseInZone(req.End, loc)
	if err != nil {
		return apperrors.Validation(err.Error())
	}

	interval := schedule.Interval{Start: startTime, End: endTime}
	if !interval.Valid() {
		return apperrors.Validation("start time must be before end time")
	}

	err = s.visits.WithDoctorLock(ctx, doctor.ID, func(ctx context.Context) error {
		overlapping, err := s.visits.CountOverlapping(ctx, doctor.ID, startTime, endTime)
		if err != nil {
			return apperrors.Persistence(err)
		}
		if overlapping > 0 {
			s.metrics.ConflictsTotal.Inc()
			return apperrors.Conflict("doctor already has a visit scheduled at this time")
		}

		v := &model.Visit{
			DoctorID:  doctor.ID,
			PatientID: patient.ID,
			StartTime: startTime,
			EndTime:   endTime,
		}
		if err := s.visits.Create(ctx, v); err != nil {
			if appErr, ok := apperrors.From(err); ok && appErr.Code == apperrors.CodeConflict {
				s.metrics.ConflictsTotal.Inc()
				return appErr
			}
			return apperrors.Persistence(err)
		}

		s.logger.Info("visit booked", "visit_id", v.ID, "doctor_id", doctor.ID, "patient_id", patient.ID)
		return nil
	})
	if err != nil {
		if _, ok := apperrors.From(err); ok {
			return err
		}
		return apperrors.Persistence(err)
	}
	return nil
}

// ListPatients plans the aggregation query from raw parameters, executes it
// and folds the flat rows into the nested response.
func (s *Service) ListPatients(ctx context.Context, params model.PatientListParams) (*model.PatientsListResponse, error) {
	start := time.Now()
	defer func() {
		s.metrics.PatientQueryDuration.Observe(time.Since(start).Seconds())
	}()

	query, err := planQuery(params)
	if err != nil {
		return nil, err
	}

	rows, total, err := s.patients.QueryPatients(ctx, query)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	s.metrics.PatientRowsFetched.Observe(float64(len(rows)))

	records, err := assembleRecords(aggregateRows(rows))
	if err != nil {
		return nil, err
	}

	return &model.PatientsListResponse{
		Data:  records,
		Count: total,
	}, nil
}

// planQuery applies pagination defaults and rejects out-of-range values.
// page defaults to 0 and must be >= 0; size defaults to 20 and must be >= 1.
func planQuery(params model.PatientListParams) (model.PatientQuery, error) {
	page := DefaultPage
	if params.Page != nil {
		page = *params.Page
	}
	size := DefaultSize
	if params.Size != nil {
		size = *params.Size
	}

	if page < 0 {
		return model.PatientQuery{}, apperrors.Validation(fmt.Sprintf("page must not be negative, got %d", page))
	}
	if size < 1 {
		return model.PatientQuery{}, apperrors.Validation(fmt.Sprintf("size must be at least 1, got %d", size))
	}

	return model.PatientQuery{
		Page:      page,
		Size:      size,
		Search:    params.Search,
		DoctorIDs: params.DoctorIDs,
	}, nil
}

func bookingOutcome(err error) string {
	if err == nil {
		return "success"
	}
	if appErr, ok := apperrors.From(err); ok {
		switch appErr.Code {
		case apperrors.CodeConflict:
			return "conflict"
		case apperrors.CodeNotFound:
			return "not_found"
		case apperrors.CodeValidation:
			return "invalid"
		}
	}
	return "error"
}
