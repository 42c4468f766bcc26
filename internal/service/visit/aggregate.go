package visit

import (
	"time"

	apperrors "github.com/meditrack/visit-api/pkg/errors"

	"github.com/meditrack/visit-api/internal/model"
	"github.com/meditrack/visit-api/internal/timeutil"
)

// patientBuilder accumulates one patient's rows before rendering. Builders
// live in first-seen row order, which is the output order.
type patientBuilder struct {
	firstName string
	lastName  string
	visits    []visitEntry
}

type visitEntry struct {
	start         time.Time
	end           time.Time
	doctorFirst   string
	doctorLast    string
	timezone      string
	totalPatients int64
}

// aggregateRows folds the flat query rows into ordered patient builders. The
// first row for a patient fixes its name and output position; each non-nil
// visit appends one entry. Rows already arrive reduced to one per
// (patient, doctor) pair — the latest visit — so no de-duplication happens
// here; a duplicate pair in the input is an upstream contract violation and
// would surface as a duplicated entry.
func aggregateRows(rows []model.PatientVisitRow) []*patientBuilder {
	order := make([]*patientBuilder, 0, len(rows))
	byID := make(map[int64]*patientBuilder, len(rows))

	for _, row := range rows {
		builder, ok := byID[row.PatientID]
		if !ok {
			builder = &patientBuilder{
				firstName: row.PatientFirstName,
				lastName:  row.PatientLastName,
				visits:    []visitEntry{},
			}
			byID[row.PatientID] = builder
			order = append(order, builder)
		}

		if row.VisitID == nil {
			continue
		}

		entry := visitEntry{
			start: *row.VisitStart,
			end:   *row.VisitEnd,
		}
		if row.DoctorFirstName != nil {
			entry.doctorFirst = *row.DoctorFirstName
		}
		if row.DoctorLastName != nil {
			entry.doctorLast = *row.DoctorLastName
		}
		if row.DoctorTimezone != nil {
			entry.timezone = *row.DoctorTimezone
		}
		if row.DoctorPatients != nil {
			entry.totalPatients = *row.DoctorPatients
		}
		builder.visits = append(builder.visits, entry)
	}

	return order
}

// assembleRecords renders builders into the wire shape. Each visit's
// timestamps are formatted in that visit's doctor's timezone, so one
// patient's visits can carry different offsets.
func assembleRecords(builders []*patientBuilder) ([]model.PatientRecord, error) {
	records := make([]model.PatientRecord, 0, len(builders))
	for _, b := range builders {
		visits := make([]model.VisitRecord, 0, len(b.visits))
		for _, v := range b.visits {
			start, err := timeutil.FormatInZone(v.start, v.timezone)
			if err != nil {
				return nil, apperrors.Validation(err.Error())
			}
			end, err := timeutil.FormatInZone(v.end, v.timezone)
			if err != nil {
				return nil, apperrors.Validation(err.Error())
			}
			visits = append(visits, model.VisitRecord{
				Start: start,
				End:   end,
				Doctor: model.DoctorSummary{
					FirstName:     v.doctorFirst,
					LastName:      v.doctorLast,
					TotalPatients: v.totalPatients,
				},
			})
		}
		records = append(records, model.PatientRecord{
			FirstName:  b.firstName,
			LastName:   b.lastName,
			LastVisits: visits,
		})
	}
	return records, nil
}
