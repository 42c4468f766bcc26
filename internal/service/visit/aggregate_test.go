package visit

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/meditrack/visit-api/pkg/errors"

	"github.com/meditrack/visit-api/internal/model"
)

func ptr[T any](v T) *T { return &v }

func row(patientID int64, first, last string) model.PatientVisitRow {
	return model.PatientVisitRow{
		PatientID:        patientID,
		PatientFirstName: first,
		PatientLastName:  last,
	}
}

func visitRow(patientID int64, first, last string, visitID, doctorID int64, start, end time.Time, docFirst, docLast, zone string, patients int64) model.PatientVisitRow {
	r := row(patientID, first, last)
	r.VisitID = ptr(visitID)
	r.VisitStart = ptr(start)
	r.VisitEnd = ptr(end)
	r.DoctorID = ptr(doctorID)
	r.DoctorFirstName = ptr(docFirst)
	r.DoctorLastName = ptr(docLast)
	r.DoctorTimezone = ptr(zone)
	r.DoctorPatients = ptr(patients)
	return r
}

func TestAggregateRowsGroupsByPatientInRowOrder(t *testing.T) {
	jun := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	rows := []model.PatientVisitRow{
		visitRow(7, "Jane", "Doe", 1, 1, jun, jun.Add(time.Hour), "Gregory", "House", "America/New_York", 12),
		visitRow(7, "Jane", "Doe", 2, 2, jun.Add(2*time.Hour), jun.Add(3*time.Hour), "James", "Wilson", "Europe/London", 4),
		visitRow(9, "Michael", "Brown", 3, 1, jun, jun.Add(time.Hour), "Gregory", "House", "America/New_York", 12),
	}

	builders := aggregateRows(rows)
	require.Len(t, builders, 2)

	assert.Equal(t, "Jane", builders[0].firstName)
	require.Len(t, builders[0].visits, 2)
	assert.Equal(t, "House", builders[0].visits[0].doctorLast)
	assert.Equal(t, "Wilson", builders[0].visits[1].doctorLast)

	assert.Equal(t, "Michael", builders[1].firstName)
	require.Len(t, builders[1].visits, 1)
}

func TestAggregateRowsPatientWithoutVisits(t *testing.T) {
	builders := aggregateRows([]model.PatientVisitRow{row(5, "Ada", "Lovelace")})
	require.Len(t, builders, 1)
	assert.Equal(t, "Ada", builders[0].firstName)
	assert.NotNil(t, builders[0].visits)
	assert.Empty(t, builders[0].visits)
}

func TestAggregateRowsEmptyInput(t *testing.T) {
	builders := aggregateRows(nil)
	assert.NotNil(t, builders)
	assert.Empty(t, builders)
}

func TestAssembleRecordsFormatsInVisitDoctorZone(t *testing.T) {
	// One patient, two doctors in different zones: each visit renders with
	// its own doctor's offset.
	instant := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	rows := []model.PatientVisitRow{
		visitRow(7, "Jane", "Doe", 1, 1, instant, instant.Add(time.Hour), "Gregory", "House", "America/New_York", 12),
		visitRow(7, "Jane", "Doe", 2, 2, instant, instant.Add(time.Hour), "Hana", "Sato", "Asia/Tokyo", 4),
	}

	records, err := assembleRecords(aggregateRows(rows))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, records[0].LastVisits, 2)

	assert.Equal(t, "2024-06-01T10:00:00-04:00", records[0].LastVisits[0].Start)
	assert.Equal(t, "2024-06-01T11:00:00-04:00", records[0].LastVisits[0].End)
	assert.Equal(t, "2024-06-01T23:00:00+09:00", records[0].LastVisits[1].Start)

	assert.Equal(t, int64(12), records[0].LastVisits[0].Doctor.TotalPatients)
	assert.Equal(t, int64(4), records[0].LastVisits[1].Doctor.TotalPatients)
}

func TestAssembleRecordsDSTOffsets(t *testing.T) {
	winter := time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)
	summer := time.Date(2024, 6, 15, 16, 0, 0, 0, time.UTC)
	rows := []model.PatientVisitRow{
		visitRow(7, "Jane", "Doe", 1, 1, winter, winter.Add(time.Hour), "Gregory", "House", "America/New_York", 12),
		visitRow(7, "Jane", "Doe", 2, 2, summer, summer.Add(time.Hour), "James", "Wilson", "America/New_York", 4),
	}

	records, err := assembleRecords(aggregateRows(rows))
	require.NoError(t, err)
	require.Len(t, records[0].LastVisits, 2)

	assert.True(t, strings.HasSuffix(records[0].LastVisits[0].Start, "-05:00"))
	assert.True(t, strings.HasSuffix(records[0].LastVisits[1].Start, "-04:00"))
}

func TestAssembleRecordsEmptyVisitListStaysEmpty(t *testing.T) {
	records, err := assembleRecords(aggregateRows([]model.PatientVisitRow{row(5, "Ada", "Lovelace")}))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotNil(t, records[0].LastVisits)
	assert.Empty(t, records[0].LastVisits)
}

func TestAssembleRecordsUnknownZone(t *testing.T) {
	instant := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	rows := []model.PatientVisitRow{
		visitRow(7, "Jane", "Doe", 1, 1, instant, instant.Add(time.Hour), "Gregory", "House", "Bad/Zone", 12),
	}

	_, err := assembleRecords(aggregateRows(rows))
	appErr, ok := apperrors.From(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}
