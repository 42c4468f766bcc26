package model

import "time"

// Visit is immutable once created: there is no update or cancel operation.
// StartTime and EndTime are absolute instants; the doctor's timezone only
// matters when parsing input and rendering output.
type Visit struct {
	ID        int64     `db:"id" json:"id"`
	DoctorID  int64     `db:"doctor_id" json:"doctor_id"`
	PatientID int64     `db:"patient_id" json:"patient_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateVisitRequest is the POST /visits body. Start and End are ISO-8601
// timestamps with a UTC offset; they are reinterpreted in the doctor's
// timezone before validation.
type CreateVisitRequest struct {
	Start     string `json:"start" binding:"required"`
	End       string `json:"end" binding:"required"`
	PatientID int64  `json:"patientId" binding:"required"`
	DoctorID  int64  `json:"doctorId" binding:"required"`
}
