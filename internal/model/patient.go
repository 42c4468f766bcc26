package model

import "time"

// Patient is reference data, same lifecycle as Doctor.
type Patient struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// PatientListParams carries the raw query parameters of GET /patients.
// Page and Size are nil when the caller omitted them.
type PatientListParams struct {
	Page      *int
	Size      *int
	Search    string
	DoctorIDs []int64
}

// PatientQuery is the validated query the repository executes: defaults
// applied, pagination bounds checked.
type PatientQuery struct {
	Page      int
	Size      int
	Search    string
	DoctorIDs []int64
}

func (q PatientQuery) Offset() int {
	return q.Page * q.Size
}

// PatientVisitRow is one flat row of the patient aggregation query: a patient
// joined with at most one visit (the latest per doctor), that visit's doctor
// and the doctor's total distinct-patient count. Visit columns are nil for
// patients with no visits.
type PatientVisitRow struct {
	PatientID        int64      `db:"patient_id"`
	PatientFirstName string     `db:"patient_first_name"`
	PatientLastName  string     `db:"patient_last_name"`
	VisitID          *int64     `db:"visit_id"`
	VisitStart       *time.Time `db:"visit_start"`
	VisitEnd         *time.Time `db:"visit_end"`
	DoctorID         *int64     `db:"doctor_id"`
	DoctorFirstName  *string    `db:"doctor_first_name"`
	DoctorLastName   *string    `db:"doctor_last_name"`
	DoctorTimezone   *string    `db:"doctor_timezone"`
	DoctorPatients   *int64     `db:"doctor_patient_count"`
}

// DoctorSummary is the doctor block embedded in each rendered visit.
// TotalPatients counts the doctor's distinct patients over all visits,
// independent of any request filter.
type DoctorSummary struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	TotalPatients int64  `json:"totalPatients"`
}

// VisitRecord is a rendered visit: start/end formatted in the owning doctor's
// timezone with the offset in effect at that instant.
type VisitRecord struct {
	Start  string        `json:"start"`
	End    string        `json:"end"`
	Doctor DoctorSummary `json:"doctor"`
}

// PatientRecord is one patient with their latest visit per distinct doctor,
// in query row order. LastVisits is empty, never nil, for patients with
// no visits.
type PatientRecord struct {
	FirstName  string        `json:"firstName"`
	LastName   string        `json:"lastName"`
	LastVisits []VisitRecord `json:"lastVisits"`
}

// PatientsListResponse is the GET /patients wire shape. Count is the total
// number of matching patients under the request filters, not the page size.
type PatientsListResponse struct {
	Data  []PatientRecord `json:"data"`
	Count int64           `json:"count"`
}
