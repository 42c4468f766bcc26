package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/meditrack/visit-api/internal/model"
)

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	query := `
		SELECT id, first_name, last_name
		FROM patients
		WHERE id = $1
	`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, fmt.Errorf("failed to get patient %d: %w", id, err)
	}
	return &patient, nil
}

// Shared column list of both aggregation query shapes. The lateral DISTINCT ON
// join reduces each patient's visits to at most one row per doctor, the most
// recent one. The patient count lateral counts the doctor's distinct patients
// over all visits, unaffected by the request filters.
const patientRowColumns = `
	SELECT p.id AS patient_id,
	       p.first_name AS patient_first_name,
	       p.last_name AS patient_last_name,
	       v.id AS visit_id,
	       v.start_time AS visit_start,
	       v.end_time AS visit_end,
	       d.id AS doctor_id,
	       d.first_name AS doctor_first_name,
	       d.last_name AS doctor_last_name,
	       d.timezone AS doctor_timezone,
	       dc.patient_count AS doctor_patient_count
`

const patientRowJoins = `
	LEFT JOIN LATERAL (
		SELECT DISTINCT ON (doctor_id) id, doctor_id, start_time, end_time
		FROM visits
		WHERE patient_id = p.id
		ORDER BY doctor_id, start_time DESC
	) v ON TRUE
	LEFT JOIN doctors d ON d.id = v.doctor_id
	LEFT JOIN LATERAL (
		SELECT COUNT(DISTINCT patient_id) AS patient_count
		FROM visits
		WHERE doctor_id = d.id
	) dc ON d.id IS NOT NULL
	ORDER BY p.id, v.doctor_id
`

const searchPredicate = `($1 = '' OR lower(first_name || ' ' || last_name) LIKE '%' || lower($1) || '%')`

const queryPatientsAll = patientRowColumns + `
	FROM (
		SELECT id, first_name, last_name
		FROM patients
		WHERE ` + searchPredicate + `
		ORDER BY id
		LIMIT $2 OFFSET $3
	) p
` + patientRowJoins

const countPatientsAll = `
	SELECT COUNT(*)
	FROM patients
	WHERE ` + searchPredicate + `
`

const queryPatientsByDoctors = patientRowColumns + `
	FROM (
		SELECT DISTINCT pt.id, pt.first_name, pt.last_name
		FROM patients pt
		JOIN visits vf ON vf.patient_id = pt.id
		WHERE vf.doctor_id = ANY($4)
		  AND ($1 = '' OR lower(pt.first_name || ' ' || pt.last_name) LIKE '%' || lower($1) || '%')
		ORDER BY pt.id
		LIMIT $2 OFFSET $3
	) p
` + patientRowJoins

const countPatientsByDoctors = `
	SELECT COUNT(DISTINCT pt.id)
	FROM patients pt
	JOIN visits vf ON vf.patient_id = pt.id
	WHERE vf.doctor_id = ANY($2)
	  AND ($1 = '' OR lower(pt.first_name || ' ' || pt.last_name) LIKE '%' || lower($1) || '%')
`

// QueryPatients executes one of two query shapes depending on whether a
// doctor filter is present. Both produce identical logical rows for the same
// filters; the split only avoids the visits join when no filter applies. The
// total is counted under the same filters, independent of pagination.
func (r *patientRepository) QueryPatients(ctx context.Context, q model.PatientQuery) ([]model.PatientVisitRow, int64, error) {
	var (
		total int64
		rows  []model.PatientVisitRow
	)

	if len(q.DoctorIDs) == 0 {
		if err := r.db.GetContext(ctx, &total, countPatientsAll, q.Search); err != nil {
			return nil, 0, fmt.Errorf("failed to count patients: %w", err)
		}
		if err := r.db.SelectContext(ctx, &rows, queryPatientsAll, q.Search, q.Size, q.Offset()); err != nil {
			return nil, 0, fmt.Errorf("failed to query patients: %w", err)
		}
		return rows, total, nil
	}

	doctorIDs := pq.Array(q.DoctorIDs)
	if err := r.db.GetContext(ctx, &total, countPatientsByDoctors, q.Search, doctorIDs); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients by doctors: %w", err)
	}
	if err := r.db.SelectContext(ctx, &rows, queryPatientsByDoctors, q.Search, q.Size, q.Offset(), doctorIDs); err != nil {
		return nil, 0, fmt.Errorf("failed to query patients by doctors: %w", err)
	}
	return rows, total, nil
}
