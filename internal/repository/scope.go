package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// tenantCondition constrains column to clinicID. An empty clinicID spans every tenant.
func tenantCondition(column, clinicID string, args []interface{}) (string, []interface{}) {
	if clinicID == "" {
		return "1=1", args
	}
	args = append(args, clinicID)
	return fmt.Sprintf("%s = $%d", column, len(args)), args
}

// ensureAffected maps a zero-row UPDATE or DELETE onto sql.ErrNoRows.
func ensureAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func stampCreate(created, updated **time.Time) {
	now := time.Now().UTC()
	if *created == nil || (*created).IsZero() {
		*created = &now
	}
	*updated = &now
}

func stampUpdate(updated **time.Time) {
	now := time.Now().UTC()
	*updated = &now
}

const (
	clinicJoinColumns  = `c.id AS clinic_ref_id, c.name AS clinic_ref_name, c.city AS clinic_ref_city`
	patientJoinColumns = `p.id AS patient_ref_id, p.full_name AS patient_ref_name, p.patient_code AS patient_ref_code`
	doctorJoinColumns  = `d.id AS doctor_ref_id, d.full_name AS doctor_ref_name, d.specialization AS doctor_ref_specialization`
)

var (
	clinicJoinNames  = []string{"clinic_ref_id", "clinic_ref_name", "clinic_ref_city"}
	patientJoinNames = []string{"patient_ref_id", "patient_ref_name", "patient_ref_code"}
	doctorJoinNames  = []string{"doctor_ref_id", "doctor_ref_name", "doctor_ref_specialization"}
)

// clinicJoin holds the LEFT JOINed clinic columns; all are NULL when the clinic row is gone.
type clinicJoin struct {
	ClinicRefID   sql.NullString `db:"clinic_ref_id"`
	ClinicRefName sql.NullString `db:"clinic_ref_name"`
	ClinicRefCity sql.NullString `db:"clinic_ref_city"`
}

func (j clinicJoin) ref() *models.ClinicRef {
	if !j.ClinicRefID.Valid {
		return nil
	}
	return &models.ClinicRef{ID: j.ClinicRefID.String, Name: j.ClinicRefName.String, City: j.ClinicRefCity.String}
}

type patientJoin struct {
	PatientRefID   sql.NullString `db:"patient_ref_id"`
	PatientRefName sql.NullString `db:"patient_ref_name"`
	PatientRefCode sql.NullString `db:"patient_ref_code"`
}

func (j patientJoin) ref() *models.PatientRef {
	if !j.PatientRefID.Valid {
		return nil
	}
	return &models.PatientRef{ID: j.PatientRefID.String, FullName: j.PatientRefName.String, PatientCode: j.PatientRefCode.String}
}

type doctorJoin struct {
	DoctorRefID             sql.NullString `db:"doctor_ref_id"`
	DoctorRefName           sql.NullString `db:"doctor_ref_name"`
	DoctorRefSpecialization sql.NullString `db:"doctor_ref_specialization"`
}

func (j doctorJoin) ref() *models.DoctorRef {
	if !j.DoctorRefID.Valid {
		return nil
	}
	return &models.DoctorRef{ID: j.DoctorRefID.String, FullName: j.DoctorRefName.String, Specialization: j.DoctorRefSpecialization.String}
}
