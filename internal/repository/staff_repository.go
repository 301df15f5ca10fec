package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

const doctorSelect = `SELECT s.id, s.clinic_id, s.clinic_name, s.doctor_code, s.full_name, s.specialization, s.qualification, s.experience_years,
        s.email, s.phone, s.status, s.created_at, s.updated_at, ` + clinicJoinColumns + `
        FROM doctors s LEFT JOIN clinics c ON c.id = s.clinic_id`

const nurseSelect = `SELECT s.id, s.clinic_id, s.clinic_name, s.nurse_code, s.full_name, s.department, s.shift,
        s.email, s.phone, s.status, s.created_at, s.updated_at, ` + clinicJoinColumns + `
        FROM nurses s LEFT JOIN clinics c ON c.id = s.clinic_id`

type doctorRow struct {
	models.Doctor
	clinicJoin
}

func (r doctorRow) model() models.Doctor {
	d := r.Doctor
	d.Clinic = r.clinicJoin.ref()
	return d
}

type nurseRow struct {
	models.Nurse
	clinicJoin
}

func (r nurseRow) model() models.Nurse {
	n := r.Nurse
	n.Clinic = r.clinicJoin.ref()
	return n
}

// DoctorRepository manages persistence for doctors.
type DoctorRepository struct {
	db *sqlx.DB
}

// NewDoctorRepository constructs a DoctorRepository.
func NewDoctorRepository(db *sqlx.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

// List returns the full doctor collection for clinicID (all clinics when empty).
func (r *DoctorRepository) List(ctx context.Context, clinicID string) ([]models.Doctor, error) {
	cond, args := tenantCondition("s.clinic_id", clinicID, nil)
	var rows []doctorRow
	if err := r.db.SelectContext(ctx, &rows, fmt.Sprintf("%s WHERE %s ORDER BY s.created_at DESC", doctorSelect, cond), args...); err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	doctors := make([]models.Doctor, 0, len(rows))
	for _, row := range rows {
		doctors = append(doctors, row.model())
	}
	return doctors, nil
}

// FindByID fetches a doctor by ID.
func (r *DoctorRepository) FindByID(ctx context.Context, id string) (*models.Doctor, error) {
	var row doctorRow
	if err := r.db.GetContext(ctx, &row, doctorSelect+" WHERE s.id = $1", id); err != nil {
		return nil, err
	}
	doctor := row.model()
	return &doctor, nil
}

// Create inserts a doctor.
func (r *DoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	if doctor.ID == "" {
		doctor.ID = uuid.NewString()
	}
	stampCreate(&doctor.CreatedAt, &doctor.UpdatedAt)
	const query = `INSERT INTO doctors (id, clinic_id, clinic_name, doctor_code, full_name, specialization, qualification, experience_years, email, phone, status, created_at, updated_at)
        VALUES (:id, :clinic_id, COALESCE((SELECT name FROM clinics WHERE id = :clinic_id), ''), :doctor_code, :full_name, :specialization, :qualification, :experience_years, :email, :phone, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, doctor); err != nil {
		return fmt.Errorf("create doctor: %w", err)
	}
	return nil
}

// Update modifies an existing doctor.
func (r *DoctorRepository) Update(ctx context.Context, doctor *models.Doctor) error {
	stampUpdate(&doctor.UpdatedAt)
	const query = `UPDATE doctors SET doctor_code = :doctor_code, full_name = :full_name, specialization = :specialization, qualification = :qualification,
        experience_years = :experience_years, email = :email, phone = :phone, status = :status, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, doctor)
	if err != nil {
		return fmt.Errorf("update doctor: %w", err)
	}
	return ensureAffected(res, "update doctor")
}

// Delete removes a doctor.
func (r *DoctorRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	return ensureAffected(res, "delete doctor")
}

// NurseRepository manages persistence for nurses.
type NurseRepository struct {
	db *sqlx.DB
}

// NewNurseRepository constructs a NurseRepository.
func NewNurseRepository(db *sqlx.DB) *NurseRepository {
	return &NurseRepository{db: db}
}

// List returns the full nurse collection for clinicID (all clinics when empty).
func (r *NurseRepository) List(ctx context.Context, clinicID string) ([]models.Nurse, error) {
	cond, args := tenantCondition("s.clinic_id", clinicID, nil)
	var rows []nurseRow
	if err := r.db.SelectContext(ctx, &rows, fmt.Sprintf("%s WHERE %s ORDER BY s.created_at DESC", nurseSelect, cond), args...); err != nil {
		return nil, fmt.Errorf("list nurses: %w", err)
	}
	nurses := make([]models.Nurse, 0, len(rows))
	for _, row := range rows {
		nurses = append(nurses, row.model())
	}
	return nurses, nil
}

// FindByID fetches a nurse by ID.
func (r *NurseRepository) FindByID(ctx context.Context, id string) (*models.Nurse, error) {
	var row nurseRow
	if err := r.db.GetContext(ctx, &row, nurseSelect+" WHERE s.id = $1", id); err != nil {
		return nil, err
	}
	nurse := row.model()
	return &nurse, nil
}

// Create inserts a nurse.
func (r *NurseRepository) Create(ctx context.Context, nurse *models.Nurse) error {
	if nurse.ID == "" {
		nurse.ID = uuid.NewString()
	}
	stampCreate(&nurse.CreatedAt, &nurse.UpdatedAt)
	const query = `INSERT INTO nurses (id, clinic_id, clinic_name, nurse_code, full_name, department, shift, email, phone, status, created_at, updated_at)
        VALUES (:id, :clinic_id, COALESCE((SELECT name FROM clinics WHERE id = :clinic_id), ''), :nurse_code, :full_name, :department, :shift, :email, :phone, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, nurse); err != nil {
		return fmt.Errorf("create nurse: %w", err)
	}
	return nil
}

// Update modifies an existing nurse.
func (r *NurseRepository) Update(ctx context.Context, nurse *models.Nurse) error {
	stampUpdate(&nurse.UpdatedAt)
	const query = `UPDATE nurses SET nurse_code = :nurse_code, full_name = :full_name, department = :department, shift = :shift,
        email = :email, phone = :phone, status = :status, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, nurse)
	if err != nil {
		return fmt.Errorf("update nurse: %w", err)
	}
	return ensureAffected(res, "update nurse")
}

// Delete removes a nurse.
func (r *NurseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM nurses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete nurse: %w", err)
	}
	return ensureAffected(res, "delete nurse")
}
