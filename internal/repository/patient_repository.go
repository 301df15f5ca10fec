package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

const patientSelect = `SELECT pt.id, pt.clinic_id, pt.clinic_name, pt.patient_code, pt.full_name, pt.gender, pt.date_of_birth, pt.blood_group,
        pt.phone, pt.email, pt.address, pt.city, pt.status, pt.created_at, pt.updated_at, ` + clinicJoinColumns + `
        FROM patients pt LEFT JOIN clinics c ON c.id = pt.clinic_id`

type patientRow struct {
	models.Patient
	clinicJoin
}

func (r patientRow) model() models.Patient {
	p := r.Patient
	p.Clinic = r.clinicJoin.ref()
	return p
}

// PatientRepository manages persistence for patients.
type PatientRepository struct {
	db *sqlx.DB
}

// NewPatientRepository constructs a PatientRepository.
func NewPatientRepository(db *sqlx.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

// List returns the full patient collection of a clinic, or of every clinic when clinicID is empty.
func (r *PatientRepository) List(ctx context.Context, clinicID string) ([]models.Patient, error) {
	cond, args := tenantCondition("pt.clinic_id", clinicID, nil)
	query := fmt.Sprintf("%s WHERE %s ORDER BY pt.created_at DESC", patientSelect, cond)

	var rows []patientRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	patients := make([]models.Patient, 0, len(rows))
	for _, row := range rows {
		patients = append(patients, row.model())
	}
	return patients, nil
}

// FindByID fetches a patient by ID.
func (r *PatientRepository) FindByID(ctx context.Context, id string) (*models.Patient, error) {
	var row patientRow
	if err := r.db.GetContext(ctx, &row, patientSelect+" WHERE pt.id = $1", id); err != nil {
		return nil, err
	}
	patient := row.model()
	return &patient, nil
}

// Create inserts a patient. The clinic name is snapshotted from the clinics table.
func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if patient.ID == "" {
		patient.ID = uuid.NewString()
	}
	stampCreate(&patient.CreatedAt, &patient.UpdatedAt)
	const query = `INSERT INTO patients (id, clinic_id, clinic_name, patient_code, full_name, gender, date_of_birth, blood_group, phone, email, address, city, status, created_at, updated_at)
        VALUES (:id, :clinic_id, COALESCE((SELECT name FROM clinics WHERE id = :clinic_id), ''), :patient_code, :full_name, :gender, :date_of_birth, :blood_group, :phone, :email, :address, :city, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, patient); err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	return nil
}

// Update modifies an existing patient.
func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	stampUpdate(&patient.UpdatedAt)
	const query = `UPDATE patients SET patient_code = :patient_code, full_name = :full_name, gender = :gender, date_of_birth = :date_of_birth, blood_group = :blood_group,
        phone = :phone, email = :email, address = :address, city = :city, status = :status, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, patient)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	return ensureAffected(res, "update patient")
}

// Delete removes a patient.
func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	return ensureAffected(res, "delete patient")
}
