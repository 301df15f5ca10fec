package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

const clinicColumns = `id, code, name, email, phone, address, city, state, plan, status, created_at, updated_at`

// ClinicRepository manages persistence for tenant clinics.
type ClinicRepository struct {
	db *sqlx.DB
}

// NewClinicRepository constructs a ClinicRepository.
func NewClinicRepository(db *sqlx.DB) *ClinicRepository {
	return &ClinicRepository{db: db}
}

// List returns every clinic visible to clinicID. An empty clinicID returns all clinics.
func (r *ClinicRepository) List(ctx context.Context, clinicID string) ([]models.Clinic, error) {
	cond, args := tenantCondition("id", clinicID, nil)
	query := fmt.Sprintf("SELECT %s FROM clinics WHERE %s ORDER BY created_at DESC", clinicColumns, cond)

	var clinics []models.Clinic
	if err := r.db.SelectContext(ctx, &clinics, query, args...); err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	return clinics, nil
}

// FindByID fetches a clinic by ID.
func (r *ClinicRepository) FindByID(ctx context.Context, id string) (*models.Clinic, error) {
	query := fmt.Sprintf("SELECT %s FROM clinics WHERE id = $1", clinicColumns)
	var clinic models.Clinic
	if err := r.db.GetContext(ctx, &clinic, query, id); err != nil {
		return nil, err
	}
	return &clinic, nil
}

// Create inserts a new clinic.
func (r *ClinicRepository) Create(ctx context.Context, clinic *models.Clinic) error {
	if clinic.ID == "" {
		clinic.ID = uuid.NewString()
	}
	stampCreate(&clinic.CreatedAt, &clinic.UpdatedAt)
	const query = `INSERT INTO clinics (id, code, name, email, phone, address, city, state, plan, status, created_at, updated_at)
        VALUES (:id, :code, :name, :email, :phone, :address, :city, :state, :plan, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, clinic); err != nil {
		return fmt.Errorf("create clinic: %w", err)
	}
	return nil
}

// Update modifies an existing clinic.
func (r *ClinicRepository) Update(ctx context.Context, clinic *models.Clinic) error {
	stampUpdate(&clinic.UpdatedAt)
	const query = `UPDATE clinics SET code = :code, name = :name, email = :email, phone = :phone, address = :address, city = :city, state = :state, plan = :plan, status = :status, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, clinic)
	if err != nil {
		return fmt.Errorf("update clinic: %w", err)
	}
	return ensureAffected(res, "update clinic")
}

// Delete removes a clinic.
func (r *ClinicRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clinics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete clinic: %w", err)
	}
	return ensureAffected(res, "delete clinic")
}
