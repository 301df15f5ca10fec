package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

const referralSelect = `SELECT r.id, r.referral_code, r.clinic_id, r.patient_id, r.patient_name, r.referring_doctor_id, r.referring_doctor_name,
        r.referred_to, r.specialty, r.reason, r.priority, r.status, r.referral_date, r.created_at, r.updated_at,
        ` + patientJoinColumns + `, ` + doctorJoinColumns + `
        FROM referrals r
        LEFT JOIN patients p ON p.id = r.patient_id
        LEFT JOIN doctors d ON d.id = r.referring_doctor_id`

type referralRow struct {
	models.Referral
	patientJoin
	doctorJoin
}

func (r referralRow) model() models.Referral {
	ref := r.Referral
	ref.Patient = r.patientJoin.ref()
	ref.ReferringDoctor = r.doctorJoin.ref()
	return ref
}

// ReferralRepository manages persistence for outbound referrals.
type ReferralRepository struct {
	db *sqlx.DB
}

// NewReferralRepository constructs a ReferralRepository.
func NewReferralRepository(db *sqlx.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// List returns the full referral collection for clinicID (all clinics when empty).
func (r *ReferralRepository) List(ctx context.Context, clinicID string) ([]models.Referral, error) {
	cond, args := tenantCondition("r.clinic_id", clinicID, nil)
	var rows []referralRow
	if err := r.db.SelectContext(ctx, &rows, fmt.Sprintf("%s WHERE %s ORDER BY r.created_at DESC", referralSelect, cond), args...); err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	referrals := make([]models.Referral, 0, len(rows))
	for _, row := range rows {
		referrals = append(referrals, row.model())
	}
	return referrals, nil
}

// FindByID fetches a referral by ID.
func (r *ReferralRepository) FindByID(ctx context.Context, id string) (*models.Referral, error) {
	var row referralRow
	if err := r.db.GetContext(ctx, &row, referralSelect+" WHERE r.id = $1", id); err != nil {
		return nil, err
	}
	referral := row.model()
	return &referral, nil
}

// Create inserts a referral.
func (r *ReferralRepository) Create(ctx context.Context, referral *models.Referral) error {
	if referral.ID == "" {
		referral.ID = uuid.NewString()
	}
	stampCreate(&referral.CreatedAt, &referral.UpdatedAt)
	const query = `INSERT INTO referrals (id, referral_code, clinic_id, patient_id, patient_name, referring_doctor_id, referring_doctor_name,
        referred_to, specialty, reason, priority, status, referral_date, created_at, updated_at)
        VALUES (:id, :referral_code, :clinic_id, :patient_id, COALESCE((SELECT full_name FROM patients WHERE id = :patient_id), ''),
        :referring_doctor_id, COALESCE((SELECT full_name FROM doctors WHERE id = :referring_doctor_id), ''),
        :referred_to, :specialty, :reason, :priority, :status, :referral_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, referral); err != nil {
		return fmt.Errorf("create referral: %w", err)
	}
	return nil
}

// Update modifies an existing referral.
func (r *ReferralRepository) Update(ctx context.Context, referral *models.Referral) error {
	stampUpdate(&referral.UpdatedAt)
	const query = `UPDATE referrals SET referred_to = :referred_to, specialty = :specialty, reason = :reason, priority = :priority,
        status = :status, referral_date = :referral_date, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, referral)
	if err != nil {
		return fmt.Errorf("update referral: %w", err)
	}
	return ensureAffected(res, "update referral")
}

// Delete removes a referral.
func (r *ReferralRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM referrals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete referral: %w", err)
	}
	return ensureAffected(res, "delete referral")
}
