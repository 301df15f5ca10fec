package models

import "time"

// Clinic status literals.
const (
	ClinicStatusActive   = "active"
	ClinicStatusInactive = "inactive"
)

// Clinic subscription plans.
const (
	ClinicPlanBasic      = "basic"
	ClinicPlanStandard   = "standard"
	ClinicPlanPremium    = "premium"
	ClinicPlanEnterprise = "enterprise"
)

// Clinic is a tenant of the platform.
type Clinic struct {
	ID        string     `db:"id" json:"id"`
	Code      string     `db:"code" json:"code"`
	Name      string     `db:"name" json:"name"`
	Email     string     `db:"email" json:"email"`
	Phone     string     `db:"phone" json:"phone"`
	Address   string     `db:"address" json:"address"`
	City      string     `db:"city" json:"city"`
	State     string     `db:"state" json:"state"`
	Plan      string     `db:"plan" json:"plan"`
	Status    string     `db:"status" json:"status"`
	CreatedAt *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
