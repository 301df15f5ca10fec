package models

import "time"

// Patient status literals.
const (
	PatientStatusActive   = "Active"
	PatientStatusInactive = "Inactive"
)

// Patient is a person registered with a clinic.
type Patient struct {
	ID          string     `db:"id" json:"id"`
	ClinicID    string     `db:"clinic_id" json:"clinic_id"`
	Clinic      *ClinicRef `db:"-" json:"clinic,omitempty"`
	ClinicName  string     `db:"clinic_name" json:"clinic_name,omitempty"`
	PatientCode string     `db:"patient_code" json:"patient_code"`
	FullName    string     `db:"full_name" json:"full_name"`
	Gender      string     `db:"gender" json:"gender"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	BloodGroup  string     `db:"blood_group" json:"blood_group"`
	Phone       string     `db:"phone" json:"phone"`
	Email       string     `db:"email" json:"email"`
	Address     string     `db:"address" json:"address"`
	City        string     `db:"city" json:"city"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// ClinicDisplayName prefers the joined clinic over the stored name.
func (p Patient) ClinicDisplayName() string { return clinicName(p.Clinic, p.ClinicName) }
