package models

import "time"

// Staff status literals shared by doctors and nurses.
const (
	StaffStatusActive   = "Active"
	StaffStatusInactive = "Inactive"
	StaffStatusOnLeave  = "On Leave"
)

// Nurse shifts.
const (
	ShiftMorning = "Morning"
	ShiftEvening = "Evening"
	ShiftNight   = "Night"
)

// Doctor is a physician attached to a clinic.
type Doctor struct {
	ID              string     `db:"id" json:"id"`
	ClinicID        string     `db:"clinic_id" json:"clinic_id"`
	Clinic          *ClinicRef `db:"-" json:"clinic,omitempty"`
	ClinicName      string     `db:"clinic_name" json:"clinic_name,omitempty"`
	DoctorCode      string     `db:"doctor_code" json:"doctor_code"`
	FullName        string     `db:"full_name" json:"full_name"`
	Specialization  string     `db:"specialization" json:"specialization"`
	Qualification   string     `db:"qualification" json:"qualification"`
	ExperienceYears int        `db:"experience_years" json:"experience_years"`
	Email           string     `db:"email" json:"email"`
	Phone           string     `db:"phone" json:"phone"`
	Status          string     `db:"status" json:"status"`
	CreatedAt       *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// ClinicDisplayName prefers the joined clinic over the stored name.
func (d Doctor) ClinicDisplayName() string { return clinicName(d.Clinic, d.ClinicName) }

// Nurse is a nursing staff member attached to a clinic.
type Nurse struct {
	ID         string     `db:"id" json:"id"`
	ClinicID   string     `db:"clinic_id" json:"clinic_id"`
	Clinic     *ClinicRef `db:"-" json:"clinic,omitempty"`
	ClinicName string     `db:"clinic_name" json:"clinic_name,omitempty"`
	NurseCode  string     `db:"nurse_code" json:"nurse_code"`
	FullName   string     `db:"full_name" json:"full_name"`
	Department string     `db:"department" json:"department"`
	Shift      string     `db:"shift" json:"shift"`
	Email      string     `db:"email" json:"email"`
	Phone      string     `db:"phone" json:"phone"`
	Status     string     `db:"status" json:"status"`
	CreatedAt  *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt  *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// ClinicDisplayName prefers the joined clinic over the stored name.
func (n Nurse) ClinicDisplayName() string { return clinicName(n.Clinic, n.ClinicName) }
