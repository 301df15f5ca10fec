package models

import "time"

// Referral status literals.
const (
	ReferralStatusPending   = "Pending"
	ReferralStatusAccepted  = "Accepted"
	ReferralStatusCompleted = "Completed"
	ReferralStatusRejected  = "Rejected"
	ReferralStatusCancelled = "Cancelled"
)

// Referral priorities.
const (
	ReferralPriorityLow    = "Low"
	ReferralPriorityMedium = "Medium"
	ReferralPriorityHigh   = "High"
	ReferralPriorityUrgent = "Urgent"
)

// Referral sends a patient from a clinic doctor to another facility.
type Referral struct {
	ID                  string      `db:"id" json:"id"`
	ReferralCode        string      `db:"referral_code" json:"referral_code"`
	ClinicID            string      `db:"clinic_id" json:"clinic_id"`
	PatientID           string      `db:"patient_id" json:"patient_id"`
	Patient             *PatientRef `db:"-" json:"patient,omitempty"`
	PatientName         string      `db:"patient_name" json:"patient_name,omitempty"`
	ReferringDoctorID   string      `db:"referring_doctor_id" json:"referring_doctor_id"`
	ReferringDoctor     *DoctorRef  `db:"-" json:"referring_doctor,omitempty"`
	ReferringDoctorName string      `db:"referring_doctor_name" json:"referring_doctor_name,omitempty"`
	ReferredTo          string      `db:"referred_to" json:"referred_to"`
	Specialty           string      `db:"specialty" json:"specialty"`
	Reason              string      `db:"reason" json:"reason"`
	Priority            string      `db:"priority" json:"priority"`
	Status              string      `db:"status" json:"status"`
	ReferralDate        *time.Time  `db:"referral_date" json:"referral_date,omitempty"`
	CreatedAt           *time.Time  `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt           *time.Time  `db:"updated_at" json:"updated_at,omitempty"`
}

// PatientDisplayName prefers the joined patient over the stored name.
func (r Referral) PatientDisplayName() string { return patientName(r.Patient, r.PatientName) }

// DoctorDisplayName prefers the joined referring doctor over the stored name.
func (r Referral) DoctorDisplayName() string {
	return doctorName(r.ReferringDoctor, r.ReferringDoctorName)
}
