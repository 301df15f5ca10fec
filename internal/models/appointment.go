package models

import "time"

// Appointment status literals.
const (
	AppointmentStatusPending   = "Pending"
	AppointmentStatusConfirmed = "Confirmed"
	AppointmentStatusCompleted = "Completed"
	AppointmentStatusCancelled = "Cancelled"
	AppointmentStatusNoShow    = "No Show"
)

// Appointment types.
const (
	AppointmentTypeConsultation = "Consultation"
	AppointmentTypeFollowUp     = "Follow-up"
	AppointmentTypeCheckUp      = "Check-up"
	AppointmentTypeEmergency    = "Emergency"
)

// Appointment is a booked visit. The nested references are nil when the
// relation was not populated; the flat *Name fields are the fallback.
type Appointment struct {
	ID                string      `db:"id" json:"id"`
	AppointmentNumber string      `db:"appointment_number" json:"appointment_number"`
	ClinicID          string      `db:"clinic_id" json:"clinic_id"`
	Clinic            *ClinicRef  `db:"-" json:"clinic,omitempty"`
	ClinicName        string      `db:"clinic_name" json:"clinic_name,omitempty"`
	PatientID         string      `db:"patient_id" json:"patient_id"`
	Patient           *PatientRef `db:"-" json:"patient,omitempty"`
	PatientName       string      `db:"patient_name" json:"patient_name,omitempty"`
	DoctorID          string      `db:"doctor_id" json:"doctor_id"`
	Doctor            *DoctorRef  `db:"-" json:"doctor,omitempty"`
	DoctorName        string      `db:"doctor_name" json:"doctor_name,omitempty"`
	AppointmentDate   *time.Time  `db:"appointment_date" json:"appointment_date,omitempty"`
	TimeSlot          string      `db:"time_slot" json:"time_slot"`
	Type              string      `db:"type" json:"type"`
	Reason            string      `db:"reason" json:"reason"`
	Notes             string      `db:"notes" json:"notes"`
	Status            string      `db:"status" json:"status"`
	CreatedAt         *time.Time  `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt         *time.Time  `db:"updated_at" json:"updated_at,omitempty"`
}

// PatientDisplayName prefers the joined patient over the stored name.
func (a Appointment) PatientDisplayName() string { return patientName(a.Patient, a.PatientName) }

// DoctorDisplayName prefers the joined doctor over the stored name.
func (a Appointment) DoctorDisplayName() string { return doctorName(a.Doctor, a.DoctorName) }

// ClinicDisplayName prefers the joined clinic over the stored name.
func (a Appointment) ClinicDisplayName() string { return clinicName(a.Clinic, a.ClinicName) }

// ClinicCity returns the joined clinic city when present.
func (a Appointment) ClinicCity() string {
	if a.Clinic == nil {
		return ""
	}
	return a.Clinic.City
}
