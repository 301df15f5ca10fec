package models

import "time"

// Invoice status literals.
const (
	InvoiceStatusUnpaid        = "Unpaid"
	InvoiceStatusPartiallyPaid = "Partially Paid"
	InvoiceStatusPaid          = "Paid"
	InvoiceStatusOverdue       = "Overdue"
	InvoiceStatusCancelled     = "Cancelled"
)

// Invoice is a billing document issued to a patient.
type Invoice struct {
	ID            string      `db:"id" json:"id"`
	InvoiceNumber string      `db:"invoice_number" json:"invoice_number"`
	ClinicID      string      `db:"clinic_id" json:"clinic_id"`
	Clinic        *ClinicRef  `db:"-" json:"clinic,omitempty"`
	ClinicName    string      `db:"clinic_name" json:"clinic_name,omitempty"`
	PatientID     string      `db:"patient_id" json:"patient_id"`
	Patient       *PatientRef `db:"-" json:"patient,omitempty"`
	PatientName   string      `db:"patient_name" json:"patient_name,omitempty"`
	AppointmentID *string     `db:"appointment_id" json:"appointment_id,omitempty"`
	AmountCents   int64       `db:"amount_cents" json:"amount_cents"`
	PaidCents     int64       `db:"paid_cents" json:"paid_cents"`
	Currency      string      `db:"currency" json:"currency"`
	Status        string      `db:"status" json:"status"`
	DueDate       *time.Time  `db:"due_date" json:"due_date,omitempty"`
	CreatedAt     *time.Time  `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt     *time.Time  `db:"updated_at" json:"updated_at,omitempty"`
}

// PatientDisplayName prefers the joined patient over the stored name.
func (i Invoice) PatientDisplayName() string { return patientName(i.Patient, i.PatientName) }

// ClinicDisplayName prefers the joined clinic over the stored name.
func (i Invoice) ClinicDisplayName() string { return clinicName(i.Clinic, i.ClinicName) }
