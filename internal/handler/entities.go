package handler

import (
	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/service"
)

// ClinicHandler serves /clinics.
type ClinicHandler = ResourceHandler[models.Clinic, service.ClinicRequest]

// PatientHandler serves /patients.
type PatientHandler = ResourceHandler[models.Patient, service.PatientRequest]

// DoctorHandler serves /doctors.
type DoctorHandler = ResourceHandler[models.Doctor, service.DoctorRequest]

// NurseHandler serves /nurses.
type NurseHandler = ResourceHandler[models.Nurse, service.NurseRequest]

// AppointmentHandler serves /appointments.
type AppointmentHandler = ResourceHandler[models.Appointment, service.AppointmentRequest]

// ReferralHandler serves /referrals.
type ReferralHandler = ResourceHandler[models.Referral, service.ReferralRequest]

// InvoiceHandler serves /invoices.
type InvoiceHandler = ResourceHandler[models.Invoice, service.InvoiceRequest]

// NewClinicHandler constructs the clinic endpoints.
func NewClinicHandler(svc *service.ClinicService) *ClinicHandler {
	return NewResourceHandler[models.Clinic, service.ClinicRequest](svc, func(c *models.Clinic) string { return c.ID })
}

// NewPatientHandler constructs the patient endpoints.
func NewPatientHandler(svc *service.PatientService) *PatientHandler {
	return NewResourceHandler[models.Patient, service.PatientRequest](svc, func(p *models.Patient) string { return p.ID })
}

// NewDoctorHandler constructs the doctor endpoints.
func NewDoctorHandler(svc *service.DoctorService) *DoctorHandler {
	return NewResourceHandler[models.Doctor, service.DoctorRequest](svc, func(d *models.Doctor) string { return d.ID })
}

// NewNurseHandler constructs the nurse endpoints.
func NewNurseHandler(svc *service.NurseService) *NurseHandler {
	return NewResourceHandler[models.Nurse, service.NurseRequest](svc, func(n *models.Nurse) string { return n.ID })
}

// NewAppointmentHandler constructs the appointment endpoints.
func NewAppointmentHandler(svc *service.AppointmentService) *AppointmentHandler {
	return NewResourceHandler[models.Appointment, service.AppointmentRequest](svc, func(a *models.Appointment) string { return a.ID })
}

// NewReferralHandler constructs the referral endpoints.
func NewReferralHandler(svc *service.ReferralService) *ReferralHandler {
	return NewResourceHandler[models.Referral, service.ReferralRequest](svc, func(r *models.Referral) string { return r.ID })
}

// NewInvoiceHandler constructs the invoice endpoints.
func NewInvoiceHandler(svc *service.InvoiceService) *InvoiceHandler {
	return NewResourceHandler[models.Invoice, service.InvoiceRequest](svc, func(i *models.Invoice) string { return i.ID })
}
