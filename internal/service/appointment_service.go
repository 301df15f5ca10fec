package service

import (
	"context"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// AppointmentRequest is the create and update payload for appointments.
type AppointmentRequest struct {
	ClinicID        string `json:"clinic_id" validate:"omitempty,uuid"`
	PatientID       string `json:"patient_id" validate:"required,uuid"`
	DoctorID        string `json:"doctor_id" validate:"required,uuid"`
	AppointmentDate string `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	TimeSlot        string `json:"time_slot" validate:"required,datetime=15:04"`
	Type            string `json:"type" validate:"required,oneof=Consultation Follow-up Check-up Emergency"`
	Reason          string `json:"reason" validate:"omitempty,max=500"`
	Notes           string `json:"notes" validate:"omitempty,max=2000"`
	Status          string `json:"status" validate:"omitempty,oneof=Pending Confirmed Completed Cancelled 'No Show'"`
}

// AppointmentService handles booking use-cases.
type AppointmentService struct {
	*crud[models.Appointment]
	patients finder[models.Patient]
	doctors  finder[models.Doctor]
}

// NewAppointmentService constructs an AppointmentService. patients and doctors
// resolve the referenced records so bookings never cross tenants.
func NewAppointmentService(repo store[models.Appointment], patients finder[models.Patient], doctors finder[models.Doctor], view *dataview.View[models.Appointment], deps Deps) *AppointmentService {
	return &AppointmentService{
		crud:     newCRUD("appointment", repo, view, func(a models.Appointment) string { return a.ClinicID }, deps),
		patients: patients,
		doctors:  doctors,
	}
}

// Create books an appointment. New bookings start Pending unless a status is given.
func (s *AppointmentService) Create(ctx context.Context, scope Scope, req AppointmentRequest) (*models.Appointment, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	clinicID, err := scope.targetClinic(req.ClinicID)
	if err != nil {
		return nil, err
	}
	appointment := &models.Appointment{
		ClinicID:          clinicID,
		AppointmentNumber: generateCode("APT", s.Now()),
		Status:            models.AppointmentStatusPending,
	}
	if err := s.apply(ctx, appointment, req); err != nil {
		return nil, err
	}
	if err := s.create(ctx, appointment); err != nil {
		return nil, err
	}
	return s.reload(ctx, appointment.ID, appointment), nil
}

// Update reschedules or changes the status of an appointment visible in scope.
func (s *AppointmentService) Update(ctx context.Context, scope Scope, id string, req AppointmentRequest) (*models.Appointment, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	appointment, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, appointment, req); err != nil {
		return nil, err
	}
	if err := s.update(ctx, appointment); err != nil {
		return nil, err
	}
	return s.reload(ctx, appointment.ID, appointment), nil
}

func (s *AppointmentService) apply(ctx context.Context, a *models.Appointment, req AppointmentRequest) error {
	date, err := parseDay(req.AppointmentDate)
	if err != nil {
		return invalidField(s.noun, "appointment_date", "appointment_date must be a date formatted 2006-01-02")
	}
	patient, err := related(ctx, s.patients, req.PatientID, a.ClinicID, s.noun, "patient_id", func(p models.Patient) string { return p.ClinicID })
	if err != nil {
		return err
	}
	doctor, err := related(ctx, s.doctors, req.DoctorID, a.ClinicID, s.noun, "doctor_id", func(d models.Doctor) string { return d.ClinicID })
	if err != nil {
		return err
	}
	a.PatientID = patient.ID
	a.PatientName = patient.FullName
	a.DoctorID = doctor.ID
	a.DoctorName = doctor.FullName
	a.AppointmentDate = date
	a.TimeSlot = req.TimeSlot
	a.Type = req.Type
	a.Reason = req.Reason
	a.Notes = req.Notes
	if req.Status != "" {
		a.Status = req.Status
	}
	return nil
}
