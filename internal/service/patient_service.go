package service

import (
	"context"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// PatientRequest is the create and update payload for patients.
type PatientRequest struct {
	ClinicID    string `json:"clinic_id" validate:"omitempty,uuid"`
	PatientCode string `json:"patient_code" validate:"omitempty,max=32"`
	FullName    string `json:"full_name" validate:"required,max=200"`
	Gender      string `json:"gender" validate:"required,oneof=Male Female Other"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	BloodGroup  string `json:"blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
	Email       string `json:"email" validate:"omitempty,email"`
	Address     string `json:"address" validate:"omitempty,max=500"`
	City        string `json:"city" validate:"omitempty,max=100"`
	Status      string `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

// PatientService handles patient registration use-cases.
type PatientService struct {
	*crud[models.Patient]
}

// NewPatientService constructs a PatientService.
func NewPatientService(repo store[models.Patient], view *dataview.View[models.Patient], deps Deps) *PatientService {
	return &PatientService{crud: newCRUD("patient", repo, view, func(p models.Patient) string { return p.ClinicID }, deps)}
}

// Create registers a patient in the scope's clinic.
func (s *PatientService) Create(ctx context.Context, scope Scope, req PatientRequest) (*models.Patient, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	clinicID, err := scope.targetClinic(req.ClinicID)
	if err != nil {
		return nil, err
	}
	patient := &models.Patient{ClinicID: clinicID, Status: models.PatientStatusActive}
	if err := applyPatient(patient, req); err != nil {
		return nil, err
	}
	if patient.PatientCode == "" {
		patient.PatientCode = generateCode("PAT", s.Now())
	}
	if err := s.create(ctx, patient); err != nil {
		return nil, err
	}
	return s.reload(ctx, patient.ID, patient), nil
}

// Update modifies a patient visible in scope. The owning clinic never changes.
func (s *PatientService) Update(ctx context.Context, scope Scope, id string, req PatientRequest) (*models.Patient, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	patient, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := applyPatient(patient, req); err != nil {
		return nil, err
	}
	if err := s.update(ctx, patient); err != nil {
		return nil, err
	}
	return s.reload(ctx, patient.ID, patient), nil
}

func applyPatient(p *models.Patient, req PatientRequest) error {
	dob, err := parseDay(req.DateOfBirth)
	if err != nil {
		return invalidField("patient", "date_of_birth", "date_of_birth must be a date formatted 2006-01-02")
	}
	if req.PatientCode != "" {
		p.PatientCode = req.PatientCode
	}
	p.FullName = req.FullName
	p.Gender = req.Gender
	p.DateOfBirth = dob
	p.BloodGroup = req.BloodGroup
	p.Phone = req.Phone
	p.Email = req.Email
	p.Address = req.Address
	p.City = req.City
	if req.Status != "" {
		p.Status = req.Status
	}
	return nil
}
