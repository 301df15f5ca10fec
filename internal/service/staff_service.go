package service

import (
	"context"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// DoctorRequest is the create and update payload for doctors.
type DoctorRequest struct {
	ClinicID        string `json:"clinic_id" validate:"omitempty,uuid"`
	DoctorCode      string `json:"doctor_code" validate:"omitempty,max=32"`
	FullName        string `json:"full_name" validate:"required,max=200"`
	Specialization  string `json:"specialization" validate:"required,max=100"`
	Qualification   string `json:"qualification" validate:"omitempty,max=200"`
	ExperienceYears int    `json:"experience_years" validate:"gte=0,lte=70"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"omitempty,max=32"`
	Status          string `json:"status" validate:"omitempty,oneof=Active Inactive 'On Leave'"`
}

// NurseRequest is the create and update payload for nurses.
type NurseRequest struct {
	ClinicID   string `json:"clinic_id" validate:"omitempty,uuid"`
	NurseCode  string `json:"nurse_code" validate:"omitempty,max=32"`
	FullName   string `json:"full_name" validate:"required,max=200"`
	Department string `json:"department" validate:"omitempty,max=100"`
	Shift      string `json:"shift" validate:"required,oneof=Morning Evening Night"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"omitempty,max=32"`
	Status     string `json:"status" validate:"omitempty,oneof=Active Inactive 'On Leave'"`
}

// DoctorService manages clinic doctors.
type DoctorService struct {
	*crud[models.Doctor]
}

// NewDoctorService constructs a DoctorService.
func NewDoctorService(repo store[models.Doctor], view *dataview.View[models.Doctor], deps Deps) *DoctorService {
	return &DoctorService{crud: newCRUD("doctor", repo, view, func(d models.Doctor) string { return d.ClinicID }, deps)}
}

// Create adds a doctor to the scope's clinic.
func (s *DoctorService) Create(ctx context.Context, scope Scope, req DoctorRequest) (*models.Doctor, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	clinicID, err := scope.targetClinic(req.ClinicID)
	if err != nil {
		return nil, err
	}
	doctor := &models.Doctor{ClinicID: clinicID, Status: models.StaffStatusActive}
	applyDoctor(doctor, req)
	if doctor.DoctorCode == "" {
		doctor.DoctorCode = generateCode("DOC", s.Now())
	}
	if err := s.create(ctx, doctor); err != nil {
		return nil, err
	}
	return s.reload(ctx, doctor.ID, doctor), nil
}

// Update modifies a doctor visible in scope.
func (s *DoctorService) Update(ctx context.Context, scope Scope, id string, req DoctorRequest) (*models.Doctor, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	doctor, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	applyDoctor(doctor, req)
	if err := s.update(ctx, doctor); err != nil {
		return nil, err
	}
	return s.reload(ctx, doctor.ID, doctor), nil
}

func applyDoctor(d *models.Doctor, req DoctorRequest) {
	if req.DoctorCode != "" {
		d.DoctorCode = req.DoctorCode
	}
	d.FullName = req.FullName
	d.Specialization = req.Specialization
	d.Qualification = req.Qualification
	d.ExperienceYears = req.ExperienceYears
	d.Email = req.Email
	d.Phone = req.Phone
	if req.Status != "" {
		d.Status = req.Status
	}
}

// NurseService manages clinic nurses.
type NurseService struct {
	*crud[models.Nurse]
}

// NewNurseService constructs a NurseService.
func NewNurseService(repo store[models.Nurse], view *dataview.View[models.Nurse], deps Deps) *NurseService {
	return &NurseService{crud: newCRUD("nurse", repo, view, func(n models.Nurse) string { return n.ClinicID }, deps)}
}

// Create adds a nurse to the scope's clinic.
func (s *NurseService) Create(ctx context.Context, scope Scope, req NurseRequest) (*models.Nurse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	clinicID, err := scope.targetClinic(req.ClinicID)
	if err != nil {
		return nil, err
	}
	nurse := &models.Nurse{ClinicID: clinicID, Status: models.StaffStatusActive}
	applyNurse(nurse, req)
	if nurse.NurseCode == "" {
		nurse.NurseCode = generateCode("NUR", s.Now())
	}
	if err := s.create(ctx, nurse); err != nil {
		return nil, err
	}
	return s.reload(ctx, nurse.ID, nurse), nil
}

// Update modifies a nurse visible in scope.
func (s *NurseService) Update(ctx context.Context, scope Scope, id string, req NurseRequest) (*models.Nurse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	nurse, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	applyNurse(nurse, req)
	if err := s.update(ctx, nurse); err != nil {
		return nil, err
	}
	return s.reload(ctx, nurse.ID, nurse), nil
}

func applyNurse(n *models.Nurse, req NurseRequest) {
	if req.NurseCode != "" {
		n.NurseCode = req.NurseCode
	}
	n.FullName = req.FullName
	n.Department = req.Department
	n.Shift = req.Shift
	n.Email = req.Email
	n.Phone = req.Phone
	if req.Status != "" {
		n.Status = req.Status
	}
}
