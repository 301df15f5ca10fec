package service

import (
	"context"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// ReferralRequest is the create and update payload for referrals.
type ReferralRequest struct {
	ClinicID          string `json:"clinic_id" validate:"omitempty,uuid"`
	PatientID         string `json:"patient_id" validate:"required,uuid"`
	ReferringDoctorID string `json:"referring_doctor_id" validate:"required,uuid"`
	ReferredTo        string `json:"referred_to" validate:"required,max=200"`
	Specialty         string `json:"specialty" validate:"required,max=100"`
	Reason            string `json:"reason" validate:"required,max=1000"`
	Priority          string `json:"priority" validate:"required,oneof=Low Medium High Urgent"`
	ReferralDate      string `json:"referral_date" validate:"required,datetime=2006-01-02"`
	Status            string `json:"status" validate:"omitempty,oneof=Pending Accepted Completed Rejected Cancelled"`
}

// ReferralService handles outbound patient referrals.
type ReferralService struct {
	*crud[models.Referral]
	patients finder[models.Patient]
	doctors  finder[models.Doctor]
}

// NewReferralService constructs a ReferralService.
func NewReferralService(repo store[models.Referral], patients finder[models.Patient], doctors finder[models.Doctor], view *dataview.View[models.Referral], deps Deps) *ReferralService {
	return &ReferralService{
		crud:     newCRUD("referral", repo, view, func(r models.Referral) string { return r.ClinicID }, deps),
		patients: patients,
		doctors:  doctors,
	}
}

// Create issues a referral with a generated referral code.
func (s *ReferralService) Create(ctx context.Context, scope Scope, req ReferralRequest) (*models.Referral, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	clinicID, err := scope.targetClinic(req.ClinicID)
	if err != nil {
		return nil, err
	}
	referral := &models.Referral{
		ClinicID:     clinicID,
		ReferralCode: generateCode("REF", s.Now()),
		Status:       models.ReferralStatusPending,
	}
	if err := s.apply(ctx, referral, req); err != nil {
		return nil, err
	}
	if err := s.create(ctx, referral); err != nil {
		return nil, err
	}
	return s.reload(ctx, referral.ID, referral), nil
}

// Update modifies a referral visible in scope.
func (s *ReferralService) Update(ctx context.Context, scope Scope, id string, req ReferralRequest) (*models.Referral, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	referral, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, referral, req); err != nil {
		return nil, err
	}
	if err := s.update(ctx, referral); err != nil {
		return nil, err
	}
	return s.reload(ctx, referral.ID, referral), nil
}

func (s *ReferralService) apply(ctx context.Context, r *models.Referral, req ReferralRequest) error {
	date, err := parseDay(req.ReferralDate)
	if err != nil {
		return invalidField(s.noun, "referral_date", "referral_date must be a date formatted 2006-01-02")
	}
	patient, err := related(ctx, s.patients, req.PatientID, r.ClinicID, s.noun, "patient_id", func(p models.Patient) string { return p.ClinicID })
	if err != nil {
		return err
	}
	doctor, err := related(ctx, s.doctors, req.ReferringDoctorID, r.ClinicID, s.noun, "referring_doctor_id", func(d models.Doctor) string { return d.ClinicID })
	if err != nil {
		return err
	}
	r.PatientID = patient.ID
	r.PatientName = patient.FullName
	r.ReferringDoctorID = doctor.ID
	r.ReferringDoctorName = doctor.FullName
	r.ReferredTo = req.ReferredTo
	r.Specialty = req.Specialty
	r.Reason = req.Reason
	r.Priority = req.Priority
	r.ReferralDate = date
	if req.Status != "" {
		r.Status = req.Status
	}
	return nil
}
