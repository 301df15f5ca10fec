package service

import (
	"context"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	appErrors "github.com/noah-isme/clinic-admin-api/pkg/errors"
)

// ClinicRequest is the create and update payload for clinics.
type ClinicRequest struct {
	Code    string `json:"code" validate:"required,max=32"`
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
	Address string `json:"address" validate:"omitempty,max=500"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"omitempty,max=100"`
	Plan    string `json:"plan" validate:"required,oneof=basic standard premium enterprise"`
	Status  string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ClinicService manages tenant clinics. Only super-admins create or remove them.
type ClinicService struct {
	*crud[models.Clinic]
}

// NewClinicService constructs a ClinicService.
func NewClinicService(repo store[models.Clinic], view *dataview.View[models.Clinic], deps Deps) *ClinicService {
	return &ClinicService{crud: newCRUD("clinic", repo, view, func(c models.Clinic) string { return c.ID }, deps)}
}

// Create registers a new clinic.
func (s *ClinicService) Create(ctx context.Context, scope Scope, req ClinicRequest) (*models.Clinic, error) {
	if !scope.SuperAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only super admins can create clinics")
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	clinic := &models.Clinic{}
	applyClinic(clinic, req)
	if clinic.Status == "" {
		clinic.Status = models.ClinicStatusActive
	}
	if err := s.create(ctx, clinic); err != nil {
		return nil, err
	}
	return clinic, nil
}

// Update modifies a clinic visible in scope.
func (s *ClinicService) Update(ctx context.Context, scope Scope, id string, req ClinicRequest) (*models.Clinic, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	clinic, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	status := clinic.Status
	applyClinic(clinic, req)
	if clinic.Status == "" {
		clinic.Status = status
	}
	if err := s.update(ctx, clinic); err != nil {
		return nil, err
	}
	return clinic, nil
}

// Delete removes a clinic. Restricted to super-admins.
func (s *ClinicService) Delete(ctx context.Context, scope Scope, id string) error {
	if !scope.SuperAdmin() {
		return appErrors.Clone(appErrors.ErrForbidden, "only super admins can delete clinics")
	}
	return s.crud.Delete(ctx, scope, id)
}

func applyClinic(c *models.Clinic, req ClinicRequest) {
	c.Code = req.Code
	c.Name = req.Name
	c.Email = req.Email
	c.Phone = req.Phone
	c.Address = req.Address
	c.City = req.City
	c.State = req.State
	c.Plan = req.Plan
	c.Status = req.Status
}
