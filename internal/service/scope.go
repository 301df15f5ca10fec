package service

import (
	"github.com/noah-isme/clinic-admin-api/internal/models"
	appErrors "github.com/noah-isme/clinic-admin-api/pkg/errors"
)

// Scope is the tenant and caller a request runs as. An empty ClinicID is only
// possible for super-admins and spans every clinic.
type Scope struct {
	ClinicID string
	UserID   string
	Role     models.UserRole
}

// SuperAdmin reports whether the caller may act across tenants.
func (s Scope) SuperAdmin() bool {
	return s.Role == models.RoleSuperAdmin
}

// owns reports whether a record belonging to clinicID is visible in this scope.
func (s Scope) owns(clinicID string) bool {
	return s.ClinicID == "" || s.ClinicID == clinicID
}

// targetClinic picks the clinic a new record is written to. Tenant users always
// write to their own clinic; super-admins must name one.
func (s Scope) targetClinic(requested string) (string, error) {
	if s.ClinicID != "" {
		return s.ClinicID, nil
	}
	if requested == "" {
		return "", appErrors.Clone(appErrors.ErrTenantRequired, "clinic_id is required")
	}
	return requested, nil
}
