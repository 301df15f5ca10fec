package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin   UserRole = "SUPERADMIN"
	RoleClinicAdmin  UserRole = "CLINIC_ADMIN"
	RoleDoctor       UserRole = "DOCTOR"
	RoleNurse        UserRole = "NURSE"
	RoleReceptionist UserRole = "RECEPTIONIST"
)

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}
