package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/noah-isme/clinic-admin-api/internal/service"
	appErrors "github.com/noah-isme/clinic-admin-api/pkg/errors"
	"github.com/noah-isme/clinic-admin-api/pkg/logger"
	"github.com/noah-isme/clinic-admin-api/pkg/response"
)

const (
	// ContextScopeKey is the gin context key storing the resolved service.Scope.
	ContextScopeKey = "tenantScope"
	// ClinicHeader lets super-admins narrow a request to one clinic.
	ClinicHeader = "X-Clinic-ID"
)

// TenantScope pins every request to a clinic. Tenant users always get the
// clinic from their token; super-admins may narrow with ?clinicId= or the
// X-Clinic-ID header and otherwise see every clinic.
func TenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		scope := service.Scope{UserID: claims.UserID, Role: claims.Role, ClinicID: claims.ClinicID}
		if claims.IsSuperAdmin() {
			requested := strings.TrimSpace(c.Query("clinicId"))
			if requested == "" {
				requested = strings.TrimSpace(c.GetHeader(ClinicHeader))
			}
			if requested != "" {
				if _, err := uuid.Parse(requested); err != nil {
					response.Abort(c, appErrors.Clone(appErrors.ErrBadRequest, "clinicId must be a UUID"))
					return
				}
			}
			scope.ClinicID = requested
		} else if scope.ClinicID == "" {
			response.Abort(c, appErrors.ErrTenantRequired)
			return
		}

		c.Set(ContextScopeKey, scope)
		if scope.ClinicID != "" {
			c.Set(logger.ClinicIDKey, scope.ClinicID)
		}
		c.Next()
	}
}

// Scope returns the scope resolved by TenantScope.
func Scope(c *gin.Context) (service.Scope, bool) {
	value, exists := c.Get(ContextScopeKey)
	if !exists {
		return service.Scope{}, false
	}
	scope, ok := value.(service.Scope)
	return scope, ok
}
