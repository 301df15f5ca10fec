package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/pkg/middleware/requestid"
)

// AuditResourceIDKey lets handlers report the ID of a record they created.
const AuditResourceIDKey = "audit.resource_id"

// AuditWriter persists audit log rows.
type AuditWriter interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// Audit records an audit log row after every successful mutation or export of resource.
func Audit(repo AuditWriter, log *zap.Logger, resource string) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		action := auditAction(c)
		if action == "" || repo == nil || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		entry := &models.AuditLog{
			Action:    action,
			Resource:  resource,
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		}
		if claims := Claims(c); claims != nil {
			entry.UserID = optional(claims.UserID)
		}
		if scope, ok := Scope(c); ok {
			entry.ClinicID = optional(scope.ClinicID)
		}
		resourceID := c.Param("id")
		if resourceID == "" {
			resourceID = c.GetString(AuditResourceIDKey)
		}
		entry.ResourceID = optional(resourceID)
		entry.NewValues, _ = json.Marshal(map[string]interface{}{
			"path":       c.FullPath(),
			"method":     c.Request.Method,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": c.Writer.Header().Get(requestid.Header),
		})

		if err := repo.Create(c.Request.Context(), entry); err != nil {
			log.Warn("audit log write failed", zap.String("resource", resource), zap.String("action", action), zap.Error(err))
		}
	}
}

func auditAction(c *gin.Context) string {
	switch c.Request.Method {
	case http.MethodPost:
		return models.AuditActionCreate
	case http.MethodPut, http.MethodPatch:
		return models.AuditActionUpdate
	case http.MethodDelete:
		return models.AuditActionDelete
	case http.MethodGet:
		if c.Writer.Header().Get("Content-Disposition") != "" {
			return models.AuditActionExport
		}
	}
	return ""
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
