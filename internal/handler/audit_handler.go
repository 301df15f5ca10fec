package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/service"
	"github.com/noah-isme/clinic-admin-api/pkg/response"
)

type auditHistory interface {
	History(ctx context.Context, scope service.Scope, resource, resourceID string, limit int) ([]models.AuditLog, error)
}

// AuditHandler exposes the audit trail of a record.
type AuditHandler struct {
	service auditHistory
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(service auditHistory) *AuditHandler {
	return &AuditHandler{service: service}
}

// History godoc
// @Summary Audit trail of one record
// @Tags Audit
// @Produce json
// @Param resource path string true "Resource name, e.g. patients"
// @Param id path string true "Record ID"
// @Param limit query int false "Maximum entries (default 20, max 100)"
// @Success 200 {object} response.Envelope
// @Router /audit/{resource}/{id} [get]
func (h *AuditHandler) History(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	rows, err := h.service.History(c.Request.Context(), scope, c.Param("resource"), c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
