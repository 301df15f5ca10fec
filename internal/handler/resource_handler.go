package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/middleware"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/service"
	appErrors "github.com/noah-isme/clinic-admin-api/pkg/errors"
	"github.com/noah-isme/clinic-admin-api/pkg/export"
	"github.com/noah-isme/clinic-admin-api/pkg/response"
)

// ResourceService is the use-case surface every entity service exposes.
type ResourceService[R any, Req any] interface {
	List(ctx context.Context, scope service.Scope, req service.ListRequest) ([]R, dataview.Stats, *models.Pagination, error)
	Stats(ctx context.Context, scope service.Scope) (dataview.Stats, error)
	Get(ctx context.Context, scope service.Scope, id string) (*R, error)
	Create(ctx context.Context, scope service.Scope, req Req) (*R, error)
	Update(ctx context.Context, scope service.Scope, id string, req Req) (*R, error)
	Delete(ctx context.Context, scope service.Scope, id string) error
	Export(ctx context.Context, scope service.Scope, format export.Format) (*service.ExportFile, error)
	FilterKeys() []string
}

// ResourceHandler exposes the list, stats, export and CRUD endpoints of one entity.
type ResourceHandler[R any, Req any] struct {
	svc  ResourceService[R, Req]
	idOf func(*R) string
}

// NewResourceHandler constructs a ResourceHandler. idOf reports the ID of a
// created record for the audit trail.
func NewResourceHandler[R any, Req any](svc ResourceService[R, Req], idOf func(*R) string) *ResourceHandler[R, Req] {
	return &ResourceHandler[R, Req]{svc: svc, idOf: idOf}
}

// Guards are the per-route middleware chains of a resource. Write runs before
// create, update and delete; Audit runs before every mutation and export.
type Guards struct {
	Write []gin.HandlerFunc
	Audit gin.HandlerFunc
}

func (g Guards) chain(write bool, h gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(g.Write)+2)
	if write {
		chain = append(chain, g.Write...)
	}
	if g.Audit != nil {
		chain = append(chain, g.Audit)
	}
	return append(chain, h)
}

// Register mounts the routes under group.
func (h *ResourceHandler[R, Req]) Register(group *gin.RouterGroup, guards Guards) {
	group.GET("", h.List)
	group.GET("/stats", h.Stats)
	group.GET("/export", guards.chain(false, h.Export)...)
	group.GET("/:id", h.Get)
	group.POST("", guards.chain(true, h.Create)...)
	group.PUT("/:id", guards.chain(true, h.Update)...)
	group.DELETE("/:id", guards.chain(true, h.Delete)...)
}

// List returns one page of the filtered, ordered collection plus whole-collection stats.
func (h *ResourceHandler[R, Req]) List(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}
	items, stats, pagination, err := h.svc.List(c.Request.Context(), scope, parseListRequest(c, h.svc.FilterKeys()))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items, stats, pagination, middleware.ExtractMeta(c))
}

// Stats returns the aggregator counters for the scope's collection.
func (h *ResourceHandler[R, Req]) Stats(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}
	stats, err := h.svc.Stats(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Export streams the full collection as CSV (default) or PDF.
func (h *ResourceHandler[R, Req]) Export(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, err.Error()))
		return
	}
	file, err := h.svc.Export(c.Request.Context(), scope, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}

// Get returns one record.
func (h *ResourceHandler[R, Req]) Get(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}
	record, err := h.svc.Get(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Create validates and persists a new record.
func (h *ResourceHandler[R, Req]) Create(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}
	var req Req
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "invalid request body"))
		return
	}
	record, err := h.svc.Create(c.Request.Context(), scope, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.idOf != nil {
		c.Set(middleware.AuditResourceIDKey, h.idOf(record))
	}
	response.Created(c, record)
}

// Update validates and applies changes to a record.
func (h *ResourceHandler[R, Req]) Update(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}
	var req Req
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "invalid request body"))
		return
	}
	record, err := h.svc.Update(c.Request.Context(), scope, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete removes a record.
func (h *ResourceHandler[R, Req]) Delete(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), scope, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func scopeOrAbort(c *gin.Context) (service.Scope, bool) {
	scope, ok := middleware.Scope(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return service.Scope{}, false
	}
	return scope, true
}

// parseListRequest reads search, sort, page and limit plus every filter key the
// entity understands. Unknown query parameters are ignored.
func parseListRequest(c *gin.Context, filterKeys []string) service.ListRequest {
	req := service.ListRequest{
		Search:  strings.TrimSpace(c.Query("search")),
		Sort:    strings.TrimSpace(c.Query("sort")),
		Filters: dataview.FilterState{},
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		req.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		req.PageSize = size
	}
	for _, key := range filterKeys {
		if value, ok := c.GetQuery(key); ok {
			req.Filters[key] = value
		}
	}
	return req
}
