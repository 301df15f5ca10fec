package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-admin-api/internal/dto"
	"github.com/noah-isme/clinic-admin-api/internal/middleware"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/service"
	appErrors "github.com/noah-isme/clinic-admin-api/pkg/errors"
)

type fakeDashboardSrv struct {
	resp      *dto.DashboardResponse
	hit       bool
	err       error
	lastScope service.Scope
}

func (f *fakeDashboardSrv) Summary(_ context.Context, scope service.Scope) (*dto.DashboardResponse, bool, error) {
	f.lastScope = scope
	return f.resp, f.hit, f.err
}

func dashboardRouter(srv dashboardService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	r.GET("/dashboard", withScope(service.Scope{UserID: "root", Role: models.RoleSuperAdmin}), NewDashboardHandler(srv).Summary)
	return r
}

func TestDashboardHandlerSummaryReportsCacheHit(t *testing.T) {
	srv := &fakeDashboardSrv{resp: &dto.DashboardResponse{ClinicID: "c1"}, hit: true}

	rec := serve(dashboardRouter(srv), http.MethodGet, "/dashboard", "")

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, true, env.Meta["cache_hit"])
	assert.Contains(t, env.Meta, "processing_time_ms")
	assert.Contains(t, string(env.Data), `"clinicId":"c1"`)
	assert.Equal(t, models.RoleSuperAdmin, srv.lastScope.Role)
}

func TestDashboardHandlerPropagatesErrors(t *testing.T) {
	srv := &fakeDashboardSrv{err: appErrors.Clone(appErrors.ErrUnavailable, "dashboard is disabled")}

	rec := serve(dashboardRouter(srv), http.MethodGet, "/dashboard", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "dashboard is disabled", decode(t, rec).Message)
}

func TestMetricsHandlerReadyAndSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	metrics.ObserveDBQuery("list_patients", 0)
	h := NewMetricsHandler(metrics, map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return nil }),
		"redis":    PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	r := gin.New()
	r.GET("/ready", h.Ready)
	r.GET("/health", h.Health)
	r.GET("/metrics", h.Prometheus)
	r.GET("/metrics/summary", h.Summary)

	rec := serve(r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"postgres":"ok","redis":"connection refused"}}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "").Code)

	rec = serve(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "db_query_duration_seconds")

	rec = serve(r, http.MethodGet, "/metrics/summary", "")
	assert.Contains(t, string(decode(t, rec).Data), `"db_query_count":1`)
}
