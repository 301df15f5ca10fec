package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/middleware"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/service"
	appErrors "github.com/noah-isme/clinic-admin-api/pkg/errors"
	"github.com/noah-isme/clinic-admin-api/pkg/export"
)

type patientReq struct {
	FullName string `json:"full_name"`
}

type fakePatients struct {
	lastList   service.ListRequest
	lastScope  service.Scope
	lastCreate patientReq
	lastFormat export.Format
	getErr     error
	createErr  error
	deleted    string
}

func (f *fakePatients) List(_ context.Context, scope service.Scope, req service.ListRequest) ([]models.Patient, dataview.Stats, *models.Pagination, error) {
	f.lastScope = scope
	f.lastList = req
	return []models.Patient{{ID: "p1", FullName: "Budi"}},
		dataview.Stats{Total: 3, ByStatus: map[string]int{"Active": 3}, Counters: map[string]int{"active": 3}},
		&models.Pagination{Page: 1, PageSize: 20, TotalCount: 1, TotalPages: 1}, nil
}

func (f *fakePatients) Stats(context.Context, service.Scope) (dataview.Stats, error) {
	return dataview.Stats{Total: 3}, nil
}

func (f *fakePatients) Get(_ context.Context, _ service.Scope, id string) (*models.Patient, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.Patient{ID: id}, nil
}

func (f *fakePatients) Create(_ context.Context, _ service.Scope, req patientReq) (*models.Patient, error) {
	f.lastCreate = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Patient{ID: "new-id", FullName: req.FullName}, nil
}

func (f *fakePatients) Update(_ context.Context, _ service.Scope, id string, req patientReq) (*models.Patient, error) {
	return &models.Patient{ID: id, FullName: req.FullName}, nil
}

func (f *fakePatients) Delete(_ context.Context, _ service.Scope, id string) error {
	f.deleted = id
	return nil
}

func (f *fakePatients) Export(_ context.Context, _ service.Scope, format export.Format) (*service.ExportFile, error) {
	f.lastFormat = format
	return &service.ExportFile{Filename: "patients_x." + format.Extension(), ContentType: format.ContentType(), Body: []byte("Name\nBudi\n")}, nil
}

func (f *fakePatients) FilterKeys() []string { return []string{"gender", "status"} }

type envelope struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Data       json.RawMessage        `json:"data"`
	Items      []map[string]any       `json:"items"`
	Stats      map[string]any         `json:"stats"`
	Pagination map[string]any         `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
	Error      *appErrors.Error       `json:"error"`
}

func withScope(scope service.Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextScopeKey, scope)
		c.Next()
	}
}

func newPatientRouter(f *fakePatients, guards Guards) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/patients", withScope(service.Scope{ClinicID: "c1", UserID: "u1", Role: models.RoleClinicAdmin}))
	NewResourceHandler[models.Patient, patientReq](f, func(p *models.Patient) string { return p.ID }).Register(group, guards)
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestListParsesQueryAndFilterKeys(t *testing.T) {
	f := &fakePatients{}
	r := newPatientRouter(f, Guards{})

	rec := serve(r, http.MethodGet, "/patients?search=%20budi%20&sort=name_asc&page=2&limit=50&status=active&gender=&unknown=x", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "budi", f.lastList.Search)
	assert.Equal(t, "name_asc", f.lastList.Sort)
	assert.Equal(t, 2, f.lastList.Page)
	assert.Equal(t, 50, f.lastList.PageSize)
	assert.Equal(t, dataview.FilterState{"status": "active", "gender": ""}, f.lastList.Filters)
	assert.Equal(t, "c1", f.lastScope.ClinicID)

	env := decode(t, rec)
	assert.True(t, env.Success)
	require.Len(t, env.Items, 1)
	assert.Equal(t, "Budi", env.Items[0]["full_name"])
	assert.EqualValues(t, 3, env.Stats["total"])
	assert.EqualValues(t, 1, env.Pagination["total_pages"])
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestListWithoutScopeIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewResourceHandler[models.Patient, patientReq](&fakePatients{}, nil)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/patients", nil)

	h.List(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)
}

func TestGetNotFoundEnvelope(t *testing.T) {
	r := newPatientRouter(&fakePatients{getErr: appErrors.Clone(appErrors.ErrNotFound, "patient not found")}, Guards{})

	rec := serve(r, http.MethodGet, "/patients/p9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "patient not found", env.Message)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestCreateRunsGuardsAndReportsAuditID(t *testing.T) {
	f := &fakePatients{}
	var order []string
	var auditID string
	guards := Guards{
		Write: []gin.HandlerFunc{func(c *gin.Context) { order = append(order, "rbac"); c.Next() }},
		Audit: func(c *gin.Context) {
			order = append(order, "audit")
			c.Next()
			auditID = c.GetString(middleware.AuditResourceIDKey)
		},
	}
	r := newPatientRouter(f, guards)

	rec := serve(r, http.MethodPost, "/patients", `{"full_name":"Eka"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Eka", f.lastCreate.FullName)
	assert.Equal(t, []string{"rbac", "audit"}, order)
	assert.Equal(t, "new-id", auditID)

	order = nil
	rec = serve(r, http.MethodGet, "/patients/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"audit"}, order)
}

func TestCreateRejectsMalformedJSON(t *testing.T) {
	r := newPatientRouter(&fakePatients{}, Guards{})

	rec := serve(r, http.MethodPost, "/patients", `{"full_name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decode(t, rec).Message)
}

func TestCreateValidationFieldsReachClient(t *testing.T) {
	fields := map[string]string{"full_name": "full_name is required"}
	validation := appErrors.Validation(fields)
	validation.Message = "invalid patient payload"
	r := newPatientRouter(&fakePatients{createErr: validation}, Guards{})

	rec := serve(r, http.MethodPost, "/patients", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "invalid patient payload", env.Message)
	assert.Equal(t, fields, env.Error.Fields)
}

func TestExportFormats(t *testing.T) {
	f := &fakePatients{}
	r := newPatientRouter(f, Guards{})

	rec := serve(r, http.MethodGet, "/patients/export?format=pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.FormatPDF, f.lastFormat)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="patients_x.pdf"`, rec.Header().Get("Content-Disposition"))

	rec = serve(r, http.MethodGet, "/patients/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.FormatCSV, f.lastFormat)

	rec = serve(r, http.MethodGet, "/patients/export?format=xlsx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAndStats(t *testing.T) {
	f := &fakePatients{}
	r := newPatientRouter(f, Guards{})

	rec := serve(r, http.MethodDelete, "/patients/p1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "p1", f.deleted)

	rec = serve(r, http.MethodGet, "/patients/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":3,"byStatus":null,"counters":null}`, string(decode(t, rec).Data))
}
