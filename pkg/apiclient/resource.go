package apiclient

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// maxPageSize mirrors the server's page size clamp.
const maxPageSize = 100

// ListParams are the query parameters of a list call.
type ListParams struct {
	Search   string
	Sort     string
	Filters  map[string]string
	Page     int
	Limit    int
	ClinicID string
}

func (p ListParams) query() map[string]string {
	q := make(map[string]string, len(p.Filters)+5)
	for key, value := range p.Filters {
		if value != "" {
			q[key] = value
		}
	}
	if p.Search != "" {
		q["search"] = p.Search
	}
	if p.Sort != "" {
		q["sort"] = p.Sort
	}
	if p.Page > 0 {
		q["page"] = strconv.Itoa(p.Page)
	}
	if p.Limit > 0 {
		q["limit"] = strconv.Itoa(p.Limit)
	}
	if p.ClinicID != "" {
		q["clinicId"] = p.ClinicID
	}
	return q
}

// Page is one list response.
type Page[R any] struct {
	Items      []R
	Stats      dataview.Stats
	Pagination models.Pagination
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

type envelope[R any] struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       *R                 `json:"data"`
	Items      []R                `json:"items"`
	Stats      *dataview.Stats    `json:"stats"`
	Error      *errorBody         `json:"error"`
	Pagination *models.Pagination `json:"pagination"`
}

func (e *envelope[R]) failure(status int) *APIError {
	apiErr := &APIError{Status: status, Message: e.Message}
	if e.Error != nil {
		apiErr.Code = e.Error.Code
		apiErr.Fields = e.Error.Fields
		if apiErr.Message == "" {
			apiErr.Message = e.Error.Message
		}
	}
	return apiErr
}

// Resource is typed CRUD access to one collection endpoint.
type Resource[R any] struct {
	client *Client
	path   string
}

// NewResource binds a collection path such as "/patients".
func NewResource[R any](client *Client, path string) *Resource[R] {
	return &Resource[R]{client: client, path: path}
}

// List fetches one page.
func (r *Resource[R]) List(ctx context.Context, params ListParams) (*Page[R], error) {
	env, err := r.do(ctx, http.MethodGet, "", nil, params.query())
	if err != nil {
		return nil, err
	}
	page := &Page[R]{Items: env.Items}
	if page.Items == nil {
		page.Items = []R{}
	}
	if env.Stats != nil {
		page.Stats = *env.Stats
	}
	if env.Pagination != nil {
		page.Pagination = *env.Pagination
	}
	return page, nil
}

// All walks every page and returns the full collection. Filters and search in
// params still apply server-side; pass zero params for the raw collection.
func (r *Resource[R]) All(ctx context.Context, params ListParams) ([]R, error) {
	params.Limit = maxPageSize
	var records []R
	for page := 1; ; page++ {
		params.Page = page
		result, err := r.List(ctx, params)
		if err != nil {
			return nil, err
		}
		records = append(records, result.Items...)
		if len(result.Items) == 0 || page >= result.Pagination.TotalPages {
			break
		}
	}
	if records == nil {
		records = []R{}
	}
	return records, nil
}

// Stats fetches the aggregator counters.
func (r *Resource[R]) Stats(ctx context.Context, clinicID string) (dataview.Stats, error) {
	var env struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Data    dataview.Stats `json:"data"`
		Error   *errorBody     `json:"error"`
	}
	req := r.client.http.R().SetContext(ctx).SetResult(&env).SetError(&env)
	if clinicID != "" {
		req.SetQueryParam("clinicId", clinicID)
	}
	resp, err := req.Get(r.path + "/stats")
	if err != nil {
		return dataview.Stats{}, fmt.Errorf("get %s/stats: %w", r.path, err)
	}
	if !env.Success {
		failed := envelope[R]{Message: env.Message, Error: env.Error}
		return dataview.Stats{}, failed.failure(resp.StatusCode())
	}
	return env.Data, nil
}

// Get fetches one record.
func (r *Resource[R]) Get(ctx context.Context, id string) (*R, error) {
	env, err := r.do(ctx, http.MethodGet, "/"+id, nil, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Create posts payload and returns the stored record.
func (r *Resource[R]) Create(ctx context.Context, payload interface{}) (*R, error) {
	env, err := r.do(ctx, http.MethodPost, "", payload, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Update replaces the record with id.
func (r *Resource[R]) Update(ctx context.Context, id string, payload interface{}) (*R, error) {
	env, err := r.do(ctx, http.MethodPut, "/"+id, payload, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Delete removes the record with id.
func (r *Resource[R]) Delete(ctx context.Context, id string) error {
	_, err := r.do(ctx, http.MethodDelete, "/"+id, nil, nil)
	return err
}

// Download fetches the server-rendered export and its suggested filename.
func (r *Resource[R]) Download(ctx context.Context, format string) ([]byte, string, error) {
	var env envelope[R]
	req := r.client.http.R().SetContext(ctx).SetError(&env).SetHeader("Accept", "*/*")
	if format != "" {
		req.SetQueryParam("format", format)
	}
	resp, err := req.Get(r.path + "/export")
	if err != nil {
		return nil, "", fmt.Errorf("get %s/export: %w", r.path, err)
	}
	if resp.IsError() {
		return nil, "", env.failure(resp.StatusCode())
	}
	filename := ""
	if _, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return resp.Body(), filename, nil
}

func (r *Resource[R]) do(ctx context.Context, method, suffix string, body interface{}, query map[string]string) (*envelope[R], error) {
	var env envelope[R]
	req := r.client.http.R().SetContext(ctx).SetResult(&env).SetError(&env)
	if body != nil {
		req.SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	url := r.path + suffix
	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	if resp.StatusCode() == http.StatusNoContent {
		return &envelope[R]{Success: true}, nil
	}
	if !env.Success {
		return nil, env.failure(resp.StatusCode())
	}
	return &env, nil
}
