package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	appErrors "github.com/noah-isme/clinic-admin-api/pkg/errors"
	"github.com/noah-isme/clinic-admin-api/pkg/export"
)

// store is the persistence contract every entity repository satisfies.
type store[R any] interface {
	List(ctx context.Context, clinicID string) ([]R, error)
	FindByID(ctx context.Context, id string) (*R, error)
	Create(ctx context.Context, record *R) error
	Update(ctx context.Context, record *R) error
	Delete(ctx context.Context, id string) error
}

type finder[R any] interface {
	FindByID(ctx context.Context, id string) (*R, error)
}

// ChangeNotifier is told after a successful mutation so derived caches can be dropped.
type ChangeNotifier interface {
	EntityChanged(ctx context.Context, entity, clinicID string)
}

// ListRequest carries list parameters parsed by the HTTP layer.
type ListRequest struct {
	Search   string
	Sort     string
	Filters  dataview.FilterState
	Page     int
	PageSize int
}

// Deps groups the collaborators shared by every entity service.
type Deps struct {
	Validator *validator.Validate
	Exporter  *ExportService
	Metrics   *MetricsService
	Changes   ChangeNotifier
	Logger    *zap.Logger
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Validator == nil {
		d.Validator = NewValidator()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Exporter == nil {
		d.Exporter = NewExportService(d.Logger, nil, nil)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// crud implements the list, stats, read, delete and export use-cases on top of
// a full-collection load and the entity's view configuration.
type crud[R any] struct {
	noun     string
	store    store[R]
	view     *dataview.View[R]
	clinicOf func(R) string
	Deps
}

func newCRUD[R any](noun string, st store[R], view *dataview.View[R], clinicOf func(R) string, deps Deps) *crud[R] {
	return &crud[R]{noun: noun, store: st, view: view, clinicOf: clinicOf, Deps: deps.withDefaults()}
}

func (c *crud[R]) load(ctx context.Context, scope Scope) ([]R, error) {
	start := time.Now()
	records, err := c.store.List(ctx, scope.ClinicID)
	c.Metrics.ObserveDBQuery("list_"+c.view.Name(), time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to list %s", c.view.Name()))
	}
	return records, nil
}

// List filters, orders and pages the scope's collection. Stats always describe
// the whole collection, not the filtered page.
func (c *crud[R]) List(ctx context.Context, scope Scope, req ListRequest) ([]R, dataview.Stats, *models.Pagination, error) {
	records, err := c.load(ctx, scope)
	if err != nil {
		return nil, dataview.Stats{}, nil, err
	}
	start := time.Now()
	result := c.view.Apply(records, dataview.Query{Filters: req.Filters, Search: req.Search, Sort: req.Sort}, c.Now())
	c.Metrics.ObserveViewApply(c.view.Name(), len(records), time.Since(start))

	items, page, size := dataview.Page(result.Items, req.Page, req.PageSize)
	total := len(result.Items)
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total, TotalPages: (total + size - 1) / size}
	return items, result.Stats, pagination, nil
}

// Stats aggregates the scope's collection.
func (c *crud[R]) Stats(ctx context.Context, scope Scope) (dataview.Stats, error) {
	records, err := c.load(ctx, scope)
	if err != nil {
		return dataview.Stats{}, err
	}
	return c.view.Aggregate(records, c.view.Clock(c.Now())), nil
}

// Get returns one record. Records of other tenants are reported as not found.
func (c *crud[R]) Get(ctx context.Context, scope Scope, id string) (*R, error) {
	record, err := c.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, c.notFound()
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s", c.noun))
	}
	if !scope.owns(c.clinicOf(*record)) {
		return nil, c.notFound()
	}
	return record, nil
}

// Delete removes one record after the ownership check.
func (c *crud[R]) Delete(ctx context.Context, scope Scope, id string) error {
	record, err := c.Get(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := c.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.notFound()
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to delete %s", c.noun))
	}
	c.changed(ctx, "delete", c.clinicOf(*record))
	return nil
}

// Export renders the scope's full, unfiltered collection.
func (c *crud[R]) Export(ctx context.Context, scope Scope, format export.Format) (*ExportFile, error) {
	records, err := c.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	file, err := c.Exporter.Render(c.view.Name(), format, c.view.Dataset(records))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to export %s", c.view.Name()))
	}
	return file, nil
}

// FilterKeys lists the filter query parameters the entity understands.
func (c *crud[R]) FilterKeys() []string {
	return c.view.FilterKeys()
}

func (c *crud[R]) create(ctx context.Context, record *R) error {
	if err := c.store.Create(ctx, record); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to create %s", c.noun))
	}
	c.changed(ctx, "create", c.clinicOf(*record))
	return nil
}

func (c *crud[R]) update(ctx context.Context, record *R) error {
	if err := c.store.Update(ctx, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.notFound()
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to update %s", c.noun))
	}
	c.changed(ctx, "update", c.clinicOf(*record))
	return nil
}

// reload re-reads a record after a write so joined names are current.
func (c *crud[R]) reload(ctx context.Context, id string, fallback *R) *R {
	record, err := c.store.FindByID(ctx, id)
	if err != nil {
		c.Logger.Warn("reload after write failed", zap.String("entity", c.noun), zap.String("id", id), zap.Error(err))
		return fallback
	}
	return record
}

func (c *crud[R]) validate(payload interface{}) error {
	return validatePayload(c.Validator, c.noun, payload)
}

func (c *crud[R]) changed(ctx context.Context, op, clinicID string) {
	c.Metrics.ObserveMutation(c.view.Name(), op)
	if c.Changes != nil {
		c.Changes.EntityChanged(ctx, c.view.Name(), clinicID)
	}
}

func (c *crud[R]) notFound() error {
	return appErrors.Clone(appErrors.ErrNotFound, c.noun+" not found")
}

// parseDay reads a YYYY-MM-DD calendar date. Empty input yields nil.
func parseDay(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dataview.ISODate, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// related checks that a referenced record exists in clinicID. A missing or
// foreign record is reported as a validation error on field.
func related[R any](ctx context.Context, f finder[R], id, clinicID, noun, field string, clinicOf func(R) string) (*R, error) {
	record, err := f.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invalidField(noun, field, field+" does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to resolve %s", field))
	}
	if clinicOf(*record) != clinicID {
		return nil, invalidField(noun, field, field+" belongs to another clinic")
	}
	return record, nil
}

func invalidField(noun, field, message string) error {
	err := appErrors.Validation(map[string]string{field: message})
	err.Message = fmt.Sprintf("invalid %s payload", noun)
	return err
}

// generateCode builds a human-readable identifier such as APT-20240105-1A2B3C4D.
func generateCode(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, now.UTC().Format("20060102"), suffix)
}
