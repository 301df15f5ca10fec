package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/clinic-admin-api/internal/models"
	appErrors "github.com/noah-isme/clinic-admin-api/pkg/errors"
	"github.com/noah-isme/clinic-admin-api/pkg/jobs"
)

// AuditStore persists and reads audit rows.
type AuditStore interface {
	Create(ctx context.Context, log *models.AuditLog) error
	ListByResource(ctx context.Context, resource, resourceID string, limit int) ([]models.AuditLog, error)
}

// AuditServiceConfig tunes the write queue.
type AuditServiceConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// AuditService records audit entries off the request path and serves history.
type AuditService struct {
	store  AuditStore
	queue  *jobs.Queue[models.AuditLog]
	logger *zap.Logger
	now    func() time.Time
}

// NewAuditService builds the service; call Start before the first Create.
func NewAuditService(store AuditStore, cfg AuditServiceConfig, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	s := &AuditService{store: store, logger: logger, now: time.Now}
	s.queue = jobs.NewQueue[models.AuditLog]("audit", s.write, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the writers.
func (s *AuditService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Close flushes pending entries and stops the writers.
func (s *AuditService) Close() {
	s.queue.Drain()
	s.queue.Stop()
}

// Flush waits for every accepted entry to be written or dropped.
func (s *AuditService) Flush() { s.queue.Drain() }

// Create stamps the entry and hands it to the write queue. The request context
// is not carried over since it ends with the response.
func (s *AuditService) Create(_ context.Context, log *models.AuditLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = s.now().UTC()
	}
	return s.queue.Enqueue(*log)
}

func (s *AuditService) write(ctx context.Context, log models.AuditLog) error {
	return s.store.Create(ctx, &log)
}

// History lists the latest entries for one record, newest first. Tenant users
// only see entries of their own clinic.
func (s *AuditService) History(ctx context.Context, scope Scope, resource, resourceID string, limit int) ([]models.AuditLog, error) {
	rows, err := s.store.ListByResource(ctx, resource, resourceID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit history")
	}
	if scope.ClinicID == "" {
		return rows, nil
	}
	visible := make([]models.AuditLog, 0, len(rows))
	for _, row := range rows {
		if row.ClinicID != nil && *row.ClinicID == scope.ClinicID {
			visible = append(visible, row)
		}
	}
	return visible, nil
}
