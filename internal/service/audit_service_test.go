package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

type auditStore struct {
	mu       sync.Mutex
	rows     []models.AuditLog
	failures int
	listErr  error
}

func (s *auditStore) Create(_ context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("connection reset")
	}
	s.rows = append(s.rows, *log)
	return nil
}

func (s *auditStore) ListByResource(_ context.Context, resource, resourceID string, _ int) ([]models.AuditLog, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AuditLog
	for _, row := range s.rows {
		if row.Resource == resource && row.ResourceID != nil && *row.ResourceID == resourceID {
			out = append(out, row)
		}
	}
	return out, nil
}

func strPtr(v string) *string { return &v }

func TestAuditServiceWritesAsynchronouslyWithRetry(t *testing.T) {
	store := &auditStore{failures: 1}
	svc := NewAuditService(store, AuditServiceConfig{RetryDelay: time.Millisecond}, nil)
	svc.now = func() time.Time { return fixedNow }
	svc.Start(context.Background())
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	entry := &models.AuditLog{Action: models.AuditActionCreate, Resource: "patients", ResourceID: strPtr("p1"), ClinicID: strPtr(clinicA)}
	require.NoError(t, svc.Create(ctx, entry))
	cancel()
	svc.Flush()

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.rows, 1)
	assert.Equal(t, fixedNow.UTC(), store.rows[0].CreatedAt)
}

func TestAuditHistoryHidesOtherClinics(t *testing.T) {
	store := &auditStore{rows: []models.AuditLog{
		{Resource: "patients", ResourceID: strPtr("p1"), ClinicID: strPtr(clinicA), Action: models.AuditActionCreate},
		{Resource: "patients", ResourceID: strPtr("p1"), ClinicID: strPtr(clinicB), Action: models.AuditActionUpdate},
		{Resource: "patients", ResourceID: strPtr("p1"), Action: models.AuditActionDelete},
	}}
	svc := NewAuditService(store, AuditServiceConfig{}, nil)

	rows, err := svc.History(context.Background(), scopeA(), "patients", "p1", 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.AuditActionCreate, rows[0].Action)

	rows, err = svc.History(context.Background(), superAdmin(), "patients", "p1", 20)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestAuditHistoryWrapsStoreErrors(t *testing.T) {
	svc := NewAuditService(&auditStore{listErr: errors.New("boom")}, AuditServiceConfig{}, nil)
	_, err := svc.History(context.Background(), superAdmin(), "patients", "p1", 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load audit history")
}
