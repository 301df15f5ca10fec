package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/clinic-admin-api/internal/models"
	appErrors "github.com/noah-isme/clinic-admin-api/pkg/errors"
)

const (
	clinicA = "11111111-1111-1111-1111-111111111111"
	clinicB = "22222222-2222-2222-2222-222222222222"
)

var fixedNow = time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// memStore is an in-memory store keyed by ID.
type memStore[R any] struct {
	mu       sync.Mutex
	records  []R
	idOf     func(R) string
	setID    func(*R, string)
	clinicOf func(R) string
	listErr  error
	deleted  []string
}

func (m *memStore[R]) List(_ context.Context, clinicID string) ([]R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]R, 0, len(m.records))
	for _, r := range m.records {
		if clinicID == "" || m.clinicOf(r) == clinicID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore[R]) FindByID(_ context.Context, id string) (*R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if m.idOf(r) == id {
			found := r
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore[R]) Create(_ context.Context, record *R) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.idOf(*record) == "" {
		m.setID(record, uuid.NewString())
	}
	m.records = append(m.records, *record)
	return nil
}

func (m *memStore[R]) Update(_ context.Context, record *R) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if m.idOf(r) == m.idOf(*record) {
			m.records[i] = *record
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore[R]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if m.idOf(r) == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

func patientStore(records ...models.Patient) *memStore[models.Patient] {
	return &memStore[models.Patient]{
		records:  records,
		idOf:     func(p models.Patient) string { return p.ID },
		setID:    func(p *models.Patient, id string) { p.ID = id },
		clinicOf: func(p models.Patient) string { return p.ClinicID },
	}
}

func doctorStore(records ...models.Doctor) *memStore[models.Doctor] {
	return &memStore[models.Doctor]{
		records:  records,
		idOf:     func(d models.Doctor) string { return d.ID },
		setID:    func(d *models.Doctor, id string) { d.ID = id },
		clinicOf: func(d models.Doctor) string { return d.ClinicID },
	}
}

func nurseStore(records ...models.Nurse) *memStore[models.Nurse] {
	return &memStore[models.Nurse]{
		records:  records,
		idOf:     func(n models.Nurse) string { return n.ID },
		setID:    func(n *models.Nurse, id string) { n.ID = id },
		clinicOf: func(n models.Nurse) string { return n.ClinicID },
	}
}

func clinicStore(records ...models.Clinic) *memStore[models.Clinic] {
	return &memStore[models.Clinic]{
		records:  records,
		idOf:     func(c models.Clinic) string { return c.ID },
		setID:    func(c *models.Clinic, id string) { c.ID = id },
		clinicOf: func(c models.Clinic) string { return c.ID },
	}
}

func appointmentStore(records ...models.Appointment) *memStore[models.Appointment] {
	return &memStore[models.Appointment]{
		records:  records,
		idOf:     func(a models.Appointment) string { return a.ID },
		setID:    func(a *models.Appointment, id string) { a.ID = id },
		clinicOf: func(a models.Appointment) string { return a.ClinicID },
	}
}

func referralStore(records ...models.Referral) *memStore[models.Referral] {
	return &memStore[models.Referral]{
		records:  records,
		idOf:     func(r models.Referral) string { return r.ID },
		setID:    func(r *models.Referral, id string) { r.ID = id },
		clinicOf: func(r models.Referral) string { return r.ClinicID },
	}
}

func invoiceStore(records ...models.Invoice) *memStore[models.Invoice] {
	return &memStore[models.Invoice]{
		records:  records,
		idOf:     func(i models.Invoice) string { return i.ID },
		setID:    func(i *models.Invoice, id string) { i.ID = id },
		clinicOf: func(i models.Invoice) string { return i.ClinicID },
	}
}

type recordedChange struct {
	entity   string
	clinicID string
}

type changeRecorder struct {
	changes []recordedChange
}

func (r *changeRecorder) EntityChanged(_ context.Context, entity, clinicID string) {
	r.changes = append(r.changes, recordedChange{entity: entity, clinicID: clinicID})
}

// memCache is a CacheRepository backed by a map.
type memCache struct {
	mu      sync.Mutex
	values  map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{values: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(value, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, pattern)
	removed := 0
	for key := range c.values {
		if matchPattern(pattern, key) {
			delete(c.values, key)
			removed++
		}
	}
	return removed, nil
}

func matchPattern(pattern, key string) bool {
	if n := len(pattern); n > 0 && pattern[n-1] == '*' {
		return len(key) >= n-1 && key[:n-1] == pattern[:n-1]
	}
	return pattern == key
}

func scopeA() Scope {
	return Scope{ClinicID: clinicA, UserID: "u-1", Role: models.RoleClinicAdmin}
}

func superAdmin() Scope {
	return Scope{UserID: "root", Role: models.RoleSuperAdmin}
}

func testDeps(changes ChangeNotifier) Deps {
	return Deps{Changes: changes, Now: func() time.Time { return fixedNow }}
}
