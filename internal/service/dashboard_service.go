package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/dto"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/views"
	appErrors "github.com/noah-isme/clinic-admin-api/pkg/errors"
)

const (
	dashboardKeyPrefix = "dash:summary:"
	trendMonths        = 6
)

type lister[R any] interface {
	List(ctx context.Context, clinicID string) ([]R, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	Enabled  bool
	CacheTTL time.Duration
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Clinics      lister[models.Clinic]
	Patients     lister[models.Patient]
	Doctors      lister[models.Doctor]
	Nurses       lister[models.Nurse]
	Appointments lister[models.Appointment]
	Referrals    lister[models.Referral]
	Invoices     lister[models.Invoice]
	Views        *views.Catalog
	Cache        *CacheService
	Logger       *zap.Logger
	Config       DashboardServiceConfig
}

// DashboardService composes cross-entity summaries from the same view tables the
// list endpoints use.
type DashboardService struct {
	params DashboardServiceParams
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if params.Views == nil {
		params.Views = views.NewCatalog(time.Local, views.ParseLocale(""))
	}
	return &DashboardService{params: params, cache: params.Cache, logger: logger, now: time.Now, cfg: cfg}
}

// Summary returns the dashboard for the scope and reports whether it came from cache.
func (s *DashboardService) Summary(ctx context.Context, scope Scope) (*dto.DashboardResponse, bool, error) {
	if !s.cfg.Enabled {
		return nil, false, appErrors.Clone(appErrors.ErrUnavailable, "dashboard is disabled")
	}
	key := dashboardKey(scope.ClinicID)
	if summary, hit, err := s.tryCache(ctx, key); err != nil {
		return nil, false, err
	} else if hit {
		return summary, true, nil
	}

	summary, err := s.compose(ctx, scope.ClinicID)
	if err != nil {
		return nil, false, err
	}
	s.persistCache(ctx, key, summary)
	return summary, false, nil
}

// EntityChanged drops cached summaries touching clinicID.
func (s *DashboardService) EntityChanged(ctx context.Context, entity, clinicID string) {
	if !s.cache.Enabled() {
		return
	}
	patterns := []string{dashboardKeyPrefix + "*"}
	if clinicID != "" {
		patterns = []string{dashboardKey(""), dashboardKey(clinicID)}
	}
	for _, pattern := range patterns {
		if err := s.cache.Invalidate(ctx, pattern); err != nil {
			s.logger.Warn("dashboard invalidation failed", zap.String("entity", entity), zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

func dashboardKey(clinicID string) string {
	if clinicID == "" {
		return dashboardKeyPrefix + "all"
	}
	return dashboardKeyPrefix + clinicID
}

func (s *DashboardService) tryCache(ctx context.Context, key string) (*dto.DashboardResponse, bool, error) {
	if s.cache == nil {
		return nil, false, nil
	}
	var cached dto.DashboardResponse
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		return nil, false, err
	}
	if hit {
		return &cached, true, nil
	}
	return nil, false, nil
}

func (s *DashboardService) persistCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

type dashboardData struct {
	clinics      []models.Clinic
	patients     []models.Patient
	doctors      []models.Doctor
	nurses       []models.Nurse
	appointments []models.Appointment
	referrals    []models.Referral
	invoices     []models.Invoice
}

func (s *DashboardService) load(ctx context.Context, clinicID string) (*dashboardData, error) {
	p := s.params
	if p.Clinics == nil || p.Patients == nil || p.Doctors == nil || p.Nurses == nil ||
		p.Appointments == nil || p.Referrals == nil || p.Invoices == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "dashboard sources unavailable")
	}
	var (
		data dashboardData
		err  error
	)
	if data.clinics, err = p.Clinics.List(ctx, clinicID); err != nil {
		return nil, loadFailed("clinics", err)
	}
	if data.patients, err = p.Patients.List(ctx, clinicID); err != nil {
		return nil, loadFailed("patients", err)
	}
	if data.doctors, err = p.Doctors.List(ctx, clinicID); err != nil {
		return nil, loadFailed("doctors", err)
	}
	if data.nurses, err = p.Nurses.List(ctx, clinicID); err != nil {
		return nil, loadFailed("nurses", err)
	}
	if data.appointments, err = p.Appointments.List(ctx, clinicID); err != nil {
		return nil, loadFailed("appointments", err)
	}
	if data.referrals, err = p.Referrals.List(ctx, clinicID); err != nil {
		return nil, loadFailed("referrals", err)
	}
	if data.invoices, err = p.Invoices.List(ctx, clinicID); err != nil {
		return nil, loadFailed("invoices", err)
	}
	return &data, nil
}

func loadFailed(entity string, err error) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s", entity))
}

func (s *DashboardService) compose(ctx context.Context, clinicID string) (*dto.DashboardResponse, error) {
	data, err := s.load(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	cat := s.params.Views

	summary := &dto.DashboardResponse{
		ClinicID:     clinicID,
		GeneratedAt:  now.UTC(),
		Clinics:      cat.Clinics.Aggregate(data.clinics, cat.Clinics.Clock(now)),
		Patients:     cat.Patients.Aggregate(data.patients, cat.Patients.Clock(now)),
		Doctors:      cat.Doctors.Aggregate(data.doctors, cat.Doctors.Clock(now)),
		Nurses:       cat.Nurses.Aggregate(data.nurses, cat.Nurses.Clock(now)),
		Appointments: cat.Appointments.Aggregate(data.appointments, cat.Appointments.Clock(now)),
		Referrals:    cat.Referrals.Aggregate(data.referrals, cat.Referrals.Clock(now)),
		Invoices:     cat.Invoices.Aggregate(data.invoices, cat.Invoices.Clock(now)),
		Revenue:      buildRevenue(data.invoices),
		ByClinic:     s.buildBreakdown(data, now),
		Trend:        buildTrend(data.appointments, cat.Appointments.Clock(now)),
	}
	return summary, nil
}

func buildRevenue(invoices []models.Invoice) dto.RevenueSection {
	var section dto.RevenueSection
	for _, invoice := range invoices {
		if invoice.Status == models.InvoiceStatusCancelled {
			continue
		}
		section.BilledCents += invoice.AmountCents
		section.CollectedCents += invoice.PaidCents
	}
	section.OutstandingCents = section.BilledCents - section.CollectedCents
	return section
}

func (s *DashboardService) buildBreakdown(data *dashboardData, now time.Time) []dto.ClinicBreakdown {
	cat := s.params.Views
	rows := make(map[string]*dto.ClinicBreakdown, len(data.clinics))
	for _, clinic := range data.clinics {
		rows[clinic.ID] = &dto.ClinicBreakdown{ClinicID: clinic.ID, Name: clinic.Name, City: clinic.City, Status: clinic.Status}
	}
	row := func(clinicID string) *dto.ClinicBreakdown {
		if r, ok := rows[clinicID]; ok {
			return r
		}
		return &dto.ClinicBreakdown{}
	}
	for _, p := range data.patients {
		row(p.ClinicID).Patients++
	}
	for _, d := range data.doctors {
		row(d.ClinicID).Doctors++
	}
	for _, n := range data.nurses {
		row(n.ClinicID).Nurses++
	}

	appointments := groupByClinic(data.appointments, func(a models.Appointment) string { return a.ClinicID })
	referrals := groupByClinic(data.referrals, func(r models.Referral) string { return r.ClinicID })
	invoices := groupByClinic(data.invoices, func(i models.Invoice) string { return i.ClinicID })
	for id, r := range rows {
		stats := cat.Appointments.Aggregate(appointments[id], cat.Appointments.Clock(now))
		r.Appointments = stats.Total
		r.TodayAppointments = stats.Counter("todayCount")
		r.PendingReferrals = cat.Referrals.Aggregate(referrals[id], cat.Referrals.Clock(now)).Counter("pending")
		r.OutstandingInvoices = cat.Invoices.Aggregate(invoices[id], cat.Invoices.Clock(now)).Counter("outstanding")
	}

	out := make([]dto.ClinicBreakdown, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Appointments == out[j].Appointments {
			return out[i].Name < out[j].Name
		}
		return out[i].Appointments > out[j].Appointments
	})
	return out
}

func groupByClinic[R any](records []R, clinicOf func(R) string) map[string][]R {
	groups := make(map[string][]R)
	for _, r := range records {
		id := clinicOf(r)
		groups[id] = append(groups[id], r)
	}
	return groups
}

// buildTrend counts appointments per calendar month for the current month and
// the five before it, oldest first.
func buildTrend(appointments []models.Appointment, clock dataview.Clock) []dto.TrendPoint {
	today := clock.Today()
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	points := make([]dto.TrendPoint, trendMonths)
	index := make(map[string]int, trendMonths)
	for i := 0; i < trendMonths; i++ {
		month := first.AddDate(0, i-(trendMonths-1), 0).Format("2006-01")
		points[i] = dto.TrendPoint{Month: month}
		index[month] = i
	}
	for _, a := range appointments {
		if a.AppointmentDate == nil || a.AppointmentDate.IsZero() {
			continue
		}
		i, ok := index[clock.Day(*a.AppointmentDate, dataview.Floating).Format("2006-01")]
		if !ok {
			continue
		}
		points[i].Total++
		switch a.Status {
		case models.AppointmentStatusCompleted:
			points[i].Completed++
		case models.AppointmentStatusCancelled, models.AppointmentStatusNoShow:
			points[i].Cancelled++
		}
	}
	return points
}
