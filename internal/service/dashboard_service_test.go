package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/views"
	appErrors "github.com/noah-isme/clinic-admin-api/pkg/errors"
)

type dashboardFixture struct {
	clinics      *memStore[models.Clinic]
	appointments *memStore[models.Appointment]
	cache        *memCache
	svc          *DashboardService
}

func newDashboardFixture(enabled bool) *dashboardFixture {
	f := &dashboardFixture{
		clinics: clinicStore(
			models.Clinic{ID: clinicA, Name: "Sehat", City: "Bandung", Status: models.ClinicStatusActive},
			models.Clinic{ID: clinicB, Name: "Prima", City: "Jakarta", Status: models.ClinicStatusInactive},
		),
		appointments: appointmentStore(
			models.Appointment{ID: "a1", ClinicID: clinicA, Status: models.AppointmentStatusCompleted, AppointmentDate: day(2023, 11, 20)},
			models.Appointment{ID: "a2", ClinicID: clinicA, Status: models.AppointmentStatusPending, AppointmentDate: day(2024, 1, 5)},
			models.Appointment{ID: "a3", ClinicID: clinicA, Status: models.AppointmentStatusNoShow, AppointmentDate: day(2024, 1, 2)},
			models.Appointment{ID: "a4", ClinicID: clinicB, Status: models.AppointmentStatusConfirmed, AppointmentDate: day(2023, 6, 1)},
		),
		cache: newMemCache(),
	}
	cache := NewCacheService(f.cache, NewMetricsService(), time.Minute, zap.NewNop(), true)
	f.svc = NewDashboardService(DashboardServiceParams{
		Clinics:      f.clinics,
		Patients:     patientStore(models.Patient{ID: "p1", ClinicID: clinicA}, models.Patient{ID: "p2", ClinicID: clinicB}),
		Doctors:      doctorStore(models.Doctor{ID: "d1", ClinicID: clinicA, Status: models.StaffStatusActive}),
		Nurses:       nurseStore(),
		Appointments: f.appointments,
		Referrals:    referralStore(models.Referral{ID: "r1", ClinicID: clinicA, Status: models.ReferralStatusPending}),
		Invoices: invoiceStore(
			models.Invoice{ID: "i1", ClinicID: clinicA, Status: models.InvoiceStatusPartiallyPaid, AmountCents: 10000, PaidCents: 4000, DueDate: day(2024, 1, 1)},
			models.Invoice{ID: "i2", ClinicID: clinicB, Status: models.InvoiceStatusCancelled, AmountCents: 9000},
		),
		Views:  views.NewCatalog(time.UTC, language.English),
		Cache:  cache,
		Config: DashboardServiceConfig{Enabled: enabled, CacheTTL: time.Minute},
	})
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func TestDashboardSummaryAcrossTenants(t *testing.T) {
	f := newDashboardFixture(true)

	summary, cached, err := f.svc.Summary(context.Background(), superAdmin())
	require.NoError(t, err)
	assert.False(t, cached)

	assert.Equal(t, 2, summary.Clinics.Total)
	assert.Equal(t, 1, summary.Clinics.Counter("active"))
	assert.Equal(t, 4, summary.Appointments.Total)
	assert.Equal(t, 1, summary.Appointments.Counter("todayCount"))
	assert.Equal(t, 1, summary.Invoices.Counter("overdue"))
	assert.Equal(t, int64(10000), summary.Revenue.BilledCents)
	assert.Equal(t, int64(4000), summary.Revenue.CollectedCents)
	assert.Equal(t, int64(6000), summary.Revenue.OutstandingCents)

	require.Len(t, summary.ByClinic, 2)
	first := summary.ByClinic[0]
	assert.Equal(t, clinicA, first.ClinicID)
	assert.Equal(t, 3, first.Appointments)
	assert.Equal(t, 1, first.TodayAppointments)
	assert.Equal(t, 1, first.PendingReferrals)
	assert.Equal(t, 1, first.OutstandingInvoices)
	assert.Equal(t, 1, first.Doctors)

	require.Len(t, summary.Trend, 6)
	assert.Equal(t, "2023-08", summary.Trend[0].Month)
	assert.Equal(t, "2024-01", summary.Trend[5].Month)
	assert.Equal(t, 1, summary.Trend[3].Total)
	assert.Equal(t, 1, summary.Trend[3].Completed)
	assert.Equal(t, 2, summary.Trend[5].Total)
	assert.Equal(t, 1, summary.Trend[5].Cancelled)
}

func TestDashboardServedFromCacheUntilInvalidated(t *testing.T) {
	f := newDashboardFixture(true)
	ctx := context.Background()

	_, cached, err := f.svc.Summary(ctx, scopeA())
	require.NoError(t, err)
	assert.False(t, cached)

	f.appointments.records = append(f.appointments.records, models.Appointment{ID: "a5", ClinicID: clinicA, Status: models.AppointmentStatusPending})
	summary, cached, err := f.svc.Summary(ctx, scopeA())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 3, summary.Appointments.Total)

	f.svc.EntityChanged(ctx, "appointments", clinicA)
	assert.ElementsMatch(t, []string{"dash:summary:all", "dash:summary:" + clinicA}, f.cache.deleted)

	summary, cached, err = f.svc.Summary(ctx, scopeA())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 4, summary.Appointments.Total)
	assert.Equal(t, clinicA, summary.ClinicID)
}

func TestDashboardDisabled(t *testing.T) {
	f := newDashboardFixture(false)

	_, _, err := f.svc.Summary(context.Background(), superAdmin())
	assert.True(t, errors.Is(err, appErrors.ErrUnavailable))
}

func TestDashboardLoadFailure(t *testing.T) {
	f := newDashboardFixture(true)
	f.clinics.listErr = errors.New("db down")

	_, _, err := f.svc.Summary(context.Background(), superAdmin())
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}
