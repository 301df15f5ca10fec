package dto

import (
	"time"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
)

// DashboardResponse captures the aggregated admin dashboard payload.
type DashboardResponse struct {
	ClinicID     string            `json:"clinicId,omitempty"`
	GeneratedAt  time.Time         `json:"generatedAt"`
	Clinics      dataview.Stats    `json:"clinics"`
	Patients     dataview.Stats    `json:"patients"`
	Doctors      dataview.Stats    `json:"doctors"`
	Nurses       dataview.Stats    `json:"nurses"`
	Appointments dataview.Stats    `json:"appointments"`
	Referrals    dataview.Stats    `json:"referrals"`
	Invoices     dataview.Stats    `json:"invoices"`
	Revenue      RevenueSection    `json:"revenue"`
	ByClinic     []ClinicBreakdown `json:"byClinic"`
	Trend        []TrendPoint      `json:"appointmentTrend"`
}

// RevenueSection sums invoice amounts in minor units, ignoring cancelled invoices.
type RevenueSection struct {
	BilledCents      int64 `json:"billedCents"`
	CollectedCents   int64 `json:"collectedCents"`
	OutstandingCents int64 `json:"outstandingCents"`
}

// ClinicBreakdown is the per-tenant row of the dashboard.
type ClinicBreakdown struct {
	ClinicID            string `json:"clinicId"`
	Name                string `json:"name"`
	City                string `json:"city"`
	Status              string `json:"status"`
	Patients            int    `json:"patients"`
	Doctors             int    `json:"doctors"`
	Nurses              int    `json:"nurses"`
	Appointments        int    `json:"appointments"`
	TodayAppointments   int    `json:"todayAppointments"`
	PendingReferrals    int    `json:"pendingReferrals"`
	OutstandingInvoices int    `json:"outstandingInvoices"`
}

// TrendPoint counts appointments scheduled within one calendar month.
type TrendPoint struct {
	Month     string `json:"month"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Cancelled int    `json:"cancelled"`
}
