// Package views holds the per-entity configuration tables for the data view engine:
// searchable fields, status sets with compound buckets, sort modes and export columns.
package views

import (
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// Catalog bundles one configured view per entity.
type Catalog struct {
	Clinics      *dataview.View[models.Clinic]
	Patients     *dataview.View[models.Patient]
	Doctors      *dataview.View[models.Doctor]
	Nurses       *dataview.View[models.Nurse]
	Appointments *dataview.View[models.Appointment]
	Referrals    *dataview.View[models.Referral]
	Invoices     *dataview.View[models.Invoice]
}

// NewCatalog builds every view for the given calendar location and collation locale.
func NewCatalog(loc *time.Location, tag language.Tag) *Catalog {
	return &Catalog{
		Clinics:      Clinics().In(loc).Locale(tag),
		Patients:     Patients().In(loc).Locale(tag),
		Doctors:      Doctors().In(loc).Locale(tag),
		Nurses:       Nurses().In(loc).Locale(tag),
		Appointments: Appointments().In(loc).Locale(tag),
		Referrals:    Referrals().In(loc).Locale(tag),
		Invoices:     Invoices().In(loc).Locale(tag),
	}
}

// ParseLocale resolves a BCP 47 tag, defaulting to English.
func ParseLocale(raw string) language.Tag {
	if raw == "" {
		return language.English
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return language.English
	}
	return tag
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatDateTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	if loc != nil {
		return t.In(loc).Format(dateTimeLayout)
	}
	return t.Format(dateTimeLayout)
}

func formatMoney(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s %d.%02d", sign, currency, cents/100, cents%100)
}
