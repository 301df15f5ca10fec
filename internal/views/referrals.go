package views

import (
	"time"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// ReferralHeaders are the export columns for referrals.
var ReferralHeaders = []string{"Referral Code", "Patient", "Referring Doctor", "Referred To", "Specialty", "Priority", "Status", "Referral Date", "Reason"}

// Referrals configures the referral list view.
func Referrals() *dataview.View[models.Referral] {
	date := dataview.DateField[models.Referral]{
		Get:  func(r models.Referral) *time.Time { return r.ReferralDate },
		Kind: dataview.Floating,
	}
	created := func(r models.Referral) *time.Time { return r.CreatedAt }
	status := func(r models.Referral) string { return r.Status }

	v := dataview.New[models.Referral]("referrals")
	v.Search(
		models.Referral.PatientDisplayName,
		models.Referral.DoctorDisplayName,
		func(r models.Referral) string { return r.ReferredTo },
		func(r models.Referral) string { return r.ReferralCode },
	)
	v.FilterOn("status", dataview.Enum(status, map[string][]string{
		"closed": {models.ReferralStatusCompleted, models.ReferralStatusRejected, models.ReferralStatusCancelled},
	})).
		FilterOn("priority", dataview.Enum(func(r models.Referral) string { return r.Priority }, nil)).
		FilterOn("date", dataview.OnDate(date)).
		FilterOn("specialty", dataview.Contains(func(r models.Referral) string { return r.Specialty }))

	v.SortBy("latest", dataview.ByTime(created, dataview.Desc), dataview.ByTime(date.Get, dataview.Desc)).
		SortBy("oldest", dataview.ByTime(created, dataview.Asc), dataview.ByTime(date.Get, dataview.Asc)).
		SortBy("referral_date_asc", dataview.ByTime(date.Get, dataview.Asc)).
		SortBy("referral_date_desc", dataview.ByTime(date.Get, dataview.Desc)).
		SortBy("patient_name", dataview.ByText(models.Referral.PatientDisplayName, dataview.Asc)).
		SortBy("status", dataview.ByText(status, dataview.Asc))

	v.Statuses(status,
		models.ReferralStatusPending,
		models.ReferralStatusAccepted,
		models.ReferralStatusCompleted,
		models.ReferralStatusRejected,
		models.ReferralStatusCancelled,
	).
		Compound("pending", models.ReferralStatusPending).
		Compound("accepted", models.ReferralStatusAccepted).
		Compound("closed", models.ReferralStatusCompleted, models.ReferralStatusRejected, models.ReferralStatusCancelled).
		CountDate("todayCount", date, dataview.BucketToday).
		CountWhere("urgent", func(r models.Referral) bool { return r.Priority == models.ReferralPriorityUrgent })

	return v.Project(ReferralHeaders, func(r models.Referral) map[string]string {
		return map[string]string{
			"Referral Code":    r.ReferralCode,
			"Patient":          r.PatientDisplayName(),
			"Referring Doctor": r.DoctorDisplayName(),
			"Referred To":      r.ReferredTo,
			"Specialty":        r.Specialty,
			"Priority":         r.Priority,
			"Status":           r.Status,
			"Referral Date":    formatDate(r.ReferralDate),
			"Reason":           r.Reason,
		}
	})
}
