package views

import (
	"time"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// ClinicHeaders are the export columns for clinics.
var ClinicHeaders = []string{"Code", "Name", "Email", "Phone", "City", "State", "Plan", "Status", "Created At"}

// Clinics configures the super-admin clinic list view.
func Clinics() *dataview.View[models.Clinic] {
	created := func(c models.Clinic) *time.Time { return c.CreatedAt }
	status := func(c models.Clinic) string { return c.Status }

	v := dataview.New[models.Clinic]("clinics")
	v.Search(
		func(c models.Clinic) string { return c.Name },
		func(c models.Clinic) string { return c.Code },
		func(c models.Clinic) string { return c.Email },
		func(c models.Clinic) string { return c.City },
		func(c models.Clinic) string { return c.State },
	)
	v.FilterOn("status", dataview.Enum(status, nil)).
		FilterOn("city", dataview.Contains(func(c models.Clinic) string { return c.City })).
		FilterOn("plan", dataview.Enum(func(c models.Clinic) string { return c.Plan }, nil))

	v.SortBy("latest", dataview.ByTime(created, dataview.Desc)).
		SortBy("oldest", dataview.ByTime(created, dataview.Asc)).
		SortBy("clinic_name", dataview.ByText(func(c models.Clinic) string { return c.Name }, dataview.Asc)).
		SortBy("status", dataview.ByText(status, dataview.Asc))

	v.Statuses(status, models.ClinicStatusActive, models.ClinicStatusInactive).
		Compound("active", models.ClinicStatusActive).
		Compound("inactive", models.ClinicStatusInactive).
		CountDate("createdToday", dataview.DateField[models.Clinic]{Get: created, Kind: dataview.Instant}, dataview.BucketToday)

	return v.Project(ClinicHeaders, func(c models.Clinic) map[string]string {
		return map[string]string{
			"Code":       c.Code,
			"Name":       c.Name,
			"Email":      c.Email,
			"Phone":      c.Phone,
			"City":       c.City,
			"State":      c.State,
			"Plan":       c.Plan,
			"Status":     c.Status,
			"Created At": formatDateTime(c.CreatedAt, v.Location()),
		}
	})
}
