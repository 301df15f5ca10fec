package views

import (
	"time"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// PatientHeaders are the export columns for patients.
var PatientHeaders = []string{"Patient Code", "Full Name", "Gender", "Date of Birth", "Blood Group", "Phone", "Email", "City", "Clinic", "Status", "Registered At"}

// Patients configures the patient list view.
func Patients() *dataview.View[models.Patient] {
	created := dataview.DateField[models.Patient]{
		Get:  func(p models.Patient) *time.Time { return p.CreatedAt },
		Kind: dataview.Instant,
	}
	status := func(p models.Patient) string { return p.Status }

	v := dataview.New[models.Patient]("patients")
	v.Search(
		func(p models.Patient) string { return p.FullName },
		func(p models.Patient) string { return p.PatientCode },
		func(p models.Patient) string { return p.Phone },
		func(p models.Patient) string { return p.Email },
		func(p models.Patient) string { return p.City },
	)
	v.FilterOn("status", dataview.Enum(status, nil)).
		FilterOn("gender", dataview.Enum(func(p models.Patient) string { return p.Gender }, nil)).
		FilterOn("bloodGroup", dataview.Enum(func(p models.Patient) string { return p.BloodGroup }, nil)).
		FilterOn("city", dataview.Contains(func(p models.Patient) string { return p.City })).
		FilterOn("registered", dataview.OnDate(created))

	v.SortBy("latest", dataview.ByTime(created.Get, dataview.Desc)).
		SortBy("oldest", dataview.ByTime(created.Get, dataview.Asc)).
		SortBy("patient_name", dataview.ByText(func(p models.Patient) string { return p.FullName }, dataview.Asc)).
		SortBy("status", dataview.ByText(status, dataview.Asc))

	v.Statuses(status, models.PatientStatusActive, models.PatientStatusInactive).
		Compound("active", models.PatientStatusActive).
		Compound("inactive", models.PatientStatusInactive).
		CountDate("registeredToday", created, dataview.BucketToday)

	return v.Project(PatientHeaders, func(p models.Patient) map[string]string {
		return map[string]string{
			"Patient Code":  p.PatientCode,
			"Full Name":     p.FullName,
			"Gender":        p.Gender,
			"Date of Birth": formatDate(p.DateOfBirth),
			"Blood Group":   p.BloodGroup,
			"Phone":         p.Phone,
			"Email":         p.Email,
			"City":          p.City,
			"Clinic":        p.ClinicDisplayName(),
			"Status":        p.Status,
			"Registered At": formatDateTime(p.CreatedAt, v.Location()),
		}
	})
}
