package views

import (
	"time"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// AppointmentHeaders are the export columns for appointments.
var AppointmentHeaders = []string{"Appointment No", "Patient", "Doctor", "Clinic", "Date", "Time", "Type", "Status", "Reason", "Created At"}

// Appointments configures the appointment list view.
func Appointments() *dataview.View[models.Appointment] {
	date := dataview.DateField[models.Appointment]{
		Get:  func(a models.Appointment) *time.Time { return a.AppointmentDate },
		Kind: dataview.Floating,
	}
	created := func(a models.Appointment) *time.Time { return a.CreatedAt }
	status := func(a models.Appointment) string { return a.Status }

	v := dataview.New[models.Appointment]("appointments")
	v.Search(
		models.Appointment.PatientDisplayName,
		models.Appointment.DoctorDisplayName,
		func(a models.Appointment) string { return a.AppointmentNumber },
		models.Appointment.ClinicDisplayName,
		models.Appointment.ClinicCity,
	)
	v.FilterOn("status", dataview.Enum(status, map[string][]string{
		"scheduled": {models.AppointmentStatusPending},
		"cancelled": {models.AppointmentStatusCancelled, models.AppointmentStatusNoShow},
	})).
		FilterOn("date", dataview.OnDate(date)).
		FilterOn("doctor", dataview.Contains(models.Appointment.DoctorDisplayName)).
		FilterOn("doctorId", dataview.Equals(func(a models.Appointment) string { return a.DoctorID })).
		FilterOn("patientId", dataview.Equals(func(a models.Appointment) string { return a.PatientID })).
		FilterOn("type", dataview.Enum(func(a models.Appointment) string { return a.Type }, nil))

	v.SortBy("latest", dataview.ByTime(created, dataview.Desc), dataview.ByTime(date.Get, dataview.Desc)).
		SortBy("oldest", dataview.ByTime(created, dataview.Asc), dataview.ByTime(date.Get, dataview.Asc)).
		SortBy("appointment_date_asc", dataview.ByTime(date.Get, dataview.Asc)).
		SortBy("appointment_date_desc", dataview.ByTime(date.Get, dataview.Desc)).
		SortBy("patient_name", dataview.ByText(models.Appointment.PatientDisplayName, dataview.Asc)).
		SortBy("doctor_name", dataview.ByText(models.Appointment.DoctorDisplayName, dataview.Asc)).
		SortBy("status", dataview.ByText(status, dataview.Asc))

	v.Statuses(status,
		models.AppointmentStatusPending,
		models.AppointmentStatusConfirmed,
		models.AppointmentStatusCompleted,
		models.AppointmentStatusCancelled,
		models.AppointmentStatusNoShow,
	).
		Compound("scheduled", models.AppointmentStatusPending).
		Compound("confirmed", models.AppointmentStatusConfirmed).
		Compound("completed", models.AppointmentStatusCompleted).
		Compound("cancelled", models.AppointmentStatusCancelled, models.AppointmentStatusNoShow).
		CountDate("todayCount", date, dataview.BucketToday).
		CountDate("upcomingCount", date, dataview.BucketUpcoming).
		CountDate("pastCount", date, dataview.BucketPast)

	return v.Project(AppointmentHeaders, func(a models.Appointment) map[string]string {
		return map[string]string{
			"Appointment No": a.AppointmentNumber,
			"Patient":        a.PatientDisplayName(),
			"Doctor":         a.DoctorDisplayName(),
			"Clinic":         a.ClinicDisplayName(),
			"Date":           formatDate(a.AppointmentDate),
			"Time":           a.TimeSlot,
			"Type":           a.Type,
			"Status":         a.Status,
			"Reason":         a.Reason,
			"Created At":     formatDateTime(a.CreatedAt, v.Location()),
		}
	})
}
