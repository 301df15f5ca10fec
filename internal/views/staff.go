package views

import (
	"strconv"
	"time"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// DoctorHeaders are the export columns for doctors.
var DoctorHeaders = []string{"Doctor Code", "Full Name", "Specialization", "Qualification", "Experience (years)", "Email", "Phone", "Clinic", "Status"}

// NurseHeaders are the export columns for nurses.
var NurseHeaders = []string{"Nurse Code", "Full Name", "Department", "Shift", "Email", "Phone", "Clinic", "Status"}

// Doctors configures the doctor list view.
func Doctors() *dataview.View[models.Doctor] {
	created := func(d models.Doctor) *time.Time { return d.CreatedAt }
	status := func(d models.Doctor) string { return d.Status }
	name := func(d models.Doctor) string { return d.FullName }

	v := dataview.New[models.Doctor]("doctors")
	v.Search(
		name,
		func(d models.Doctor) string { return d.DoctorCode },
		func(d models.Doctor) string { return d.Specialization },
		func(d models.Doctor) string { return d.Email },
		models.Doctor.ClinicDisplayName,
	)
	v.FilterOn("status", dataview.Enum(status, nil)).
		FilterOn("specialization", dataview.Contains(func(d models.Doctor) string { return d.Specialization })).
		FilterOn("clinic", dataview.Contains(models.Doctor.ClinicDisplayName))

	v.SortBy("latest", dataview.ByTime(created, dataview.Desc)).
		SortBy("oldest", dataview.ByTime(created, dataview.Asc)).
		SortBy("doctor_name", dataview.ByText(name, dataview.Asc)).
		SortBy("status", dataview.ByText(status, dataview.Asc))

	v.Statuses(status, models.StaffStatusActive, models.StaffStatusInactive, models.StaffStatusOnLeave).
		Compound("active", models.StaffStatusActive).
		Compound("inactive", models.StaffStatusInactive).
		Compound("onLeave", models.StaffStatusOnLeave)

	return v.Project(DoctorHeaders, func(d models.Doctor) map[string]string {
		return map[string]string{
			"Doctor Code":        d.DoctorCode,
			"Full Name":          d.FullName,
			"Specialization":     d.Specialization,
			"Qualification":      d.Qualification,
			"Experience (years)": strconv.Itoa(d.ExperienceYears),
			"Email":              d.Email,
			"Phone":              d.Phone,
			"Clinic":             d.ClinicDisplayName(),
			"Status":             d.Status,
		}
	})
}

// Nurses configures the nurse list view.
func Nurses() *dataview.View[models.Nurse] {
	created := func(n models.Nurse) *time.Time { return n.CreatedAt }
	status := func(n models.Nurse) string { return n.Status }
	shift := func(n models.Nurse) string { return n.Shift }
	name := func(n models.Nurse) string { return n.FullName }

	v := dataview.New[models.Nurse]("nurses")
	v.Search(
		name,
		func(n models.Nurse) string { return n.NurseCode },
		func(n models.Nurse) string { return n.Department },
		func(n models.Nurse) string { return n.Email },
		models.Nurse.ClinicDisplayName,
	)
	v.FilterOn("status", dataview.Enum(status, nil)).
		FilterOn("shift", dataview.Enum(shift, nil)).
		FilterOn("department", dataview.Contains(func(n models.Nurse) string { return n.Department }))

	v.SortBy("latest", dataview.ByTime(created, dataview.Desc)).
		SortBy("oldest", dataview.ByTime(created, dataview.Asc)).
		SortBy("nurse_name", dataview.ByText(name, dataview.Asc)).
		SortBy("status", dataview.ByText(status, dataview.Asc))

	v.Statuses(status, models.StaffStatusActive, models.StaffStatusInactive, models.StaffStatusOnLeave).
		Compound("active", models.StaffStatusActive).
		Compound("inactive", models.StaffStatusInactive).
		Compound("onLeave", models.StaffStatusOnLeave).
		CountWhere("morningShift", func(n models.Nurse) bool { return n.Shift == models.ShiftMorning }).
		CountWhere("eveningShift", func(n models.Nurse) bool { return n.Shift == models.ShiftEvening }).
		CountWhere("nightShift", func(n models.Nurse) bool { return n.Shift == models.ShiftNight })

	return v.Project(NurseHeaders, func(n models.Nurse) map[string]string {
		return map[string]string{
			"Nurse Code": n.NurseCode,
			"Full Name":  n.FullName,
			"Department": n.Department,
			"Shift":      n.Shift,
			"Email":      n.Email,
			"Phone":      n.Phone,
			"Clinic":     n.ClinicDisplayName(),
			"Status":     n.Status,
		}
	})
}
