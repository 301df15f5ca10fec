package models

// ClinicRef is the clinic summary joined onto tenant-scoped records.
type ClinicRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

// PatientRef is the patient summary joined onto appointments, referrals and invoices.
type PatientRef struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	PatientCode string `json:"patient_code,omitempty"`
}

// DoctorRef is the doctor summary joined onto appointments and referrals.
type DoctorRef struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Specialization string `json:"specialization,omitempty"`
}

func clinicName(ref *ClinicRef, fallback string) string {
	if ref != nil && ref.Name != "" {
		return ref.Name
	}
	return fallback
}

func patientName(ref *PatientRef, fallback string) string {
	if ref != nil && ref.FullName != "" {
		return ref.FullName
	}
	return fallback
}

func doctorName(ref *DoctorRef, fallback string) string {
	if ref != nil && ref.FullName != "" {
		return ref.FullName
	}
	return fallback
}
