package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

const appointmentSelect = `SELECT a.id, a.appointment_number, a.clinic_id, a.clinic_name, a.patient_id, a.patient_name, a.doctor_id, a.doctor_name,
        a.appointment_date, a.time_slot, a.type, a.reason, a.notes, a.status, a.created_at, a.updated_at,
        ` + clinicJoinColumns + `, ` + patientJoinColumns + `, ` + doctorJoinColumns + `
        FROM appointments a
        LEFT JOIN clinics c ON c.id = a.clinic_id
        LEFT JOIN patients p ON p.id = a.patient_id
        LEFT JOIN doctors d ON d.id = a.doctor_id`

type appointmentRow struct {
	models.Appointment
	clinicJoin
	patientJoin
	doctorJoin
}

func (r appointmentRow) model() models.Appointment {
	a := r.Appointment
	a.Clinic = r.clinicJoin.ref()
	a.Patient = r.patientJoin.ref()
	a.Doctor = r.doctorJoin.ref()
	return a
}

// AppointmentRepository manages persistence for appointments.
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository constructs an AppointmentRepository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// List returns the full appointment collection for clinicID (all clinics when empty).
// Patient, doctor and clinic summaries are joined when the related rows still exist.
func (r *AppointmentRepository) List(ctx context.Context, clinicID string) ([]models.Appointment, error) {
	cond, args := tenantCondition("a.clinic_id", clinicID, nil)
	var rows []appointmentRow
	if err := r.db.SelectContext(ctx, &rows, fmt.Sprintf("%s WHERE %s ORDER BY a.created_at DESC", appointmentSelect, cond), args...); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	appointments := make([]models.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, row.model())
	}
	return appointments, nil
}

// FindByID fetches an appointment by ID.
func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	var row appointmentRow
	if err := r.db.GetContext(ctx, &row, appointmentSelect+" WHERE a.id = $1", id); err != nil {
		return nil, err
	}
	appointment := row.model()
	return &appointment, nil
}

// Create inserts an appointment, snapshotting the current clinic, patient and doctor names.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID == "" {
		appointment.ID = uuid.NewString()
	}
	stampCreate(&appointment.CreatedAt, &appointment.UpdatedAt)
	const query = `INSERT INTO appointments (id, appointment_number, clinic_id, clinic_name, patient_id, patient_name, doctor_id, doctor_name,
        appointment_date, time_slot, type, reason, notes, status, created_at, updated_at)
        VALUES (:id, :appointment_number, :clinic_id, COALESCE((SELECT name FROM clinics WHERE id = :clinic_id), ''),
        :patient_id, COALESCE((SELECT full_name FROM patients WHERE id = :patient_id), ''),
        :doctor_id, COALESCE((SELECT full_name FROM doctors WHERE id = :doctor_id), ''),
        :appointment_date, :time_slot, :type, :reason, :notes, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, appointment); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// Update modifies an existing appointment.
func (r *AppointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	stampUpdate(&appointment.UpdatedAt)
	const query = `UPDATE appointments SET patient_id = :patient_id, doctor_id = :doctor_id,
        patient_name = COALESCE((SELECT full_name FROM patients WHERE id = :patient_id), patient_name),
        doctor_name = COALESCE((SELECT full_name FROM doctors WHERE id = :doctor_id), doctor_name),
        appointment_date = :appointment_date, time_slot = :time_slot, type = :type, reason = :reason, notes = :notes,
        status = :status, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, appointment)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return ensureAffected(res, "update appointment")
}

// Delete removes an appointment.
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return ensureAffected(res, "delete appointment")
}
