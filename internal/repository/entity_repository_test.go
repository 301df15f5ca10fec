package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

func TestClinicRepositoryListScopedToOwnClinic(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClinicRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, code, name, .* FROM clinics WHERE id = \$1`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "email", "phone", "address", "city", "state", "plan", "status", "created_at", "updated_at"}).
			AddRow("c1", "CL-1", "Sehat", "a@b.c", "1", "Jl. 1", "Bandung", "Jabar", "basic", "active", now, now))

	clinics, err := repo.List(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, clinics, 1)
	assert.Equal(t, "Sehat", clinics[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicRepositoryDeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClinicRepository(db)

	mock.ExpectExec(`DELETE FROM clinics WHERE id = \$1`).WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "gone"), sql.ErrNoRows)
}

func TestPatientRepositoryListMapsClinic(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)

	cols := columns([]string{"id", "clinic_id", "clinic_name", "patient_code", "full_name", "gender", "date_of_birth", "blood_group",
		"phone", "email", "address", "city", "status", "created_at", "updated_at"}, clinicJoinNames)
	mock.ExpectQuery(`FROM patients pt LEFT JOIN clinics c .* WHERE pt\.clinic_id = \$1`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("p1", "c1", "Old Name", "P-1", "Ani", "Female", nil, "O", "0812", "", "", "Bandung", "Active", nil, nil,
				"c1", "Sehat Clinic", "Bandung"))

	patients, err := repo.List(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Sehat Clinic", patients[0].ClinicDisplayName())
}

func TestPatientRepositoryListWrapsError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectQuery("FROM patients").WillReturnError(errors.New("boom"))

	_, err := repo.List(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list patients")
}

func TestDoctorRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDoctorRepository(db)

	mock.ExpectExec("INSERT INTO doctors").WillReturnResult(sqlmock.NewResult(1, 1))

	doctor := &models.Doctor{ClinicID: "c1", FullName: "Dr. Sari", Status: models.StaffStatusActive}
	require.NoError(t, repo.Create(context.Background(), doctor))
	assert.NotEmpty(t, doctor.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNurseRepositoryUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNurseRepository(db)

	mock.ExpectExec("UPDATE nurses SET").WillReturnResult(sqlmock.NewResult(0, 1))

	nurse := &models.Nurse{ID: "n1", FullName: "Rina", Shift: models.ShiftNight}
	require.NoError(t, repo.Update(context.Background(), nurse))
	assert.NotNil(t, nurse.UpdatedAt)
}

func TestReferralRepositoryListMissingDoctor(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReferralRepository(db)

	cols := columns([]string{"id", "referral_code", "clinic_id", "patient_id", "patient_name", "referring_doctor_id", "referring_doctor_name",
		"referred_to", "specialty", "reason", "priority", "status", "referral_date", "created_at", "updated_at"}, patientJoinNames, doctorJoinNames)
	mock.ExpectQuery(`FROM referrals r .* WHERE 1=1`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("r1", "REF-1", "c1", "p1", "Ani", "d9", "Dr. Former", "RSUP", "Cardiology", "", "High", "Pending", nil, nil, nil,
				"p1", "Ani Wijaya", "P-1", nil, nil, nil))

	referrals, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, referrals, 1)
	assert.Nil(t, referrals[0].ReferringDoctor)
	assert.Equal(t, "Dr. Former", referrals[0].DoctorDisplayName())
	assert.Equal(t, "Ani Wijaya", referrals[0].PatientDisplayName())
}

func TestInvoiceRepositoryDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceRepository(db)

	mock.ExpectExec(`DELETE FROM invoices WHERE id = \$1`).WithArgs("i1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "i1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepositoryFindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceRepository(db)

	cols := columns([]string{"id", "invoice_number", "clinic_id", "clinic_name", "patient_id", "patient_name", "appointment_id",
		"amount_cents", "paid_cents", "currency", "status", "due_date", "created_at", "updated_at"}, clinicJoinNames, patientJoinNames)
	mock.ExpectQuery(`WHERE i\.id = \$1`).
		WithArgs("i1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("i1", "INV-1", "c1", "Sehat", "p1", "Ani", nil, int64(150000), int64(0), "IDR", "Unpaid", nil, nil, nil,
				"c1", "Sehat Clinic", "Bandung", "p1", "Ani", "P-1"))

	invoice, err := repo.FindByID(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, int64(150000), invoice.AmountCents)
	assert.Nil(t, invoice.AppointmentID)
	assert.Equal(t, "Sehat Clinic", invoice.ClinicDisplayName())
}

func TestAuditRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.AuditLog{Action: models.AuditActionCreate, Resource: "patients"}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestTenantCondition(t *testing.T) {
	cond, args := tenantCondition("a.clinic_id", "", nil)
	assert.Equal(t, "1=1", cond)
	assert.Empty(t, args)

	cond, args = tenantCondition("a.clinic_id", "c1", []interface{}{"x"})
	assert.Equal(t, "a.clinic_id = $2", cond)
	assert.Equal(t, []interface{}{"x", "c1"}, args)
}
