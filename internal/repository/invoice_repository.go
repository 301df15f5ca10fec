package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

const invoiceSelect = `SELECT i.id, i.invoice_number, i.clinic_id, i.clinic_name, i.patient_id, i.patient_name, i.appointment_id,
        i.amount_cents, i.paid_cents, i.currency, i.status, i.due_date, i.created_at, i.updated_at,
        ` + clinicJoinColumns + `, ` + patientJoinColumns + `
        FROM invoices i
        LEFT JOIN clinics c ON c.id = i.clinic_id
        LEFT JOIN patients p ON p.id = i.patient_id`

type invoiceRow struct {
	models.Invoice
	clinicJoin
	patientJoin
}

func (r invoiceRow) model() models.Invoice {
	inv := r.Invoice
	inv.Clinic = r.clinicJoin.ref()
	inv.Patient = r.patientJoin.ref()
	return inv
}

// InvoiceRepository manages persistence for invoices.
type InvoiceRepository struct {
	db *sqlx.DB
}

// NewInvoiceRepository constructs an InvoiceRepository.
func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// List returns the full invoice collection for clinicID (all clinics when empty).
func (r *InvoiceRepository) List(ctx context.Context, clinicID string) ([]models.Invoice, error) {
	cond, args := tenantCondition("i.clinic_id", clinicID, nil)
	var rows []invoiceRow
	if err := r.db.SelectContext(ctx, &rows, fmt.Sprintf("%s WHERE %s ORDER BY i.created_at DESC", invoiceSelect, cond), args...); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	invoices := make([]models.Invoice, 0, len(rows))
	for _, row := range rows {
		invoices = append(invoices, row.model())
	}
	return invoices, nil
}

// FindByID fetches an invoice by ID.
func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	var row invoiceRow
	if err := r.db.GetContext(ctx, &row, invoiceSelect+" WHERE i.id = $1", id); err != nil {
		return nil, err
	}
	invoice := row.model()
	return &invoice, nil
}

// Create inserts an invoice.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	stampCreate(&invoice.CreatedAt, &invoice.UpdatedAt)
	const query = `INSERT INTO invoices (id, invoice_number, clinic_id, clinic_name, patient_id, patient_name, appointment_id,
        amount_cents, paid_cents, currency, status, due_date, created_at, updated_at)
        VALUES (:id, :invoice_number, :clinic_id, COALESCE((SELECT name FROM clinics WHERE id = :clinic_id), ''),
        :patient_id, COALESCE((SELECT full_name FROM patients WHERE id = :patient_id), ''), :appointment_id,
        :amount_cents, :paid_cents, :currency, :status, :due_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, invoice); err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	return nil
}

// Update modifies an existing invoice.
func (r *InvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	stampUpdate(&invoice.UpdatedAt)
	const query = `UPDATE invoices SET appointment_id = :appointment_id, amount_cents = :amount_cents, paid_cents = :paid_cents,
        currency = :currency, status = :status, due_date = :due_date, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, invoice)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return ensureAffected(res, "update invoice")
}

// Delete removes an invoice.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return ensureAffected(res, "delete invoice")
}
