package service

import (
	"context"
	"strings"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
)

const defaultCurrency = "IDR"

// InvoiceRequest is the create and update payload for invoices. Amounts are in
// minor currency units.
type InvoiceRequest struct {
	ClinicID      string  `json:"clinic_id" validate:"omitempty,uuid"`
	PatientID     string  `json:"patient_id" validate:"required,uuid"`
	AppointmentID *string `json:"appointment_id" validate:"omitempty,uuid"`
	AmountCents   int64   `json:"amount_cents" validate:"gte=0"`
	PaidCents     int64   `json:"paid_cents" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3"`
	DueDate       string  `json:"due_date" validate:"required,datetime=2006-01-02"`
	Status        string  `json:"status" validate:"omitempty,oneof=Unpaid 'Partially Paid' Paid Overdue Cancelled"`
}

// InvoiceService handles patient billing.
type InvoiceService struct {
	*crud[models.Invoice]
	patients finder[models.Patient]
}

// NewInvoiceService constructs an InvoiceService.
func NewInvoiceService(repo store[models.Invoice], patients finder[models.Patient], view *dataview.View[models.Invoice], deps Deps) *InvoiceService {
	return &InvoiceService{
		crud:     newCRUD("invoice", repo, view, func(i models.Invoice) string { return i.ClinicID }, deps),
		patients: patients,
	}
}

// Create issues an invoice. Without an explicit status it is derived from the paid amount.
func (s *InvoiceService) Create(ctx context.Context, scope Scope, req InvoiceRequest) (*models.Invoice, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	clinicID, err := scope.targetClinic(req.ClinicID)
	if err != nil {
		return nil, err
	}
	invoice := &models.Invoice{
		ClinicID:      clinicID,
		InvoiceNumber: generateCode("INV", s.Now()),
	}
	if err := s.apply(ctx, invoice, req); err != nil {
		return nil, err
	}
	if err := s.create(ctx, invoice); err != nil {
		return nil, err
	}
	return s.reload(ctx, invoice.ID, invoice), nil
}

// Update modifies an invoice visible in scope.
func (s *InvoiceService) Update(ctx context.Context, scope Scope, id string, req InvoiceRequest) (*models.Invoice, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	invoice, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, invoice, req); err != nil {
		return nil, err
	}
	if err := s.update(ctx, invoice); err != nil {
		return nil, err
	}
	return s.reload(ctx, invoice.ID, invoice), nil
}

func (s *InvoiceService) apply(ctx context.Context, i *models.Invoice, req InvoiceRequest) error {
	if req.PaidCents > req.AmountCents {
		return invalidField(s.noun, "paid_cents", "paid_cents must not exceed amount_cents")
	}
	due, err := parseDay(req.DueDate)
	if err != nil {
		return invalidField(s.noun, "due_date", "due_date must be a date formatted 2006-01-02")
	}
	patient, err := related(ctx, s.patients, req.PatientID, i.ClinicID, s.noun, "patient_id", func(p models.Patient) string { return p.ClinicID })
	if err != nil {
		return err
	}
	i.PatientID = patient.ID
	i.PatientName = patient.FullName
	i.AppointmentID = req.AppointmentID
	i.AmountCents = req.AmountCents
	i.PaidCents = req.PaidCents
	i.Currency = strings.ToUpper(req.Currency)
	if i.Currency == "" {
		i.Currency = defaultCurrency
	}
	i.DueDate = due
	i.Status = req.Status
	if i.Status == "" {
		i.Status = paymentStatus(i.AmountCents, i.PaidCents)
	}
	return nil
}

func paymentStatus(amount, paid int64) string {
	switch {
	case paid >= amount:
		return models.InvoiceStatusPaid
	case paid > 0:
		return models.InvoiceStatusPartiallyPaid
	default:
		return models.InvoiceStatusUnpaid
	}
}
