package views

import (
	"time"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// InvoiceHeaders are the export columns for invoices.
var InvoiceHeaders = []string{"Invoice No", "Patient", "Clinic", "Amount", "Paid", "Status", "Due Date", "Issued At"}

// Invoices configures the billing list view.
func Invoices() *dataview.View[models.Invoice] {
	due := dataview.DateField[models.Invoice]{
		Get:  func(i models.Invoice) *time.Time { return i.DueDate },
		Kind: dataview.Floating,
	}
	created := func(i models.Invoice) *time.Time { return i.CreatedAt }
	status := func(i models.Invoice) string { return i.Status }
	amount := func(i models.Invoice) float64 { return float64(i.AmountCents) }
	outstanding := []string{models.InvoiceStatusUnpaid, models.InvoiceStatusPartiallyPaid, models.InvoiceStatusOverdue}

	v := dataview.New[models.Invoice]("invoices")
	v.Search(
		func(i models.Invoice) string { return i.InvoiceNumber },
		models.Invoice.PatientDisplayName,
		models.Invoice.ClinicDisplayName,
	)
	v.FilterOn("status", dataview.Enum(status, map[string][]string{"outstanding": outstanding})).
		FilterOn("due", dataview.OnDate(due)).
		FilterOn("patientId", dataview.Equals(func(i models.Invoice) string { return i.PatientID }))

	v.SortBy("latest", dataview.ByTime(created, dataview.Desc), dataview.ByTime(due.Get, dataview.Desc)).
		SortBy("oldest", dataview.ByTime(created, dataview.Asc), dataview.ByTime(due.Get, dataview.Asc)).
		SortBy("due_date_asc", dataview.ByTime(due.Get, dataview.Asc)).
		SortBy("due_date_desc", dataview.ByTime(due.Get, dataview.Desc)).
		SortBy("amount_asc", dataview.ByNumber(amount, dataview.Asc)).
		SortBy("amount_desc", dataview.ByNumber(amount, dataview.Desc)).
		SortBy("patient_name", dataview.ByText(models.Invoice.PatientDisplayName, dataview.Asc)).
		SortBy("status", dataview.ByText(status, dataview.Asc))

	v.Statuses(status,
		models.InvoiceStatusUnpaid,
		models.InvoiceStatusPartiallyPaid,
		models.InvoiceStatusPaid,
		models.InvoiceStatusOverdue,
		models.InvoiceStatusCancelled,
	).
		Compound("paid", models.InvoiceStatusPaid).
		Compound("outstanding", outstanding...).
		Compound("cancelled", models.InvoiceStatusCancelled).
		CountDate("dueToday", due, dataview.BucketToday).
		CountDateIn("overdue", due, dataview.BucketPast, outstanding...)

	return v.Project(InvoiceHeaders, func(i models.Invoice) map[string]string {
		return map[string]string{
			"Invoice No": i.InvoiceNumber,
			"Patient":    i.PatientDisplayName(),
			"Clinic":     i.ClinicDisplayName(),
			"Amount":     formatMoney(i.AmountCents, i.Currency),
			"Paid":       formatMoney(i.PaidCents, i.Currency),
			"Status":     i.Status,
			"Due Date":   formatDate(i.DueDate),
			"Issued At":  formatDateTime(i.CreatedAt, v.Location()),
		}
	})
}
