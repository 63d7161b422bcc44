package invoice

import (
	"time"

	"github.com/jhoicas/invoice-editor/internal/domain/entity"
)

// Valores por defecto de la plantilla.
const (
	DefaultCurrency  = "$"
	DefaultDueDays   = 30
	DefaultLogoWidth = 100
)

// TemplateOptions ajusta la plantilla por defecto.
type TemplateOptions struct {
	Currency string // vacío = DefaultCurrency
	DueDays  int    // <= 0 = DefaultDueDays
}

// DefaultInvoice construye la plantilla: emisor y cliente vacíos, etiquetas por defecto,
// una línea vacía, fecha = now y vencimiento = now + DueDays.
func DefaultInvoice(now time.Time, opts TemplateOptions) entity.Invoice {
	currency := opts.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	dueDays := opts.DueDays
	if dueDays <= 0 {
		dueDays = DefaultDueDays
	}
	return entity.Invoice{
		LogoWidth:                 DefaultLogoWidth,
		Title:                     "INVOICE",
		BillTo:                    "Bill To:",
		InvoiceTitleLabel:         "Invoice#",
		InvoiceDateLabel:          "Invoice Date",
		InvoiceDate:               now.Format(entity.DateLayout),
		InvoiceDueDateLabel:       "Due Date",
		InvoiceDueDate:            now.AddDate(0, 0, dueDays).Format(entity.DateLayout),
		ProductLineDescription:    "Item Description",
		ProductLineQuantity:       "Qty",
		ProductLineQuantityRate:   "Rate",
		ProductLineQuantityAmount: "Amount",
		ProductLines:              []entity.ProductLine{EmptyLine()},
		SubTotalLabel:             "Sub Total",
		TaxLabel:                  "Tax",
		DiscountLabel:             "Discount",
		TotalLabel:                "TOTAL",
		Currency:                  currency,
		NotesLabel:                "Notes",
		TermLabel:                 "Terms & Conditions",
	}
}

// FillDates completa las fechas vacías de inv: emisión = now, vencimiento = now + DueDays.
// Las fechas ya presentes se respetan.
func FillDates(inv entity.Invoice, now time.Time, opts TemplateOptions) entity.Invoice {
	dueDays := opts.DueDays
	if dueDays <= 0 {
		dueDays = DefaultDueDays
	}
	if inv.InvoiceDate == "" {
		inv.InvoiceDate = now.Format(entity.DateLayout)
	}
	if inv.InvoiceDueDate == "" {
		inv.InvoiceDueDate = now.AddDate(0, 0, dueDays).Format(entity.DateLayout)
	}
	return inv
}
