// Package xlsx exporta la factura como hoja de cálculo (una hoja "Invoice").
package xlsx

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	appeditor "github.com/jhoicas/invoice-editor/internal/application/editor"
	"github.com/jhoicas/invoice-editor/internal/domain/view"
)

var _ appeditor.InvoiceSpreadsheetExporter = (*ExcelExporter)(nil)

// SheetName nombre de la única hoja del libro.
const SheetName = "Invoice"

// ExcelExporter implementa editor.InvoiceSpreadsheetExporter con excelize.
type ExcelExporter struct{}

// NewExcelExporter construye el exportador.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// ExportInvoice escribe cabecera, líneas y totales. Los importes se guardan como
// números (formato 0.00) para que la hoja pueda recalcularse.
func (x *ExcelExporter) ExportInvoice(_ context.Context, doc view.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	w := &sheetWriter{f: f, row: 1}
	inv := doc.Invoice

	w.set(1, inv.Title, title)
	w.next()
	w.pair(inv.CompanyName, inv.Name, bold)
	w.text(inv.CompanyAddress)
	w.text(inv.CompanyAddress2)
	w.text(inv.CompanyCountry)
	w.next()

	w.set(1, inv.BillTo, bold)
	w.next()
	w.text(inv.ClientName)
	w.text(inv.ClientAddress)
	w.text(inv.ClientAddress2)
	w.text(inv.ClientCountry)
	w.next()

	w.pair(inv.InvoiceTitleLabel, inv.InvoiceTitle, bold)
	w.pair(inv.InvoiceDateLabel, inv.InvoiceDate, bold)
	w.pair(inv.InvoiceDueDateLabel, inv.InvoiceDueDate, bold)
	w.next()

	for i, h := range []string{
		inv.ProductLineDescription, inv.ProductLineQuantity,
		inv.ProductLineQuantityRate, inv.ProductLineQuantityAmount,
	} {
		w.set(i+1, h, header)
	}
	w.next()
	for _, l := range doc.Lines {
		w.set(1, l.Description, 0)
		w.set(2, number(l.Quantity), 0)
		w.set(3, number(l.Rate), 0)
		w.set(4, number(l.Amount), money)
		w.next()
	}
	w.next()

	total := func(r view.TotalRow, negate bool) {
		amount := number(r.Amount)
		if negate {
			amount = -amount
		}
		w.set(3, r.Label, bold)
		w.set(4, amount, money)
		w.next()
	}
	total(doc.Subtotal, false)
	if doc.TaxRow != nil {
		total(*doc.TaxRow, false)
	}
	if doc.DiscountRow != nil {
		total(*doc.DiscountRow, true)
	}
	total(doc.Total, false)

	if inv.Currency != "" {
		w.pair("Currency", inv.Currency, bold)
	}
	if inv.Notes != "" {
		w.next()
		w.pair(inv.NotesLabel, inv.Notes, bold)
	}
	if inv.Term != "" {
		w.pair(inv.TermLabel, inv.Term, bold)
	}

	_ = f.SetColWidth(SheetName, "A", "A", 40)
	_ = f.SetColWidth(SheetName, "B", "D", 16)

	if w.err != nil {
		return nil, fmt.Errorf("xlsx: escribir celdas: %w", w.err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: serializar libro: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter escribe fila a fila y conserva el primer error.
type sheetWriter struct {
	f   *excelize.File
	row int
	err error
}

func (w *sheetWriter) next() { w.row++ }

func (w *sheetWriter) set(col int, v any, style int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellValue(SheetName, cell, v); err != nil {
		w.err = err
		return
	}
	if style != 0 {
		w.err = w.f.SetCellStyle(SheetName, cell, cell, style)
	}
}

// text escribe una fila de una sola celda; las cadenas vacías no ocupan fila.
func (w *sheetWriter) text(s string) {
	if s == "" {
		return
	}
	w.set(1, s, 0)
	w.next()
}

// pair escribe etiqueta (con estilo) y valor en la misma fila.
func (w *sheetWriter) pair(label, value string, labelStyle int) {
	if label == "" && value == "" {
		return
	}
	w.set(1, label, labelStyle)
	w.set(2, value, 0)
	w.next()
}

// number convierte el texto normalizado a número; lo ilegible vale 0.
func number(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
