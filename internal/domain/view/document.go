// Package view prepara la representación de una factura para los renderizadores.
// El mismo snapshot se presenta como formulario interactivo (ModeForm) o como
// documento estático paginado (ModePDF); en este último no se ofrecen controles.
package view

import (
	"strconv"

	"github.com/jhoicas/invoice-editor/internal/domain/entity"
	"github.com/jhoicas/invoice-editor/internal/domain/invoice"
)

// Mode modo de renderizado.
type Mode string

const (
	ModeForm Mode = "form"
	ModePDF  Mode = "pdf"
)

// ParseMode interpreta el modo recibido por query/flag; cualquier otro valor es ModeForm.
func ParseMode(s string) Mode {
	if Mode(s) == ModePDF {
		return ModePDF
	}
	return ModeForm
}

// Line fila de la tabla con su importe ya formateado.
type Line struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Rate        string `json:"rate"`
	Amount      string `json:"amount"`
}

// TotalRow etiqueta + importe formateado (2 decimales, sin símbolo de moneda).
type TotalRow struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// Controls indica qué controles interactivos se ofrecen.
type Controls struct {
	AddLine        bool `json:"add_line"`
	RemoveLine     bool `json:"remove_line"`
	TaxToggle      bool `json:"tax_toggle"`
	DiscountToggle bool `json:"discount_toggle"`
}

// Document es lo que reciben los renderizadores.
type Document struct {
	Mode        Mode              `json:"mode"`
	Invoice     entity.Invoice    `json:"invoice"`
	Tax         entity.Adjustment `json:"tax"`
	Discount    entity.Adjustment `json:"discount"`
	Lines       []Line            `json:"lines"`
	Subtotal    TotalRow          `json:"subtotal"`
	TaxRow      *TotalRow         `json:"tax_row,omitempty"`      // nil = no se muestra
	DiscountRow *TotalRow         `json:"discount_row,omitempty"` // nil = no se muestra
	Total       TotalRow          `json:"total"`
	Controls    Controls          `json:"controls"`
}

// Build arma el documento a partir del estado. En ModeForm las filas de impuesto y
// descuento se muestran siempre (junto a su toggle); en ModePDF solo si están activas.
func Build(s invoice.State, mode Mode) Document {
	inv := s.Invoice.Clone()
	sub, tax, disc, total := s.Totals.Formatted()

	doc := Document{
		Mode:     mode,
		Invoice:  inv,
		Tax:      s.Tax,
		Discount: s.Discount,
		Lines:    make([]Line, 0, len(inv.ProductLines)),
		Subtotal: TotalRow{Label: inv.SubTotalLabel, Amount: sub},
		Total:    TotalRow{Label: inv.TotalLabel, Amount: total},
	}
	for i, pl := range inv.ProductLines {
		doc.Lines = append(doc.Lines, Line{
			Index:       i,
			Description: pl.Description,
			Quantity:    pl.Quantity,
			Rate:        pl.Rate,
			Amount:      invoice.ComputeLineAmount(pl.Quantity, pl.Rate),
		})
	}

	interactive := mode != ModePDF
	if interactive || s.Tax.Enabled {
		doc.TaxRow = &TotalRow{Label: PercentLabel(inv.TaxLabel, s.Tax.Percent), Amount: tax}
	}
	if interactive || s.Discount.Enabled {
		doc.DiscountRow = &TotalRow{Label: PercentLabel(inv.DiscountLabel, s.Discount.Percent), Amount: disc}
	}
	if interactive {
		doc.Controls = Controls{AddLine: true, RemoveLine: true, TaxToggle: true, DiscountToggle: true}
	}
	return doc
}

// PercentLabel devuelve "Tax (10%)".
func PercentLabel(label string, percent float64) string {
	return label + " (" + strconv.FormatFloat(percent, 'f', -1, 64) + "%)"
}
