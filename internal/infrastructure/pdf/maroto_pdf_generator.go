// Package pdf implementa la exportación de la factura a PDF (modo documento).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  LOGO                                          TÍTULO        │
//	│  EMISOR: empresa / nombre / dirección / país                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE (Bill To)         │  N° factura / fecha / vence     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cant. | Tarifa | Importe               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto / Descuento / TOTAL            │
//	│  NOTAS + TÉRMINOS                                            │
//	└─────────────────────────────────────────────────────────────┘
//
// Maroto pagina automáticamente cuando la tabla no cabe en una sola hoja.
package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	stdimage "image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appeditor "github.com/jhoicas/invoice-editor/internal/application/editor"
	"github.com/jhoicas/invoice-editor/internal/domain/entity"
	"github.com/jhoicas/invoice-editor/internal/domain/view"
)

var _ appeditor.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorHeader  = &props.Color{Red: 85, Green: 85, Blue: 85}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// Ancho aproximado (px a 96 dpi) de la columna del logo; logoWidth se expresa en px.
const logoColumnPx = 240

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa editor.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes. Los controles interactivos
// del documento se ignoran: el PDF es siempre estático.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc view.Document) ([]byte, error) {
	inv := doc.Invoice

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(nonEmpty(inv.Title, "Invoice"), true).
		WithAuthor(nonEmpty(inv.CompanyName, inv.Name), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv))
	m.AddRows(senderRows(inv)...)
	m.AddRows(line.NewRow(4, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(clientAndDatesRow(inv))
	m.AddRows(line.NewRow(4))

	m.AddRows(tableHeaderRow(inv))
	m.AddRows(tableLineRows(doc)...)

	m.AddRows(line.NewRow(4, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(totalsRows(doc)...)

	m.AddRows(footerRows(inv)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: logo (izq) y título (der). Un logo ilegible se omite.
func headerRow(inv entity.Invoice) core.Row {
	logoCol := col.New(4)
	if data, ext, ok := decodeLogo(inv.Logo); ok {
		logoCol.Add(image.NewFromBytes(data, ext, props.Rect{
			Percent: logoPercent(inv.LogoWidth),
			Left:    0,
			Top:     0,
		}))
	}
	return row.New(24).Add(
		logoCol,
		col.New(8).Add(
			text.New(inv.Title, props.Text{
				Style: fontstyle.Bold, Size: 22, Align: align.Right, Color: colorPrimary, Top: 4,
			}),
		),
	)
}

// senderRows: datos del emisor, una fila por línea no vacía.
func senderRows(inv entity.Invoice) []core.Row {
	rows := make([]core.Row, 0, 5)
	if inv.CompanyName != "" {
		rows = append(rows, textRow(5, inv.CompanyName, props.Text{Style: fontstyle.Bold, Size: 11}))
	}
	for _, s := range []string{inv.Name, inv.CompanyAddress, inv.CompanyAddress2, inv.CompanyCountry} {
		if s != "" {
			rows = append(rows, textRow(4.5, s, props.Text{Size: 9, Color: colorGray}))
		}
	}
	return rows
}

// clientAndDatesRow: contraparte (izq) y número/fechas (der).
func clientAndDatesRow(inv entity.Invoice) core.Row {
	client := col.New(7)
	top := 0.0
	add := func(s string, p props.Text) {
		if s == "" {
			return
		}
		p.Top = top
		client.Add(text.New(s, p))
		top += 5
	}
	add(inv.BillTo, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary})
	add(inv.ClientName, props.Text{Style: fontstyle.Bold, Size: 10})
	add(inv.ClientAddress, props.Text{Size: 9, Color: colorGray})
	add(inv.ClientAddress2, props.Text{Size: 9, Color: colorGray})
	add(inv.ClientCountry, props.Text{Size: 9, Color: colorGray})

	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: top, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Top: top})
	}

	height := top
	if height < 18 {
		height = 18
	}
	return row.New(height).Add(
		client,
		col.New(3).Add(
			label(inv.InvoiceTitleLabel, 0),
			label(inv.InvoiceDateLabel, 6),
			label(inv.InvoiceDueDateLabel, 12),
		),
		col.New(2).Add(
			value(inv.InvoiceTitle, 0),
			value(inv.InvoiceDate, 6),
			value(inv.InvoiceDueDate, 12),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas sobre fondo oscuro.
func tableHeaderRow(inv entity.Invoice) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a,
			Color: colorWhite, Top: 2, Left: 2, Right: 2,
		}))
	}
	return row.New(8).Add(
		h(inv.ProductLineDescription, 6, align.Left),
		h(inv.ProductLineQuantity, 2, align.Right),
		h(inv.ProductLineQuantityRate, 2, align.Right),
		h(inv.ProductLineQuantityAmount, 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

// tableLineRows: una fila por línea de la factura.
func tableLineRows(doc view.Document) []core.Row {
	rows := make([]core.Row, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		rows = append(rows, row.New(7).Add(
			col.New(6).Add(text.New(l.Description, props.Text{Size: 9, Top: 1.5, Left: 2})),
			col.New(2).Add(text.New(l.Quantity, props.Text{Size: 9, Align: align.Right, Top: 1.5, Right: 2})),
			col.New(2).Add(text.New(l.Rate, props.Text{Size: 9, Align: align.Right, Top: 1.5, Right: 2})),
			col.New(2).Add(text.New(money(doc.Invoice.Currency, l.Amount), props.Text{Size: 9, Align: align.Right, Top: 1.5, Right: 2})),
		))
	}
	return rows
}

// totalsRows: bloque de totales alineado a la derecha; impuesto y descuento solo si vienen en el documento.
func totalsRows(doc view.Document) []core.Row {
	entry := func(label, amount string, grand bool) core.Row {
		p := props.Text{Size: 9, Align: align.Right, Top: 1.5, Right: 2}
		if grand {
			p.Style = fontstyle.Bold
			p.Size = 11
			p.Color = colorPrimary
		}
		lp := p
		lp.Style = fontstyle.Bold
		return row.New(7).Add(
			col.New(6),
			col.New(3).Add(text.New(label, lp)),
			col.New(3).Add(text.New(money(doc.Invoice.Currency, amount), p)),
		)
	}

	rows := []core.Row{entry(doc.Subtotal.Label, doc.Subtotal.Amount, false)}
	if doc.TaxRow != nil {
		rows = append(rows, entry(doc.TaxRow.Label, doc.TaxRow.Amount, false))
	}
	if doc.DiscountRow != nil {
		rows = append(rows, entry(doc.DiscountRow.Label, negate(doc.DiscountRow.Amount), false))
	}
	rows = append(rows, entry(doc.Total.Label, doc.Total.Amount, true))
	return rows
}

// footerRows: notas y términos (solo los que tienen contenido).
func footerRows(inv entity.Invoice) []core.Row {
	var rows []core.Row
	block := func(label, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		rows = append(rows, row.New(6))
		rows = append(rows, textRow(5, label, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary}))
		for _, l := range strings.Split(body, "\n") {
			rows = append(rows, textRow(4.5, l, props.Text{Size: 8.5, Color: colorGray}))
		}
	}
	block(inv.NotesLabel, inv.Notes)
	block(inv.TermLabel, inv.Term)
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func textRow(height float64, s string, p props.Text) core.Row {
	return row.New(height).Add(col.New(12).Add(text.New(s, p)))
}

func money(currency, amount string) string {
	if currency == "" {
		return amount
	}
	return currency + " " + amount
}

// negate cambia el signo de un importe ya formateado ("5.00" → "-5.00", "-5.00" → "5.00").
func negate(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}
	return d.Neg().StringFixed(2)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// logoPercent convierte el ancho en px a porcentaje de la columna del logo.
func logoPercent(widthPx float64) float64 {
	p := widthPx * 100 / logoColumnPx
	switch {
	case p < 10:
		return 10
	case p > 100:
		return 100
	default:
		return p
	}
}

// maxLogoPixels limita el tamaño declarado del logo antes de decodificarlo.
const maxLogoPixels = 4096 * 4096

// decodeLogo interpreta un data URL png/jpeg en base64 y lo reescribe como PNG de
// 8 bits, el formato que el motor PDF embebe sin sorpresas. Devuelve false si el
// contenido no es una imagen legible: el logo se omite y el documento sigue.
func decodeLogo(dataURL string) ([]byte, extension.Type, bool) {
	meta, payload, found := strings.Cut(dataURL, ",")
	if !found || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return nil, "", false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, "", false
	}
	mt := mimetype.Detect(data)
	if !mt.Is("image/png") && !mt.Is("image/jpeg") {
		return nil, "", false
	}
	cfg, _, err := stdimage.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxLogoPixels {
		return nil, "", false
	}
	img, _, err := stdimage.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", false
	}
	b := img.Bounds()
	flat := stdimage.NewNRGBA(b)
	draw.Draw(flat, b, img, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return nil, "", false
	}
	return buf.Bytes(), extension.Png, true
}
