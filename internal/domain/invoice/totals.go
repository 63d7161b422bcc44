package invoice

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-editor/internal/domain/entity"
)

// Totals son los valores derivados de una factura. El valor cero (Computed=false)
// representa "aún no calculado" y su total visible es 0.
type Totals struct {
	Subtotal float64
	Tax      float64
	Discount float64
	Total    float64
	Computed bool
}

// Subtotal suma el importe de cada línea en punto flotante, sin redondeo intermedio.
func Subtotal(lines []entity.ProductLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += LineAmount(l.Quantity, l.Rate)
	}
	return sum
}

// Percentage aplica adj sobre base. Con base igual a 0 el resultado es 0 aunque
// el ajuste esté activo.
func Percentage(base float64, adj entity.Adjustment) float64 {
	if !adj.Enabled || base == 0 {
		return 0
	}
	return base * adj.Percent / 100
}

// Calculate deriva subtotal, impuesto, descuento y total en ese orden.
// total = subtotal + impuesto − descuento.
func Calculate(lines []entity.ProductLine, tax, discount entity.Adjustment) Totals {
	sub := Subtotal(lines)
	t := Percentage(sub, tax)
	d := Percentage(sub, discount)
	return Totals{
		Subtotal: sub,
		Tax:      t,
		Discount: d,
		Total:    sub + t - d,
		Computed: true,
	}
}

// DisplayTotal es el total a mostrar: 0 mientras los totales no estén calculados.
func (t Totals) DisplayTotal() float64 {
	if !t.Computed {
		return 0
	}
	return t.Total
}

// Formatted devuelve los cuatro importes formateados a 2 decimales.
func (t Totals) Formatted() (subtotal, tax, discount, total string) {
	return FormatMoney(t.Subtotal), FormatMoney(t.Tax), FormatMoney(t.Discount), FormatMoney(t.DisplayTotal())
}

// FormatMoney formatea a exactamente 2 decimales redondeando la mitad lejos de cero.
// Valores no finitos (porcentajes desbordados) se muestran como 0.00.
func FormatMoney(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		v = 0
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
