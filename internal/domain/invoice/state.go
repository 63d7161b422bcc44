package invoice

import "github.com/jhoicas/invoice-editor/internal/domain/entity"

// State es el estado completo del formulario: factura, ajustes y totales derivados.
// Las funciones de este archivo no mutan el State recibido: devuelven uno nuevo con los
// totales ya recalculados y el llamador decide cuándo confirmarlo. Las que pueden
// descartar la edición devuelven además false en ese caso (estado original intacto).
type State struct {
	Invoice  entity.Invoice
	Tax      entity.Adjustment
	Discount entity.Adjustment
	Totals   Totals
}

// NewState construye un estado calculado a partir de una factura y sus ajustes.
func NewState(inv entity.Invoice, tax, discount entity.Adjustment) State {
	return recompute(State{Invoice: inv.Clone(), Tax: tax, Discount: discount})
}

// recompute deriva los totales desde cero; s ya debe tener su propia copia de la factura.
func recompute(s State) State {
	s.Totals = Calculate(s.Invoice.ProductLines, s.Tax, s.Discount)
	return s
}

func (s State) detach() State {
	s.Invoice = s.Invoice.Clone()
	return s
}

// SetField actualiza un atributo de cabecera. Tipo incorrecto o campo desconocido: descartado.
func SetField(s State, name string, value any) (State, bool) {
	next := s.detach()
	if !applyField(&next.Invoice, name, value) {
		return s, false
	}
	return recompute(next), true
}

// SetTaxEnabled activa o desactiva el impuesto.
func SetTaxEnabled(s State, enabled bool) State {
	next := s.detach()
	next.Tax.Enabled = enabled
	return recompute(next)
}

// SetTaxPercent fija el porcentaje de impuesto. Valores fuera de [0,100] se aceptan.
func SetTaxPercent(s State, percent float64) State {
	next := s.detach()
	next.Tax.Percent = percent
	return recompute(next)
}

// SetDiscountEnabled activa o desactiva el descuento.
func SetDiscountEnabled(s State, enabled bool) State {
	next := s.detach()
	next.Discount.Enabled = enabled
	return recompute(next)
}

// SetDiscountPercent fija el porcentaje de descuento. Valores fuera de [0,100] se aceptan.
func SetDiscountPercent(s State, percent float64) State {
	next := s.detach()
	next.Discount.Percent = percent
	return recompute(next)
}

// EmptyLine es la línea que agrega AddLine.
func EmptyLine() entity.ProductLine {
	return entity.ProductLine{Description: "", Quantity: "0", Rate: "0"}
}

// AddLine agrega una línea vacía al final.
func AddLine(s State) State {
	next := s.detach()
	next.Invoice.ProductLines = append(next.Invoice.ProductLines, EmptyLine())
	return recompute(next)
}

// RemoveLine quita la línea index conservando el orden del resto.
// Un índice fuera de rango se descarta (la pertenencia se comprueba por posición).
func RemoveLine(s State, index int) (State, bool) {
	lines := s.Invoice.ProductLines
	if index < 0 || index >= len(lines) {
		return s, false
	}
	next := s.detach()
	out := make([]entity.ProductLine, 0, len(lines)-1)
	out = append(out, lines[:index]...)
	out = append(out, lines[index+1:]...)
	next.Invoice.ProductLines = out
	return recompute(next), true
}

// EditLine aplica UpdateLine sobre la línea index.
func EditLine(s State, index int, field, raw string) (State, bool) {
	lines, ok := UpdateLine(s.Invoice.ProductLines, index, field, raw)
	if !ok {
		return s, false
	}
	next := s.detach()
	next.Invoice.ProductLines = lines
	return recompute(next), true
}
