package editor

import (
	"sync"
	"time"

	"github.com/jhoicas/invoice-editor/internal/domain/entity"
	"github.com/jhoicas/invoice-editor/internal/domain/invoice"
)

// Listener recibe el snapshot completo (copia) tras cada edición aceptada.
type Listener func(snapshot entity.Invoice)

// Option configura un Editor.
type Option func(*Editor)

// WithListener registra el notificador de cambios.
func WithListener(l Listener) Option {
	return func(e *Editor) { e.listener = l }
}

// WithAdjustments fija el estado inicial de impuesto y descuento.
func WithAdjustments(tax, discount entity.Adjustment) Option {
	return func(e *Editor) { e.tax, e.discount = tax, discount }
}

// WithStrictFields hace que SetField devuelva error ante campos desconocidos o tipos
// incorrectos en lugar de ignorarlos.
func WithStrictFields() Option {
	return func(e *Editor) { e.strict = true }
}

// WithClock reemplaza time.Now al construir la plantilla por defecto.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// WithTemplate ajusta la plantilla por defecto (moneda, días de vencimiento).
func WithTemplate(opts invoice.TemplateOptions) Option {
	return func(e *Editor) { e.template = opts }
}

// Editor es el dueño exclusivo del estado del formulario. Cada método aplica una
// actualización pura, confirma el estado resultante y notifica una sola vez.
// El mutex serializa a los llamadores: una edición nunca observa totales a medias.
type Editor struct {
	mu       sync.Mutex
	state    invoice.State
	listener Listener
	strict   bool

	// solo se usan durante New
	tax, discount entity.Adjustment
	now           func() time.Time
	template      invoice.TemplateOptions
}

// New crea el editor. initial nil = plantilla por defecto.
func New(initial *entity.Invoice, opts ...Option) *Editor {
	e := &Editor{now: time.Now}
	for _, o := range opts {
		o(e)
	}
	var inv entity.Invoice
	if initial != nil {
		inv = *initial
	} else {
		inv = invoice.DefaultInvoice(e.now(), e.template)
	}
	e.state = invoice.NewState(inv, e.tax, e.discount)
	return e
}

// commit confirma next y notifica. Se llama con mu tomado, de modo que las
// notificaciones salen en el mismo orden que las transiciones. El listener recibe
// el snapshot como argumento y no debe volver a llamar al editor.
func (e *Editor) commit(next invoice.State) {
	e.state = next
	if e.listener != nil {
		e.listener(next.Invoice.Clone())
	}
}

// SetField actualiza un atributo de cabecera (logoWidth numérico, el resto texto).
// Sin modo estricto un tipo incorrecto es un no-op silencioso y devuelve nil.
func (e *Editor) SetField(name string, value any) error {
	if e.strict {
		if err := invoice.CheckField(name, value); err != nil {
			return err
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	next, ok := invoice.SetField(e.state, name, value)
	if ok {
		e.commit(next)
	}
	return nil
}

// SetTaxEnabled activa o desactiva el impuesto.
func (e *Editor) SetTaxEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commit(invoice.SetTaxEnabled(e.state, enabled))
}

// SetTaxPercent fija el porcentaje del impuesto.
func (e *Editor) SetTaxPercent(percent float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commit(invoice.SetTaxPercent(e.state, percent))
}

// SetDiscountEnabled activa o desactiva el descuento.
func (e *Editor) SetDiscountEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commit(invoice.SetDiscountEnabled(e.state, enabled))
}

// SetDiscountPercent fija el porcentaje del descuento.
func (e *Editor) SetDiscountPercent(percent float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commit(invoice.SetDiscountPercent(e.state, percent))
}

// AddLine agrega una línea vacía al final.
func (e *Editor) AddLine() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commit(invoice.AddLine(e.state))
}

// RemoveLine quita la línea index. Devuelve false (sin notificar) si el índice ya no es válido.
func (e *Editor) RemoveLine(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, ok := invoice.RemoveLine(e.state, index)
	if ok {
		e.commit(next)
	}
	return ok
}

// UpdateLine edita un campo de una línea pasando por el normalizador.
func (e *Editor) UpdateLine(index int, field, raw string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, ok := invoice.EditLine(e.state, index, field, raw)
	if ok {
		e.commit(next)
	}
	return ok
}

// State devuelve una copia del estado actual (factura, ajustes y totales).
func (e *Editor) State() invoice.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	s.Invoice = s.Invoice.Clone()
	return s
}

// Read ejecuta fn con una copia del estado actual sin soltar el mutex. Los
// listeners corren bajo el mismo mutex, así que lo que fn lea del estado que
// mantiene el listener corresponde a la misma transición. fn no debe volver a
// llamar al editor.
func (e *Editor) Read(fn func(s invoice.State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	s.Invoice = s.Invoice.Clone()
	fn(s)
}

// Snapshot devuelve una copia de la factura actual.
func (e *Editor) Snapshot() entity.Invoice {
	return e.State().Invoice
}

// Totals devuelve los totales derivados actuales.
func (e *Editor) Totals() invoice.Totals {
	return e.State().Totals
}
