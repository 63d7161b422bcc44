package editor_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-editor/internal/application/editor"
	"github.com/jhoicas/invoice-editor/internal/domain"
	"github.com/jhoicas/invoice-editor/internal/domain/entity"
	"github.com/jhoicas/invoice-editor/internal/domain/invoice"
)

var fixedNow = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

// recorder guarda cada snapshot notificado.
type recorder struct {
	mu    sync.Mutex
	snaps []entity.Invoice
}

func (r *recorder) listen(s entity.Invoice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) last() entity.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[len(r.snaps)-1]
}

func newEditor(t *testing.T, opts ...editor.Option) (*editor.Editor, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]editor.Option{editor.WithClock(func() time.Time { return fixedNow }), editor.WithListener(rec.listen)}, opts...)
	return editor.New(nil, opts...), rec
}

func TestNew_SinFacturaUsaPlantilla(t *testing.T) {
	ed, rec := newEditor(t, editor.WithTemplate(invoice.TemplateOptions{Currency: "€"}))

	snap := ed.Snapshot()
	assert.Equal(t, "2026-01-15", snap.InvoiceDate)
	assert.Equal(t, "2026-02-14", snap.InvoiceDueDate)
	assert.Equal(t, "€", snap.Currency)
	assert.Len(t, snap.ProductLines, 1)
	assert.Zero(t, rec.count(), "construir el editor no notifica")
}

func TestNew_ConFacturaInicialYAjustes(t *testing.T) {
	initial := &entity.Invoice{ProductLines: []entity.ProductLine{{Quantity: "2", Rate: "50"}}}
	ed := editor.New(initial, editor.WithAdjustments(
		entity.Adjustment{Enabled: true, Percent: 10},
		entity.Adjustment{Enabled: true, Percent: 20},
	))

	totals := ed.Totals()
	assert.InDelta(t, 100.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 90.0, totals.Total, 1e-9)

	initial.ProductLines[0].Quantity = "99"
	assert.Equal(t, "2", ed.Snapshot().ProductLines[0].Quantity, "el editor trabaja sobre su propia copia")
}

func TestEditor_NotificaUnaVezPorEdicionAceptada(t *testing.T) {
	ed, rec := newEditor(t)

	require.NoError(t, ed.SetField("companyName", "ACME"))
	ed.SetTaxEnabled(true)
	ed.SetTaxPercent(10)
	ed.SetDiscountEnabled(true)
	ed.SetDiscountPercent(5)
	ed.AddLine()
	assert.True(t, ed.UpdateLine(0, invoice.LineFieldQuantity, "2"))
	assert.True(t, ed.RemoveLine(1))

	assert.Equal(t, 8, rec.count())
	assert.Equal(t, "ACME", rec.last().CompanyName)
	assert.Len(t, rec.last().ProductLines, 1)
}

func TestEditor_EdicionAceptadaNotificaAunqueNoCambie(t *testing.T) {
	ed, rec := newEditor(t)
	ed.SetTaxEnabled(false)
	require.NoError(t, ed.SetField("title", "INVOICE"))
	assert.Equal(t, 2, rec.count())
}

func TestEditor_EdicionRechazadaNoNotifica(t *testing.T) {
	ed, rec := newEditor(t)

	assert.NoError(t, ed.SetField(invoice.FieldLogoWidth, "ancho"))
	assert.NoError(t, ed.SetField("title", 7))
	assert.NoError(t, ed.SetField("unknown", "x"))
	assert.False(t, ed.RemoveLine(5))
	assert.False(t, ed.UpdateLine(3, invoice.LineFieldRate, "1"))

	assert.Zero(t, rec.count())
	assert.Equal(t, float64(invoice.DefaultLogoWidth), ed.Snapshot().LogoWidth)
}

func TestEditor_ModoEstrictoDevuelveErrores(t *testing.T) {
	ed, rec := newEditor(t, editor.WithStrictFields())

	err := ed.SetField(invoice.FieldLogoWidth, "ancho")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTypeMismatch))

	err = ed.SetField("color", "rojo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownField))

	require.NoError(t, ed.SetField(invoice.FieldLogoWidth, 200))
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, 200.0, ed.Snapshot().LogoWidth)
}

func TestEditor_SnapshotNotificadoEsCopia(t *testing.T) {
	ed, rec := newEditor(t)
	ed.AddLine()

	snap := rec.last()
	snap.ProductLines[0].Description = "mutado fuera"
	assert.Empty(t, ed.Snapshot().ProductLines[0].Description)
}

func TestEditor_TotalesSiempreConsistentes(t *testing.T) {
	ed, _ := newEditor(t)
	ed.UpdateLine(0, invoice.LineFieldQuantity, "2")
	ed.UpdateLine(0, invoice.LineFieldRate, "50")
	ed.SetTaxEnabled(true)
	ed.SetTaxPercent(10)

	s := ed.State()
	assert.Equal(t, invoice.Calculate(s.Invoice.ProductLines, s.Tax, s.Discount), s.Totals)
	assert.InDelta(t, 110.0, s.Totals.Total, 1e-9)
}

func TestEditor_EdicionesConcurrentesSeSerializan(t *testing.T) {
	ed, rec := newEditor(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ed.AddLine()
		}()
	}
	wg.Wait()

	assert.Len(t, ed.Snapshot().ProductLines, n+1)
	assert.Equal(t, n, rec.count())

	// Las notificaciones salen en el orden de las transiciones.
	for i, snap := range rec.snaps {
		assert.Len(t, snap.ProductLines, i+2)
	}
}
