package invoice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-editor/internal/domain/entity"
	"github.com/jhoicas/invoice-editor/internal/domain/invoice"
)

func TestParseNumber_PrefijoDecimal(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"12", 12, true},
		{"12.5", 12.5, true},
		{"12abc", 12, true},
		{"  3.25", 3.25, true},
		{".5", 0.5, true},
		{"1e3", 1000, true},
		{"2.5E2", 250, true},
		{"1e", 1, true},
		{"1e-3", 1, true},
		{"e3", 0, false},
		{"1e999", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{".", 0, false},
		{"-5", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := invoice.ParseNumber(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestNormalizeNumericInput_Politica(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"punto final en curso", "12.", "12."},
		{"cero final con punto", "12.50", "12.50"},
		{"cero final tras punto", "1.0", "1.0"},
		{"entero", "10", "10"},
		{"ceros a la izquierda", "007", "7"},
		{"decimal", "2.5", "2.5"},
		{"texto no numérico", "abc", "0"},
		{"vacío", "", "0"},
		{"prefijo numérico", "3abc", "3"},
		{"negativo", "-4", "0"},
		{"exponente", "1e3", "1000"},
		{"cero", "0", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, invoice.NormalizeNumericInput(tc.raw))
		})
	}
}

// "12." mientras se escribe se guarda literal, no como 12.
func TestNormalizeNumericInput_PuntoEnCursoNoSeCoerciona(t *testing.T) {
	assert.Equal(t, "12.", invoice.NormalizeNumericInput("12."))
	assert.NotEqual(t, "12", invoice.NormalizeNumericInput("12."))
}

func TestNormalizeNumericInput_Idempotente(t *testing.T) {
	for _, raw := range []string{"10", "007", "2.5", "abc", "", "3abc", "42", "0.125", "1000000", "1e3"} {
		once := invoice.NormalizeNumericInput(raw)
		twice := invoice.NormalizeNumericInput(once)
		assert.Equal(t, once, twice, "normalizar %q dos veces debe dar el mismo resultado", raw)
	}
}

func TestComputeLineAmount(t *testing.T) {
	cases := []struct {
		name     string
		quantity string
		rate     string
		want     string
	}{
		{"producto simple", "2", "50", "100.00"},
		{"decimales", "1.5", "3", "4.50"},
		// Texto no numérico en cualquiera de los dos lados anula el importe.
		{"cantidad no numérica", "abc", "5", "0.00"},
		{"tarifa no numérica", "5", "xyz", "0.00"},
		{"cantidad cero", "0", "99", "0.00"},
		{"redondeo mitad lejos de cero", "1.005", "1", "1.01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, invoice.ComputeLineAmount(tc.quantity, tc.rate))
		})
	}
}

func TestUpdateLine_NoMutaLaEntrada(t *testing.T) {
	lines := []entity.ProductLine{{Description: "a", Quantity: "1", Rate: "2"}}

	out, ok := invoice.UpdateLine(lines, 0, invoice.LineFieldQuantity, "3")
	require.True(t, ok)
	assert.Equal(t, "3", out[0].Quantity)
	assert.Equal(t, "1", lines[0].Quantity, "la secuencia original no debe cambiar")
}

func TestUpdateLine_DescripcionLiteral(t *testing.T) {
	lines := []entity.ProductLine{invoice.EmptyLine()}
	out, ok := invoice.UpdateLine(lines, 0, invoice.LineFieldDescription, "  12. Diseño ")
	require.True(t, ok)
	assert.Equal(t, "  12. Diseño ", out[0].Description)
}

func TestUpdateLine_IndiceOCampoInvalido(t *testing.T) {
	lines := []entity.ProductLine{invoice.EmptyLine()}

	_, ok := invoice.UpdateLine(lines, 1, invoice.LineFieldRate, "5")
	assert.False(t, ok)
	_, ok = invoice.UpdateLine(lines, -1, invoice.LineFieldRate, "5")
	assert.False(t, ok)
	_, ok = invoice.UpdateLine(lines, 0, "amount", "5")
	assert.False(t, ok)
}
