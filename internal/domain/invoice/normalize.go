// Package invoice contiene la lógica pura del editor de facturas: normalización de
// la entrada numérica de las líneas, cálculo de totales y actualizaciones de estado
// que devuelven un estado nuevo sin mutar el recibido.
package invoice

import (
	"math"
	"strconv"
	"strings"

	"github.com/jhoicas/invoice-editor/internal/domain/entity"
)

// Campos editables de una línea.
const (
	LineFieldDescription = "description"
	LineFieldQuantity    = "quantity"
	LineFieldRate        = "rate"
)

// ParseNumber toma el prefijo decimal más largo de raw (tras espacios iniciales).
// "12abc" → 12; "1e3" → 1000; "abc" → fallo. Acepta un exponente sin signo detrás
// de la mantisa ("1e" → 1, "1e-3" → 1). No acepta signo: cantidades y tarifas son
// siempre no negativas.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")
	end, digits, dot := 0, 0, false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			digits++
		} else if c == '.' && !dot {
			dot = true
		} else {
			break
		}
		end++
	}
	if digits > 0 && end+1 < len(s) && (s[end] == 'e' || s[end] == 'E') && isDigit(s[end+1]) {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
		}
	}
	if digits == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// NormalizeNumericInput aplica la política de edición en curso a cantidad/tarifa.
// Si el texto termina en "." o termina en "0" conteniendo ya un punto, se guarda tal cual
// para no pelear con el cursor del usuario. En otro caso se guarda la forma textual del
// número ("0" si no se puede interpretar).
func NormalizeNumericInput(raw string) string {
	if strings.HasSuffix(raw, ".") || (strings.HasSuffix(raw, "0") && strings.Contains(raw, ".")) {
		return raw
	}
	f, ok := ParseNumber(raw)
	if !ok || f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// LineAmount devuelve cantidad × tarifa sin redondear. Cero o texto no numérico en
// cualquiera de los dos lados da 0.
func LineAmount(quantity, rate string) float64 {
	q, okQ := ParseNumber(quantity)
	r, okR := ParseNumber(rate)
	if !okQ || !okR || q == 0 || r == 0 {
		return 0
	}
	return q * r
}

// ComputeLineAmount es LineAmount formateado a 2 decimales ("12.00").
func ComputeLineAmount(quantity, rate string) string {
	return FormatMoney(LineAmount(quantity, rate))
}

// UpdateLine devuelve una copia de lines con field de la línea index actualizado.
// description se guarda literal; quantity y rate pasan por NormalizeNumericInput.
// Índice inválido o campo desconocido: devuelve lines sin tocar y false.
func UpdateLine(lines []entity.ProductLine, index int, field, raw string) ([]entity.ProductLine, bool) {
	if index < 0 || index >= len(lines) {
		return lines, false
	}
	out := make([]entity.ProductLine, len(lines))
	copy(out, lines)
	switch field {
	case LineFieldDescription:
		out[index].Description = raw
	case LineFieldQuantity:
		out[index].Quantity = NormalizeNumericInput(raw)
	case LineFieldRate:
		out[index].Rate = NormalizeNumericInput(raw)
	default:
		return lines, false
	}
	return out, true
}
