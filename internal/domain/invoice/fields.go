package invoice

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/jhoicas/invoice-editor/internal/domain"
	"github.com/jhoicas/invoice-editor/internal/domain/entity"
)

// FieldLogoWidth es el único atributo numérico de la cabecera.
const FieldLogoWidth = "logoWidth"

// stringFields mapea el nombre JSON de cada atributo de texto a su dirección en la factura.
var stringFields = map[string]func(*entity.Invoice) *string{
	"logo":                      func(i *entity.Invoice) *string { return &i.Logo },
	"title":                     func(i *entity.Invoice) *string { return &i.Title },
	"companyName":               func(i *entity.Invoice) *string { return &i.CompanyName },
	"name":                      func(i *entity.Invoice) *string { return &i.Name },
	"companyAddress":            func(i *entity.Invoice) *string { return &i.CompanyAddress },
	"companyAddress2":           func(i *entity.Invoice) *string { return &i.CompanyAddress2 },
	"companyCountry":            func(i *entity.Invoice) *string { return &i.CompanyCountry },
	"billTo":                    func(i *entity.Invoice) *string { return &i.BillTo },
	"clientName":                func(i *entity.Invoice) *string { return &i.ClientName },
	"clientAddress":             func(i *entity.Invoice) *string { return &i.ClientAddress },
	"clientAddress2":            func(i *entity.Invoice) *string { return &i.ClientAddress2 },
	"clientCountry":             func(i *entity.Invoice) *string { return &i.ClientCountry },
	"invoiceTitleLabel":         func(i *entity.Invoice) *string { return &i.InvoiceTitleLabel },
	"invoiceTitle":              func(i *entity.Invoice) *string { return &i.InvoiceTitle },
	"invoiceDateLabel":          func(i *entity.Invoice) *string { return &i.InvoiceDateLabel },
	"invoiceDate":               func(i *entity.Invoice) *string { return &i.InvoiceDate },
	"invoiceDueDateLabel":       func(i *entity.Invoice) *string { return &i.InvoiceDueDateLabel },
	"invoiceDueDate":            func(i *entity.Invoice) *string { return &i.InvoiceDueDate },
	"productLineDescription":    func(i *entity.Invoice) *string { return &i.ProductLineDescription },
	"productLineQuantity":       func(i *entity.Invoice) *string { return &i.ProductLineQuantity },
	"productLineQuantityRate":   func(i *entity.Invoice) *string { return &i.ProductLineQuantityRate },
	"productLineQuantityAmount": func(i *entity.Invoice) *string { return &i.ProductLineQuantityAmount },
	"subTotalLabel":             func(i *entity.Invoice) *string { return &i.SubTotalLabel },
	"taxLabel":                  func(i *entity.Invoice) *string { return &i.TaxLabel },
	"discountLabel":             func(i *entity.Invoice) *string { return &i.DiscountLabel },
	"totalLabel":                func(i *entity.Invoice) *string { return &i.TotalLabel },
	"currency":                  func(i *entity.Invoice) *string { return &i.Currency },
	"notesLabel":                func(i *entity.Invoice) *string { return &i.NotesLabel },
	"notes":                     func(i *entity.Invoice) *string { return &i.Notes },
	"termLabel":                 func(i *entity.Invoice) *string { return &i.TermLabel },
	"term":                      func(i *entity.Invoice) *string { return &i.Term },
}

// CheckField valida que value sea del tipo que admite name.
// Devuelve domain.ErrUnknownField o domain.ErrTypeMismatch (envueltos) si no.
func CheckField(name string, value any) error {
	if name == FieldLogoWidth {
		if _, ok := asNumber(value); !ok {
			return fmt.Errorf("%w: %s espera un número, recibido %T", domain.ErrTypeMismatch, name, value)
		}
		return nil
	}
	if _, ok := stringFields[name]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownField, name)
	}
	if _, ok := value.(string); !ok {
		return fmt.Errorf("%w: %s espera texto, recibido %T", domain.ErrTypeMismatch, name, value)
	}
	return nil
}

// applyField escribe value en inv si el tipo coincide. Devuelve false si se descartó.
func applyField(inv *entity.Invoice, name string, value any) bool {
	if CheckField(name, value) != nil {
		return false
	}
	if name == FieldLogoWidth {
		inv.LogoWidth, _ = asNumber(value)
		return true
	}
	*stringFields[name](inv) = value.(string)
	return true
}

// FieldNames lista, ordenados, los atributos configurables vía SetField.
func FieldNames() []string {
	names := make([]string, 0, len(stringFields)+1)
	names = append(names, FieldLogoWidth)
	for n := range stringFields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func asNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		x, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
