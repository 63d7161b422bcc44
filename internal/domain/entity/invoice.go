package entity

// Formato de fecha ISO usado en invoiceDate / invoiceDueDate.
const DateLayout = "2006-01-02"

// Invoice representa el documento editable (solo campos fuente; los totales se derivan).
// Los nombres JSON son los que usan los clientes del formulario y el endpoint de campos.
type Invoice struct {
	Logo      string  `json:"logo" yaml:"logo"` // data URL (data:image/png;base64,...) o vacío
	LogoWidth float64 `json:"logoWidth" yaml:"logoWidth"`
	Title     string  `json:"title" yaml:"title"`

	// Emisor
	CompanyName     string `json:"companyName" yaml:"companyName"`
	Name            string `json:"name" yaml:"name"`
	CompanyAddress  string `json:"companyAddress" yaml:"companyAddress"`
	CompanyAddress2 string `json:"companyAddress2" yaml:"companyAddress2"`
	CompanyCountry  string `json:"companyCountry" yaml:"companyCountry"`

	// Contraparte
	BillTo         string `json:"billTo" yaml:"billTo"`
	ClientName     string `json:"clientName" yaml:"clientName"`
	ClientAddress  string `json:"clientAddress" yaml:"clientAddress"`
	ClientAddress2 string `json:"clientAddress2" yaml:"clientAddress2"`
	ClientCountry  string `json:"clientCountry" yaml:"clientCountry"`

	InvoiceTitleLabel   string `json:"invoiceTitleLabel" yaml:"invoiceTitleLabel"`
	InvoiceTitle        string `json:"invoiceTitle" yaml:"invoiceTitle"`
	InvoiceDateLabel    string `json:"invoiceDateLabel" yaml:"invoiceDateLabel"`
	InvoiceDate         string `json:"invoiceDate" yaml:"invoiceDate"`
	InvoiceDueDateLabel string `json:"invoiceDueDateLabel" yaml:"invoiceDueDateLabel"`
	InvoiceDueDate      string `json:"invoiceDueDate" yaml:"invoiceDueDate"`

	// Cabecera de la tabla de líneas
	ProductLineDescription    string `json:"productLineDescription" yaml:"productLineDescription"`
	ProductLineQuantity       string `json:"productLineQuantity" yaml:"productLineQuantity"`
	ProductLineQuantityRate   string `json:"productLineQuantityRate" yaml:"productLineQuantityRate"`
	ProductLineQuantityAmount string `json:"productLineQuantityAmount" yaml:"productLineQuantityAmount"`

	ProductLines []ProductLine `json:"productLines" yaml:"productLines"` // orden = orden de visualización

	SubTotalLabel string `json:"subTotalLabel" yaml:"subTotalLabel"`
	TaxLabel      string `json:"taxLabel" yaml:"taxLabel"`
	DiscountLabel string `json:"discountLabel" yaml:"discountLabel"`
	TotalLabel    string `json:"totalLabel" yaml:"totalLabel"`
	Currency      string `json:"currency" yaml:"currency"`

	NotesLabel string `json:"notesLabel" yaml:"notesLabel"`
	Notes      string `json:"notes" yaml:"notes"`
	TermLabel  string `json:"termLabel" yaml:"termLabel"`
	Term       string `json:"term" yaml:"term"`
}

// ProductLine es una fila facturable. Quantity y Rate se guardan como texto para
// permitir entradas parciales ("12.") mientras el usuario escribe.
type ProductLine struct {
	Description string `json:"description" yaml:"description"`
	Quantity    string `json:"quantity" yaml:"quantity"`
	Rate        string `json:"rate" yaml:"rate"`
}

// Clone devuelve una copia profunda; los snapshots entregados fuera del editor son siempre copias.
func (inv Invoice) Clone() Invoice {
	out := inv
	if inv.ProductLines != nil {
		out.ProductLines = make([]ProductLine, len(inv.ProductLines))
		copy(out.ProductLines, inv.ProductLines)
	}
	return out
}

// Adjustment parametriza el impuesto o el descuento porcentual sobre el subtotal.
// No forma parte del snapshot.
type Adjustment struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Percent float64 `json:"percent" yaml:"percent"`
}
