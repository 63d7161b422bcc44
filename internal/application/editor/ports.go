package editor

import (
	"context"
	"time"

	"github.com/jhoicas/invoice-editor/internal/domain/view"
)

// InvoicePDFGenerator puerto de salida para la representación PDF (modo documento).
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc view.Document) ([]byte, error)
}

// InvoiceSpreadsheetExporter puerto de salida para la exportación a hoja de cálculo.
type InvoiceSpreadsheetExporter interface {
	ExportInvoice(ctx context.Context, doc view.Document) ([]byte, error)
}

// SessionRepository almacena las sesiones de edición activas.
// No es persistencia: las sesiones viven solo mientras vive el proceso.
type SessionRepository interface {
	Create(s *Session) error
	// GetByID devuelve (nil, nil) si la sesión no existe.
	GetByID(id string) (*Session, error)
	Delete(id string) error
	// DeleteExpired elimina las sesiones sin actividad desde before y devuelve cuántas eran.
	DeleteExpired(before time.Time) int
}
