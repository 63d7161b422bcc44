package editor

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoice-editor/internal/application/dto"
	"github.com/jhoicas/invoice-editor/internal/domain/invoice"
	"github.com/jhoicas/invoice-editor/internal/domain/view"
)

// RenderUseCase renderiza un snapshot recibido sin abrir sesión. Los totales se
// recalculan con las mismas fórmulas que usa el editor.
type RenderUseCase struct {
	pdf  InvoicePDFGenerator
	xlsx InvoiceSpreadsheetExporter
}

// NewRenderUseCase construye el caso de uso.
func NewRenderUseCase(pdf InvoicePDFGenerator, xlsx InvoiceSpreadsheetExporter) *RenderUseCase {
	return &RenderUseCase{pdf: pdf, xlsx: xlsx}
}

// Document arma la vista del snapshot en el modo indicado.
func (uc *RenderUseCase) Document(in dto.RenderRequest, mode view.Mode) view.Document {
	return view.Build(invoice.NewState(in.Invoice, in.Tax, in.Discount), mode)
}

// PDF devuelve el PDF y un nombre de archivo sugerido.
func (uc *RenderUseCase) PDF(ctx context.Context, in dto.RenderRequest) ([]byte, string, error) {
	doc := uc.Document(in, view.ModePDF)
	out, err := uc.pdf.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return out, ExportFilename(doc.Invoice, "draft", "pdf"), nil
}

// XLSX devuelve la hoja de cálculo y un nombre de archivo sugerido.
func (uc *RenderUseCase) XLSX(ctx context.Context, in dto.RenderRequest) ([]byte, string, error) {
	doc := uc.Document(in, view.ModePDF)
	out, err := uc.xlsx.ExportInvoice(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("xlsx: exportación fallida: %w", err)
	}
	return out, ExportFilename(doc.Invoice, "draft", "xlsx"), nil
}
