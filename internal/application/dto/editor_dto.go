package dto

import (
	"github.com/jhoicas/invoice-editor/internal/domain/entity"
	"github.com/jhoicas/invoice-editor/internal/domain/view"
)

// Operaciones de edición admitidas por EditOperation.Op.
const (
	OpSetField    = "set_field"
	OpSetTax      = "set_tax"
	OpSetDiscount = "set_discount"
	OpAddLine     = "add_line"
	OpRemoveLine  = "remove_line"
	OpUpdateLine  = "update_line"
)

// CreateSessionRequest body para POST /api/invoices.
// Invoice vacío = plantilla por defecto; Tax/Discount vacíos = valores de configuración.
type CreateSessionRequest struct {
	Invoice  *entity.Invoice    `json:"invoice,omitempty"`
	Tax      *entity.Adjustment `json:"tax,omitempty"`
	Discount *entity.Adjustment `json:"discount,omitempty"`
}

// SetFieldRequest body para PATCH /api/invoices/:id/fields.
// Value conserva su tipo JSON: número para logoWidth, texto para el resto.
type SetFieldRequest struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// AdjustmentRequest body para PUT /api/invoices/:id/tax y /discount.
// Los campos omitidos no se modifican.
type AdjustmentRequest struct {
	Enabled *bool    `json:"enabled,omitempty"`
	Percent *float64 `json:"percent,omitempty"`
}

// UpdateLineRequest body para PATCH /api/invoices/:id/lines/:index.
type UpdateLineRequest struct {
	Field string `json:"field"` // description | quantity | rate
	Value string `json:"value"`
}

// EditOperation una edición sobre una sesión (forma común de todos los endpoints de edición).
type EditOperation struct {
	Op      string   `json:"op"`
	Name    string   `json:"name,omitempty"`
	Value   any      `json:"value,omitempty"`
	Index   int      `json:"index,omitempty"`
	Field   string   `json:"field,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
	Percent *float64 `json:"percent,omitempty"`
}

// SessionResponse estado de una sesión de edición.
// Token solo se devuelve al crear la sesión.
type SessionResponse struct {
	ID       string        `json:"id"`
	Token    string        `json:"token,omitempty"`
	Version  int64         `json:"version"`
	Document view.Document `json:"document"`
}

// RenderRequest body para POST /api/render/pdf y /api/render/xlsx (sin sesión).
type RenderRequest struct {
	Invoice  entity.Invoice    `json:"invoice"`
	Tax      entity.Adjustment `json:"tax"`
	Discount entity.Adjustment `json:"discount"`
}

// CountryResponse entrada del selector de país.
type CountryResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// TokenResponse token emitido para la sesión: de exportación (share) o de edición renovado.
type TokenResponse struct {
	Token string `json:"token"`
}
