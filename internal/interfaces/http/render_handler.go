package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-editor/internal/application/dto"
	"github.com/jhoicas/invoice-editor/internal/application/editor"
)

// RenderHandler renderiza snapshots enviados por el cliente, sin sesión.
type RenderHandler struct {
	uc *editor.RenderUseCase
}

// NewRenderHandler construye el handler.
func NewRenderHandler(uc *editor.RenderUseCase) *RenderHandler {
	return &RenderHandler{uc: uc}
}

// PDF renderiza el snapshot como PDF.
// @Summary      Renderizar PDF sin sesión
// @Tags         render
// @Accept       json
// @Produce      application/pdf
// @Param        body  body      dto.RenderRequest  true  "snapshot de factura y ajustes"
// @Success      200   {file}    binary
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/render/pdf [post]
func (h *RenderHandler) PDF(c *fiber.Ctx) error {
	var in dto.RenderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, filename, err := h.uc.PDF(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, out, filename, mimePDF)
}

// XLSX renderiza el snapshot como hoja de cálculo.
// @Summary      Renderizar XLSX sin sesión
// @Tags         render
// @Accept       json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        body  body      dto.RenderRequest  true  "snapshot de factura y ajustes"
// @Success      200   {file}    binary
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/render/xlsx [post]
func (h *RenderHandler) XLSX(c *fiber.Ctx) error {
	var in dto.RenderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, filename, err := h.uc.XLSX(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, out, filename, mimeXLSX)
}
