package http

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-editor/internal/application/dto"
	"github.com/jhoicas/invoice-editor/internal/application/editor"
	"github.com/jhoicas/invoice-editor/internal/domain/view"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// InvoiceHandler maneja las sesiones de edición de facturas.
type InvoiceHandler struct {
	uc *editor.SessionUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *editor.SessionUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create abre una sesión de edición.
// @Summary      Crear sesión de edición
// @Description  Sin cuerpo se usa la plantilla por defecto. Devuelve el token de edición si JWT_SECRET está configurado.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateSessionRequest  false  "factura inicial y ajustes (opcionales)"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get devuelve el estado de la sesión.
// @Summary      Obtener sesión
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id    path      string  true   "id de sesión"
// @Param        mode  query     string  false  "form (default) o pdf"
// @Success      200   {object}  dto.SessionResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"), view.ParseMode(c.Query("mode")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetField actualiza un campo de cabecera.
// @Summary      Actualizar campo
// @Description  logoWidth acepta números; el resto de campos, texto.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "id de sesión"
// @Param        body  body      dto.SetFieldRequest  true  "nombre y valor"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/fields [patch]
func (h *InvoiceHandler) SetField(c *fiber.Ctx) error {
	var in dto.SetFieldRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	return h.apply(c, dto.EditOperation{Op: dto.OpSetField, Name: in.Name, Value: in.Value})
}

// SetTax activa/desactiva el impuesto o cambia su porcentaje.
// @Summary      Configurar impuesto
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "id de sesión"
// @Param        body  body      dto.AdjustmentRequest  true  "enabled y/o percent"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/tax [put]
func (h *InvoiceHandler) SetTax(c *fiber.Ctx) error {
	return h.adjustment(c, dto.OpSetTax)
}

// SetDiscount activa/desactiva el descuento o cambia su porcentaje.
// @Summary      Configurar descuento
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "id de sesión"
// @Param        body  body      dto.AdjustmentRequest  true  "enabled y/o percent"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/discount [put]
func (h *InvoiceHandler) SetDiscount(c *fiber.Ctx) error {
	return h.adjustment(c, dto.OpSetDiscount)
}

func (h *InvoiceHandler) adjustment(c *fiber.Ctx, op string) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	return h.apply(c, dto.EditOperation{Op: op, Enabled: in.Enabled, Percent: in.Percent})
}

// AddLine agrega una línea vacía.
// @Summary      Agregar línea
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "id de sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/lines [post]
func (h *InvoiceHandler) AddLine(c *fiber.Ctx) error {
	return h.apply(c, dto.EditOperation{Op: dto.OpAddLine})
}

// UpdateLine edita descripción, cantidad o tarifa de una línea.
// @Summary      Editar línea
// @Description  Cantidad y tarifa se normalizan: texto no numérico se guarda como "0".
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id     path      string                 true  "id de sesión"
// @Param        index  path      int                    true  "posición de la línea (0..n-1)"
// @Param        body   body      dto.UpdateLineRequest  true  "campo y valor"
// @Success      200    {object}  dto.SessionResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/lines/{index} [patch]
func (h *InvoiceHandler) UpdateLine(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "index debe ser entero"})
	}
	var in dto.UpdateLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	return h.apply(c, dto.EditOperation{Op: dto.OpUpdateLine, Index: index, Field: in.Field, Value: in.Value})
}

// RemoveLine quita una línea. Un índice que ya no existe se ignora.
// @Summary      Eliminar línea
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id     path      string  true  "id de sesión"
// @Param        index  path      int     true  "posición de la línea (0..n-1)"
// @Success      200    {object}  dto.SessionResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/lines/{index} [delete]
func (h *InvoiceHandler) RemoveLine(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "index debe ser entero"})
	}
	return h.apply(c, dto.EditOperation{Op: dto.OpRemoveLine, Index: index})
}

func (h *InvoiceHandler) apply(c *fiber.Ctx, op dto.EditOperation) error {
	out, err := h.uc.Apply(c.Context(), c.Params("id"), op)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UploadLogo sube el logo (multipart, campo "logo").
// @Summary      Subir logo
// @Tags         invoices
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "id de sesión"
// @Param        logo  formData  file    true  "imagen png o jpeg (máx. 5 MB)"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/logo [post]
func (h *InvoiceHandler) UploadLogo(c *fiber.Ctx) error {
	fh, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo 'logo' requerido"})
	}
	if fh.Size > editor.MaxLogoBytes {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el logo supera 5 MB"})
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, fmt.Errorf("abrir logo: %w", err))
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, editor.MaxLogoBytes+1))
	if err != nil {
		return respondError(c, fmt.Errorf("leer logo: %w", err))
	}
	out, err := h.uc.UploadLogo(c.Context(), c.Params("id"), data)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Share emite un token de solo exportación.
// @Summary      Compartir sesión (solo lectura/exportación)
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "id de sesión"
// @Success      200  {object}  dto.TokenResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/share [post]
func (h *InvoiceHandler) Share(c *fiber.Ctx) error {
	token, err := h.uc.Share(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TokenResponse{Token: token})
}

// RefreshToken emite un token de edición nuevo para la sesión.
// @Summary      Renovar token de edición
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "id de sesión"
// @Success      200  {object}  dto.TokenResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/token [post]
func (h *InvoiceHandler) RefreshToken(c *fiber.Ctx) error {
	token, err := h.uc.RefreshToken(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TokenResponse{Token: token})
}

// ExportPDF descarga la factura como PDF.
// @Summary      Exportar PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "id de sesión"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) ExportPDF(c *fiber.Ctx) error {
	out, filename, err := h.uc.ExportPDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, out, filename, mimePDF)
}

// ExportXLSX descarga la factura como hoja de cálculo.
// @Summary      Exportar XLSX
// @Tags         invoices
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path      string  true  "id de sesión"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/xlsx [get]
func (h *InvoiceHandler) ExportXLSX(c *fiber.Ctx) error {
	out, filename, err := h.uc.ExportXLSX(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, out, filename, mimeXLSX)
}

// Delete cierra la sesión.
// @Summary      Cerrar sesión
// @Tags         invoices
// @Security     Bearer
// @Param        id   path  string  true  "id de sesión"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func sendFile(c *fiber.Ctx, body []byte, filename, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}
