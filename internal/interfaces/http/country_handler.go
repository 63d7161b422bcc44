package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-editor/internal/application/dto"
	"github.com/jhoicas/invoice-editor/pkg/countries"
)

// CountryHandler sirve la lista del selector de país.
type CountryHandler struct{}

// NewCountryHandler construye el handler.
func NewCountryHandler() *CountryHandler { return &CountryHandler{} }

// List devuelve los países con su nombre en el idioma pedido.
// @Summary      Listar países
// @Tags         countries
// @Produce      json
// @Param        lang  query  string  false  "idioma BCP 47 (default en)"
// @Success      200   {array}  dto.CountryResponse
// @Router       /api/countries [get]
func (h *CountryHandler) List(c *fiber.Ctx) error {
	list := countries.List(countries.Parse(c.Query("lang")))
	out := make([]dto.CountryResponse, 0, len(list))
	for _, ct := range list {
		out = append(out, dto.CountryResponse{Code: ct.Code, Name: ct.Name})
	}
	return c.JSON(out)
}
