package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-editor/internal/application/dto"
	"github.com/jhoicas/invoice-editor/internal/application/editor"
	"github.com/jhoicas/invoice-editor/pkg/jwt"
)

// localScope clave de c.Locals con el scope del token ("edit" o "export").
const localScope = "token_scope"

// HeaderEditToken lleva el token de edición renovado tras cada petición
// exitosa hecha con un token de edición.
const HeaderEditToken = "X-Edit-Token"

// SessionGuard valida el Bearer Token de la sesión :id.
// Con secret vacío no hay tokens y el guardia deja pasar todo.
// allowExport permite además tokens de solo exportación (lecturas y descargas).
func SessionGuard(secret string, allowExport bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		sessionID, scope, err := jwt.Parse(secret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if sessionID != c.Params("id") {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el token no corresponde a esta sesión"})
		}
		switch {
		case scope == jwt.ScopeEdit:
		case scope == jwt.ScopeExport && allowExport:
		default:
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el token no permite esta operación"})
		}
		c.Locals(localScope, scope)
		return c.Next()
	}
}

// GetScope devuelve el scope del token (después de SessionGuard); "" si no hay tokens.
func GetScope(c *fiber.Ctx) string {
	v := c.Locals(localScope)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RenewEditToken se monta después de SessionGuard. Si la petición terminó bien
// y llegó con token de edición, responde con uno nuevo en X-Edit-Token para que
// el token no caduque mientras la sesión sigue activa.
func RenewEditToken(uc *editor.SessionUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}
		if GetScope(c) != jwt.ScopeEdit || c.Response().StatusCode() >= fiber.StatusBadRequest {
			return nil
		}
		token, err := uc.RefreshToken(c.Context(), c.Params("id"))
		if err != nil || token == "" {
			return nil
		}
		c.Set(HeaderEditToken, token)
		return nil
	}
}
