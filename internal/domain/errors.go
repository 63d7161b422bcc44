package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrTypeMismatch = errors.New("tipo de valor no admitido para el campo")
	ErrUnknownField = errors.New("campo de factura desconocido")
)
