package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// ErrInvalidRange: la fecha de fin de licencia no es posterior a la de inicio.
	// Recuperable: quien llama limpia license_end y muestra el mensaje al usuario.
	ErrInvalidRange = errors.New("License End Date must be after License Start Date")
	// ErrMissingExchangeRate: el par de monedas no existe en Currency Exchange.
	// Recuperable: se pide la tasa manual; nunca se inventa una tasa.
	ErrMissingExchangeRate = errors.New("tasa de cambio no disponible, ingrésela manualmente")
	// ErrDocumentSubmitted: el documento ya fue enviado y no admite cambios en sus ítems.
	ErrDocumentSubmitted = errors.New("el documento ya fue enviado")
	// ErrNotSubmitted: la operación requiere un documento enviado (docstatus = 1).
	ErrNotSubmitted = errors.New("el documento no ha sido enviado")
)
