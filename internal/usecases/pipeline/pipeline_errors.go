package pipeline

import "errors"

// Errores del pipeline de clientes
var (
	ErrClientNotFound      = errors.New("cliente no encontrado")
	ErrUnknownStatus       = errors.New("estatus fuera del registro del pipeline")
	ErrMissingNote         = errors.New("la nota es obligatoria al rechazar")
	ErrMissingRequiredData = errors.New("datos obligatorios ausentes")
	ErrInvalidAmount       = errors.New("el monto debe ser mayor o igual a cero")
)
