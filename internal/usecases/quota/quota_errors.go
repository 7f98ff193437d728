package quota

import "errors"

// Errores de gestión de metas
var (
	ErrQuotaNotFound       = errors.New("meta no encontrada")
	ErrInvalidPeriod       = errors.New("periodo inválido")
	ErrEmptyPreviousPeriod = errors.New("el mes anterior no tiene metas registradas")
	ErrInvalidQuotaType    = errors.New("tipo de meta desconocido")
	ErrNegativeQuota       = errors.New("la meta no puede ser negativa")
)
