package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Códigos de error que la API expone a los clientes
const (
	// Errores de autenticación (AUTH)
	ErrInvalidCredentials    = "AUTH_001" // Credenciales inválidas
	ErrUserDisabled          = "AUTH_002" // Cuenta desactivada
	ErrUserNotFound          = "AUTH_003" // Usuario no encontrado
	ErrInvalidToken          = "AUTH_004" // Token inválido
	ErrExpiredToken          = "AUTH_005" // Token expirado
	ErrInsufficientPrivilege = "AUTH_006" // Privilegios insuficientes
	ErrUserAlreadyExists     = "AUTH_007" // Email ya registrado

	// Errores de validación (VAL)
	ErrInvalidRequest      = "VAL_001" // Petición inválida
	ErrMissingRequiredData = "VAL_002" // Datos obligatorios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de datos inválido
	ErrUnknownStatus       = "VAL_004" // Estatus fuera del registro del pipeline

	// Errores de recursos (RES)
	ErrNotFound = "RES_001" // Recurso no encontrado

	// Errores del servidor (SRV)
	ErrInternalServer    = "SRV_001" // Error interno del servidor
	ErrDatabaseOperation = "SRV_002" // Error de base de datos
)

// Mapeo de códigos de error a estatus HTTP
var httpStatusMap = map[string]int{
	ErrInvalidCredentials:    http.StatusUnauthorized,
	ErrUserDisabled:          http.StatusForbidden,
	ErrUserNotFound:          http.StatusNotFound,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrUserAlreadyExists:     http.StatusBadRequest,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrUnknownStatus:         http.StatusBadRequest,
	ErrNotFound:              http.StatusNotFound,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
}

// APIError representa un error estandarizado de la API
type APIError struct {
	Code    string `json:"code"`              // Código de error para el cliente
	Message string `json:"message,omitempty"` // Mensaje descriptivo (opcional)
	Details any    `json:"details,omitempty"` // Detalles adicionales (opcional)
}

// WriteError escribe el error estandarizado en la respuesta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError crea un error de API a partir de un error Go
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Error desconocido",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
