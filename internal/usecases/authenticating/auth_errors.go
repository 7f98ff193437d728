package authenticating

import (
	"errors"
	"fmt"
)

// Errores de autenticación de la aplicación
var (
	ErrInvalidCredentials    = errors.New("credenciales inválidas")
	ErrUserDisabled          = errors.New("cuenta desactivada")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrInvalidToken          = errors.New("token inválido")
	ErrExpiredToken          = errors.New("token expirado")
	ErrInsufficientPrivilege = errors.New("privilegios insuficientes")
	ErrUserAlreadyExists     = errors.New("usuario ya registrado")

	// Errores de validación
	ErrInvalidRequest      = errors.New("petición inválida")
	ErrMissingRequiredData = errors.New("datos obligatorios ausentes")
	ErrInvalidRole         = errors.New("rol desconocido")

	// Errores relacionados a contraseñas
	ErrWeakPassword      = errors.New("contraseña débil")
	ErrSamePassword      = errors.New("la nueva contraseña debe ser distinta a la actual")
	ErrNoAdminPrivileges = errors.New("solo administradores pueden realizar esta acción")

	// Errores de base de datos
	ErrDatabaseOperation = errors.New("error al realizar la operación en la base de datos")
)

// AuthError es un error con contexto adicional para autenticación
type AuthError struct {
	Err     error  // Error base
	Code    string // Código de error para la API
	UserID  int64  // ID del usuario involucrado (cuando aplica)
	Details string // Detalles adicionales
}

// Error implementa la interfaz error
func (e *AuthError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap devuelve el error subyacente
func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsCredentialsError verifica si el error está relacionado a credenciales inválidas
func IsCredentialsError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUserDisabled)
}

// IsAuthorizationError verifica si el error está relacionado a autorización
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrInsufficientPrivilege) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrNoAdminPrivileges)
}

// NewAuthError crea un nuevo error de autenticación
func NewAuthError(baseErr error, code string, details string) *AuthError {
	return &AuthError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}

// NewUserAuthError crea un nuevo error de autenticación con contexto de usuario
func NewUserAuthError(baseErr error, code string, userID int64, details string) *AuthError {
	return &AuthError{
		Err:     baseErr,
		Code:    code,
		UserID:  userID,
		Details: details,
	}
}
