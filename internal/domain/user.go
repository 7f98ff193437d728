package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles de la aplicación. Son mutuamente excluyentes y sin jerarquía:
// admin ve todo; ejecutivo solo ve sus propios clientes.
const (
	RolAdmin     = "admin"
	RolEjecutivo = "ejecutivo"
)

// UserProfile representa una cuenta autenticable. Una cuenta nunca se borra
// desde la aplicación: desactivarla es el mecanismo de baja, y una cuenta
// inactiva no puede iniciar sesión.
type UserProfile struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	NombreDisplay string    `json:"nombre_display"`
	Rol           string    `json:"rol"`
	EjecutivoID   *int64    `json:"ejecutivo_id,omitempty"`
	Activo        bool      `json:"activo"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsAdmin indica si el perfil tiene rol de administrador
func (u *UserProfile) IsAdmin() bool {
	return u.Rol == RolAdmin
}

// UpdateUserRequest es una edición parcial de un perfil. Promover a admin
// limpia la liga con el ejecutivo.
type UpdateUserRequest struct {
	ID            int64   `json:"id"`
	NombreDisplay *string `json:"nombre_display"`
	Email         *string `json:"email"`
	Rol           *string `json:"rol"`
	EjecutivoID   *int64  `json:"ejecutivo_id"`
	Activo        *bool   `json:"activo"`
}

// Claims son los claims JWT que viajan en el token de sesión
type Claims struct {
	UserID        int64  `json:"user_id"`
	UserEmail     string `json:"user_email"`
	NombreDisplay string `json:"nombre_display"`
	Rol           string `json:"rol"`
	EjecutivoID   *int64 `json:"ejecutivo_id,omitempty"`
	Activo        bool   `json:"activo"`
	jwt.RegisteredClaims
}

// IsAdmin indica si el token pertenece a un administrador
func (c *Claims) IsAdmin() bool {
	return c.Rol == RolAdmin
}
