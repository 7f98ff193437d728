package middleware

import (
	"net/http"

	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/credivive/pipeline-manager-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// RoleMiddleware restringe el acceso a una ruta a los roles indicados
func RoleMiddleware(allowedRoles []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userClaims, ok := r.Context().Value(ContextKeyUser).(*domain.Claims)

			if !ok {
				logrus.Warning("Intento de acceso sin autenticación")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuario no autenticado", nil)
				return
			}

			isAllowed := false
			for _, role := range allowedRoles {
				if userClaims.Rol == role {
					isAllowed = true
					break
				}
			}

			if !isAllowed {
				logrus.Warningf("Acceso denegado para usuario ID=%d, Rol=%s", userClaims.UserID, userClaims.Rol)
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "No tienes permiso para acceder a este recurso", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly permite acceso solo a administradores
func AdminOnly() func(http.Handler) http.Handler {
	return RoleMiddleware([]string{domain.RolAdmin})
}

// AllRoles permite acceso a administradores y ejecutivos
func AllRoles() func(http.Handler) http.Handler {
	return RoleMiddleware([]string{domain.RolAdmin, domain.RolEjecutivo})
}
