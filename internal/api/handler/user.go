package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/credivive/pipeline-manager-api/internal/usecases/authenticating"
	"github.com/credivive/pipeline-manager-api/pkg/apiErrors"
	"github.com/credivive/pipeline-manager-api/pkg/middleware"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

// CreateUserRequest es el alta de una cuenta por un administrador. La
// contraseña llega en claro y el servicio la convierte en hash; crear una
// cuenta nunca toca la sesión del administrador que la crea.
type CreateUserRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	NombreDisplay string `json:"nombre_display"`
	Rol           string `json:"rol"`
	EjecutivoID   *int64 `json:"ejecutivo_id"`
}

// GetUser devuelve el perfil de un usuario por ID
func GetUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDFromPath(w, r)
		if !ok {
			return
		}

		user, err := service.GetUserProfile(id)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error al consultar usuario", nil)
			return
		}

		if user == nil {
			apiErrors.WriteError(w, apiErrors.ErrUserNotFound, "Usuario no encontrado", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(user)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error al enviar la respuesta", nil)
			return
		}
	}
}

// CreateUser da de alta una cuenta nueva
func CreateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateUser")

		var req CreateUserRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Error al decodificar la petición", nil)
			return
		}

		if req.NombreDisplay == "" || req.Email == "" || req.Password == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Nombre, email y contraseña son obligatorios", nil)
			return
		}

		user, err := service.CreateUser(&domain.UserProfile{
			Email:         req.Email,
			PasswordHash:  req.Password,
			NombreDisplay: req.NombreDisplay,
			Rol:           req.Rol,
			EjecutivoID:   req.EjecutivoID,
		})
		if err != nil {
			logrus.Error(err)

			if errors.Is(err, authenticating.ErrUserAlreadyExists) {
				apiErrors.WriteError(w, apiErrors.ErrUserAlreadyExists, "Email ya registrado", nil)
				return
			} else if errors.Is(err, authenticating.ErrMissingRequiredData) {
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
				return
			} else if errors.Is(err, authenticating.ErrInvalidRole) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Rol inválido", nil)
				return
			}

			var authErr *authenticating.AuthError
			if errors.As(err, &authErr) {
				apiErrors.WriteError(w, authErr.Code, authErr.Details, nil)
				return
			}

			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error al crear usuario", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		err = json.NewEncoder(w).Encode(user)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error al enviar la respuesta", nil)
			return
		}
	}
}

// ListUsers lista todas las cuentas
func ListUsers(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := service.ListUsers()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error al consultar usuarios", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(users)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error al enviar la respuesta", nil)
			return
		}
	}
}

// UpdateUser edita un perfil. Un usuario edita solo su propio perfil, a
// menos que sea administrador; cambiar rol o activo es exclusivo del admin.
func UpdateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateUser")

		id, ok := userIDFromPath(w, r)
		if !ok {
			return
		}

		userClaims, claimsOK := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !claimsOK || (userClaims.UserID != id && !userClaims.IsAdmin()) {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "No tienes permiso para editar este usuario", nil)
			return
		}

		var updateReq domain.UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Error al decodificar la petición", nil)
			return
		}

		updateReq.ID = id

		if (updateReq.Rol != nil || updateReq.Activo != nil) && !userClaims.IsAdmin() {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Solo administradores pueden cambiar rol o estado de la cuenta", nil)
			return
		}

		err := service.UpdateUser(&updateReq)
		if err != nil {
			logrus.Error(err)

			switch {
			case errors.Is(err, authenticating.ErrUserNotFound):
				apiErrors.WriteError(w, apiErrors.ErrUserNotFound, "Usuario no encontrado", nil)

			case errors.Is(err, authenticating.ErrUserAlreadyExists):
				apiErrors.WriteError(w, apiErrors.ErrUserAlreadyExists, "Email ya registrado", nil)

			case errors.Is(err, authenticating.ErrInvalidRole):
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Rol inválido", nil)

			default:
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error al actualizar usuario", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}
}

// userIDFromPath extrae y valida el :id de la ruta; escribe el error HTTP
// cuando falta o no es numérico
func userIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if idStr == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID del usuario no proporcionado", nil)
		return 0, false
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logrus.Error(err)
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID del usuario inválido", nil)
		return 0, false
	}

	return id, true
}
