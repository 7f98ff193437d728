package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/credivive/pipeline-manager-api/internal/usecases/pipeline"
	"github.com/credivive/pipeline-manager-api/pkg/apiErrors"
	"github.com/credivive/pipeline-manager-api/pkg/log"
	"github.com/credivive/pipeline-manager-api/pkg/middleware"
	"github.com/credivive/pipeline-manager-api/pkg/utils"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

// CreateClientRequest es el alta de un caso en el pipeline
type CreateClientRequest struct {
	Ejecutivo     string  `json:"ejecutivo"`
	EjecutivoID   *int64  `json:"ejecutivo_id"`
	NombreCliente string  `json:"nombre_cliente"`
	Producto      string  `json:"producto"`
	Monto         float64 `json:"monto"`
	Sucursal      string  `json:"sucursal"`
	Convenio      *string `json:"convenio"`
	FechaInicio   string  `json:"fecha_inicio"`
	Actualizacion string  `json:"actualizacion"`
}

// TransitionRequest mueve un caso a otro estatus del pipeline
type TransitionRequest struct {
	Estatus string `json:"estatus"`
	Nota    string `json:"nota"`
}

// clientResponse agrega al caso los días transcurridos desde el último
// cambio de estatus, para resaltar los casos estancados en el tablero
type clientResponse struct {
	*domain.Client
	DiasSinActualizar int `json:"dias_sin_actualizar"`
}

func toClientResponses(clients []*domain.Client, now time.Time) []*clientResponse {
	responses := make([]*clientResponse, 0, len(clients))
	for _, client := range clients {
		responses = append(responses, &clientResponse{
			Client:            client,
			DiasSinActualizar: client.DiasSinActualizar(now),
		})
	}

	return responses
}

// ListClients devuelve los casos del periodo consultado. Un usuario de rol
// ejecutivo solo ve sus propios casos, sin importar los filtros que mande.
func ListClients(service pipeline.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuario no autenticado", nil)
			return
		}

		filters := &domain.ClientFilters{
			Ejecutivo: r.URL.Query().Get("ejecutivo"),
			Estatus:   r.URL.Query().Get("estatus"),
			Producto:  r.URL.Query().Get("producto"),
		}

		if mesStr := r.URL.Query().Get("mes"); mesStr != "" {
			mes, err := strconv.Atoi(mesStr)
			if err != nil || mes < 1 || mes > 12 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Mes inválido", nil)
				return
			}
			filters.Mes = mes
		}

		if anioStr := r.URL.Query().Get("anio"); anioStr != "" {
			anio, err := strconv.Atoi(anioStr)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Año inválido", nil)
				return
			}
			filters.Anio = anio
		}

		// El rol ejecutivo queda acotado a sus propios casos
		if !userClaims.IsAdmin() {
			filters.Ejecutivo = userClaims.NombreDisplay
		}

		clients, err := service.ListClients(filters)
		if err != nil {
			logger.WithError(err).Error("Error al consultar clientes")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error al consultar clientes", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(toClientResponses(clients, time.Now())); err != nil {
			logger.WithError(err).Error("Error al codificar la respuesta de clientes")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error al enviar la respuesta", nil)
		}
	})
}

// CreateClient da de alta un caso nuevo
func CreateClient(service pipeline.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logrus.Info("INIT - CreateClient")

		var req CreateClientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Error al decodificar la petición", nil)
			return
		}

		client := &domain.Client{
			Ejecutivo:     req.Ejecutivo,
			EjecutivoID:   req.EjecutivoID,
			NombreCliente: req.NombreCliente,
			Producto:      req.Producto,
			Monto:         req.Monto,
			Sucursal:      req.Sucursal,
			Convenio:      req.Convenio,
			Actualizacion: req.Actualizacion,
		}

		fechaInicio, err := utils.ParseDate(req.FechaInicio)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Fecha de inicio inválida, use AAAA-MM-DD", nil)
			return
		}
		if fechaInicio != nil {
			client.FechaInicio = *fechaInicio
		}

		created, err := service.CreateClient(client)
		if err != nil {
			logger.WithError(err).Error("Error al crear cliente")

			switch {
			case errors.Is(err, pipeline.ErrMissingRequiredData):
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)

			case errors.Is(err, pipeline.ErrInvalidAmount):
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)

			default:
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error al crear cliente", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(created); err != nil {
			logger.WithError(err).Error("Error al codificar la respuesta")
		}
	})
}

// UpdateClient aplica una edición parcial de los campos directos de un caso.
// El estatus no se edita por aquí: solo por la transición de estatus.
func UpdateClient(service pipeline.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id, ok := clientIDFromPath(w, r)
		if !ok {
			return
		}

		var updateReq domain.UpdateClientRequest
		if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Error al decodificar la petición", nil)
			return
		}

		updateReq.ID = id

		if err := service.UpdateClient(&updateReq); err != nil {
			logger.WithField("cliente_id", id).WithError(err).Error("Error al actualizar cliente")

			if errors.Is(err, pipeline.ErrClientNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Cliente no encontrado", nil)
				return
			}

			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error al actualizar cliente", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	})
}

// DeleteClient elimina un caso de forma definitiva
func DeleteClient(service pipeline.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id, ok := clientIDFromPath(w, r)
		if !ok {
			return
		}

		if err := service.DeleteClient(id); err != nil {
			logger.WithField("cliente_id", id).WithError(err).Error("Error al eliminar cliente")

			if errors.Is(err, pipeline.ErrClientNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Cliente no encontrado", nil)
				return
			}

			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error al eliminar cliente", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

// TransitionStatus mueve un caso a otro estatus del pipeline. El usuario
// que ejecuta el cambio queda registrado en la bitácora.
func TransitionStatus(service pipeline.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id, ok := clientIDFromPath(w, r)
		if !ok {
			return
		}

		var req TransitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Error al decodificar la petición", nil)
			return
		}

		actingUser := ""
		if userClaims, claimsOK := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims); claimsOK {
			actingUser = userClaims.NombreDisplay
		}

		client, err := service.Transition(id, req.Estatus, req.Nota, actingUser)
		if err != nil {
			logger.WithFields(log.Fields{
				"cliente_id": id,
				"estatus":    req.Estatus,
			}).WithError(err).Error("Error al transicionar estatus")

			switch {
			case errors.Is(err, pipeline.ErrClientNotFound):
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Cliente no encontrado", nil)

			case errors.Is(err, pipeline.ErrUnknownStatus):
				apiErrors.WriteError(w, apiErrors.ErrUnknownStatus, "Estatus fuera del registro del pipeline", nil)

			case errors.Is(err, pipeline.ErrMissingNote):
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "La nota es obligatoria al rechazar", nil)

			default:
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error al cambiar el estatus", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(client); err != nil {
			logger.WithError(err).Error("Error al codificar la respuesta")
		}
	})
}

// ListHistory devuelve la bitácora de cambios de estatus de un caso, del
// cambio más reciente al más antiguo
func ListHistory(service pipeline.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id, ok := clientIDFromPath(w, r)
		if !ok {
			return
		}

		entries, err := service.ListHistory(id)
		if err != nil {
			logger.WithField("cliente_id", id).WithError(err).Error("Error al consultar la bitácora")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error al consultar la bitácora", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			logger.WithError(err).Error("Error al codificar la respuesta")
		}
	})
}

func clientIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if idStr == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID del cliente no proporcionado", nil)
		return 0, false
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID del cliente inválido", nil)
		return 0, false
	}

	return id, true
}
