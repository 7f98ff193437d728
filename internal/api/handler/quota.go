package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/credivive/pipeline-manager-api/internal/usecases/quota"
	"github.com/credivive/pipeline-manager-api/pkg/apiErrors"
	"github.com/credivive/pipeline-manager-api/pkg/log"
	"github.com/julienschmidt/httprouter"
)

// CopyQuotasRequest indica el periodo destino de la copia de metas
type CopyQuotasRequest struct {
	Mes  int `json:"mes"`
	Anio int `json:"anio"`
}

// ListQuotas devuelve las metas del periodo separadas por línea de negocio
func ListQuotas(service quota.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		mes, anio, ok := periodFromQuery(w, r)
		if !ok {
			return
		}

		quotas, err := service.ListByPeriod(mes, anio)
		if err != nil {
			logger.WithFields(log.Fields{"mes": mes, "anio": anio}).WithError(err).Error("Error al consultar metas")
			handleQuotaError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(quotas); err != nil {
			logger.WithError(err).Error("Error al codificar las metas")
		}
	})
}

// UpdateQuota edita la meta, el tipo o el estado activo de una fila de metas
func UpdateQuota(service quota.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID de la meta inválido", nil)
			return
		}

		var req domain.UpdateQuotaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Error al decodificar la petición", nil)
			return
		}

		req.ID = id

		if err := service.UpdateQuota(&req); err != nil {
			logger.WithField("meta_id", id).WithError(err).Error("Error al actualizar la meta")
			handleQuotaError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	})
}

// CopyPreviousMonthQuotas copia las metas del mes anterior al periodo
// destino, omitiendo las que ya existen
func CopyPreviousMonthQuotas(service quota.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req CopyQuotasRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Error al decodificar la petición", nil)
			return
		}

		copied, err := service.CopyPreviousMonth(req.Mes, req.Anio)
		if err != nil {
			logger.WithFields(log.Fields{"mes": req.Mes, "anio": req.Anio}).WithError(err).Error("Error al copiar metas del mes anterior")
			handleQuotaError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"copiadas": copied,
			"mes":      req.Mes,
			"anio":     req.Anio,
		})
	})
}

// GetAvance devuelve la tabla de desempeño del periodo: lo real vendido por
// ejecutivo contra su meta, con avance, proyección y faltante
func GetAvance(service quota.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		mes, anio, ok := periodFromQuery(w, r)
		if !ok {
			return
		}

		avance, err := service.Avance(mes, anio)
		if err != nil {
			logger.WithFields(log.Fields{"mes": mes, "anio": anio}).WithError(err).Error("Error al calcular el avance")
			handleQuotaError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(avance); err != nil {
			logger.WithError(err).Error("Error al codificar el avance")
		}
	})
}

func handleQuotaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quota.ErrInvalidPeriod):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Periodo inválido", nil)

	case errors.Is(err, quota.ErrQuotaNotFound):
		apiErrors.WriteError(w, apiErrors.ErrNotFound, "Meta no encontrada", nil)

	case errors.Is(err, quota.ErrEmptyPreviousPeriod):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "El mes anterior no tiene metas que copiar", nil)

	case errors.Is(err, quota.ErrInvalidQuotaType):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de meta inválido. Valores aceptados: nómina, motos", nil)

	case errors.Is(err, quota.ErrNegativeQuota):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "La meta no puede ser negativa", nil)

	default:
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error en la operación de metas", nil)
	}
}

// periodFromQuery extrae y valida ?mes y ?anio, ambos obligatorios
func periodFromQuery(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	mesStr := r.URL.Query().Get("mes")
	anioStr := r.URL.Query().Get("anio")

	if mesStr == "" || anioStr == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Es necesario informar mes y año", nil)
		return 0, 0, false
	}

	mes, err := strconv.Atoi(mesStr)
	if err != nil || mes < 1 || mes > 12 {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Mes inválido", nil)
		return 0, 0, false
	}

	anio, err := strconv.Atoi(anioStr)
	if err != nil || anio < 2000 {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Año inválido", nil)
		return 0, 0, false
	}

	return mes, anio, true
}
