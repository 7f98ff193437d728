package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/credivive/pipeline-manager-api/internal/usecases/aggregating"
	"github.com/credivive/pipeline-manager-api/pkg/apiErrors"
	"github.com/credivive/pipeline-manager-api/pkg/log"
	"github.com/credivive/pipeline-manager-api/pkg/middleware"
)

// GetResumen arma el tablero del periodo consultado. ?mes&anio acota al
// mes, ?anio solo al año y sin parámetros abarca toda la cartera;
// &agrupar= elige la agrupación (ejecutivo por omisión, producto o mes).
func GetResumen(service aggregating.Insighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuario no autenticado", nil)
			return
		}

		window, ok := windowFromQuery(w, r)
		if !ok {
			return
		}

		groupBy := r.URL.Query().Get("agrupar")
		switch groupBy {
		case "", aggregating.GroupByEjecutivo, aggregating.GroupByProducto, aggregating.GroupByMes:
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Agrupación inválida. Valores aceptados: ejecutivo, producto, mes", nil)
			return
		}

		// El rol ejecutivo solo ve su propia cartera
		ejecutivo := ""
		if !userClaims.IsAdmin() {
			ejecutivo = userClaims.NombreDisplay
		}

		logger.WithFields(log.Fields{
			"ventana": window.Kind,
			"mes":     window.Mes,
			"anio":    window.Anio,
			"agrupar": groupBy,
		}).Info("Generando resumen del tablero")

		resumen, err := service.Resumen(window, groupBy, ejecutivo)
		if err != nil {
			logger.WithError(err).Error("Error al generar el resumen")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error al generar el resumen", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resumen); err != nil {
			logger.WithError(err).Error("Error al codificar el resumen")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error al enviar la respuesta", nil)
		}
	})
}

// windowFromQuery arma la ventana de agregación a partir de ?mes y ?anio;
// escribe el error HTTP cuando los parámetros no son válidos
func windowFromQuery(w http.ResponseWriter, r *http.Request) (aggregating.Window, bool) {
	mesStr := r.URL.Query().Get("mes")
	anioStr := r.URL.Query().Get("anio")

	if mesStr == "" && anioStr == "" {
		return aggregating.Window{Kind: aggregating.WindowAll}, true
	}

	if anioStr == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "El mes requiere también el año", nil)
		return aggregating.Window{}, false
	}

	anio, err := strconv.Atoi(anioStr)
	if err != nil || anio < 2000 {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Año inválido", nil)
		return aggregating.Window{}, false
	}

	if mesStr == "" {
		return aggregating.Window{Kind: aggregating.WindowYear, Anio: anio}, true
	}

	mes, err := strconv.Atoi(mesStr)
	if err != nil || mes < 1 || mes > 12 {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Mes inválido", nil)
		return aggregating.Window{}, false
	}

	return aggregating.Window{Kind: aggregating.WindowMonth, Mes: mes, Anio: anio}, true
}
