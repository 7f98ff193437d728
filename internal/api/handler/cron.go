package handler

import (
	"encoding/json"
	"net/http"

	"github.com/credivive/pipeline-manager-api/internal/scheduler"
	"github.com/credivive/pipeline-manager-api/pkg/apiErrors"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

// Trabajos programados disponibles para ejecución manual
const (
	CronJobTypeMetas = "metas"
)

// CronJobServices agrupa los servicios de cron que se pueden disparar
// manualmente desde la API
type CronJobServices struct {
	QuotaProvisioningService *scheduler.QuotaProvisioningService
}

// RunCronJob dispara manualmente un trabajo programado
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de trabajo no especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeMetas:
			if services.QuotaProvisioningService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Servicio de aprovisionamiento de metas no disponible", nil)
				return
			}
			services.QuotaProvisioningService.TriggerManualSync()

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de trabajo inválido. Valores aceptados: metas", nil)
			return
		}

		response := map[string]any{
			"message": "Trabajo iniciado con éxito",
			"type":    cronType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus devuelve el estado de los trabajos programados
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		status := map[string]any{
			"metas": services.QuotaProvisioningService.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
