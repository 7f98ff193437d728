package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/credivive/pipeline-manager-api/internal/usecases/exporting"
	"github.com/credivive/pipeline-manager-api/internal/usecases/pipeline"
	"github.com/credivive/pipeline-manager-api/pkg/apiErrors"
	"github.com/credivive/pipeline-manager-api/pkg/log"
)

// ExportWorkbook genera el libro de Excel del periodo y lo entrega como
// archivo adjunto. ?anio es obligatorio; ?mes acota a un solo mes.
func ExportWorkbook(service pipeline.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		anioStr := r.URL.Query().Get("anio")
		if anioStr == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Es necesario informar el año", nil)
			return
		}

		anio, err := strconv.Atoi(anioStr)
		if err != nil || anio < 2000 {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Año inválido", nil)
			return
		}

		mes := 0
		if mesStr := r.URL.Query().Get("mes"); mesStr != "" {
			mes, err = strconv.Atoi(mesStr)
			if err != nil || mes < 1 || mes > 12 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Mes inválido", nil)
				return
			}
		}

		records, err := service.ListClientsByYear(anio)
		if err != nil {
			logger.WithField("anio", anio).WithError(err).Error("Error al consultar clientes para exportar")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error al consultar clientes", nil)
			return
		}

		file, err := exporting.BuildWorkbook(records, mes, anio)
		if err != nil {
			logger.WithFields(log.Fields{"mes": mes, "anio": anio}).WithError(err).Error("Error al armar el libro de exportación")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error al generar el archivo", nil)
			return
		}

		filename := exporting.Filename(mes, anio)

		logger.WithFields(log.Fields{
			"anio":      anio,
			"mes":       mes,
			"registros": len(records),
			"archivo":   filename,
		}).Info("Exportación generada")

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if _, err := file.WriteTo(w); err != nil {
			logger.WithError(err).Error("Error al escribir el archivo en la respuesta")
		}
	})
}
