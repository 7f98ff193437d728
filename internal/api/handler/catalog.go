package handler

import (
	"encoding/json"
	"net/http"

	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/credivive/pipeline-manager-api/pkg/log"
)

// EstatusCatalogEntry es una etapa del pipeline con su etiqueta corta de
// presentación
type EstatusCatalogEntry struct {
	Valor    string `json:"valor"`
	Etiqueta string `json:"etiqueta"`
}

// CatalogResponse son los catálogos fijos que consume el formulario de
// alta: estatus, productos, sucursales por línea y meses
type CatalogResponse struct {
	Estatus         []EstatusCatalogEntry `json:"estatus"`
	Productos       []string              `json:"productos"`
	Sucursales      []string              `json:"sucursales"`
	SucursalesMotos []string              `json:"sucursales_motos"`
	Meses           []string              `json:"meses"`
}

// GetCatalogs devuelve los catálogos fijos del dominio
func GetCatalogs() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		estatus := make([]EstatusCatalogEntry, 0, len(domain.PipelineStages)+1)
		for _, stage := range domain.PipelineStages {
			estatus = append(estatus, EstatusCatalogEntry{Valor: stage, Etiqueta: domain.StageLabel(stage)})
		}
		estatus = append(estatus, EstatusCatalogEntry{
			Valor:    domain.EstatusRechazado,
			Etiqueta: domain.StageLabel(domain.EstatusRechazado),
		})

		response := CatalogResponse{
			Estatus:         estatus,
			Productos:       domain.Productos,
			Sucursales:      domain.Sucursales,
			SucursalesMotos: domain.SucursalesMotos,
			Meses:           domain.Meses,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.WithError(err).Error("Error al codificar los catálogos")
		}
	})
}
