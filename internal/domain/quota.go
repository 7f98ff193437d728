package domain

// Tipos de meta por línea de negocio. Las metas de nómina se denominan en
// pesos; las de motos en unidades vendidas.
const (
	TipoMetaNomina = "nómina"
	TipoMetaMotos  = "motos"
)

// QuotaRecord es la meta de venta de un ejecutivo para un (mes, año).
// Una fila inactiva se excluye de toda agregación pero se conserva como
// historia.
type QuotaRecord struct {
	ID     int64   `json:"id"`
	Nombre string  `json:"nombre"`
	Tipo   string  `json:"tipo"`
	Meta   float64 `json:"meta"`
	Activo bool    `json:"activo"`
	Mes    int     `json:"mes"`
	Anio   int     `json:"anio"`
}

// IsNomina tolera la variante sin acento que arrastran filas antiguas
func (q *QuotaRecord) IsNomina() bool {
	return q.Tipo == TipoMetaNomina || q.Tipo == "nomina"
}

// UpdateQuotaRequest es una edición parcial de una meta
type UpdateQuotaRequest struct {
	ID     int64    `json:"id"`
	Meta   *float64 `json:"meta"`
	Tipo   *string  `json:"tipo"`
	Activo *bool    `json:"activo"`
}

// QuotaProgress es el avance de un ejecutivo contra su meta del periodo:
// real vendido, porcentaje de avance, proyección lineal al cierre y faltante.
type QuotaProgress struct {
	QuotaRecord
	Real       float64 `json:"real"`
	Avance     float64 `json:"avance"`
	Proyeccion float64 `json:"proyeccion"`
	Falta      float64 `json:"falta"`
}

// QuotaProgressTotals acumula la tabla de avance completa
type QuotaProgressTotals struct {
	Meta       float64 `json:"meta"`
	Real       float64 `json:"real"`
	Avance     float64 `json:"avance"`
	Proyeccion float64 `json:"proyeccion"`
	Falta      float64 `json:"falta"`
}
