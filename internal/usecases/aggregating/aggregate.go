package aggregating

import (
	"sort"
	"time"

	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/credivive/pipeline-manager-api/pkg/utils"
)

// Ventanas de agregación
const (
	WindowMonth = "month"
	WindowYear  = "year"
	WindowAll   = "all"
)

// Llaves de agrupación
const (
	GroupByEjecutivo = "ejecutivo"
	GroupByProducto  = "producto"
	GroupByMes       = "mes"
)

// EjecutivoSinAsignar agrupa los registros sin ejecutivo informado
const EjecutivoSinAsignar = "Sin asignar"

// Window acota la agregación a un periodo sobre la fecha de inicio del caso
type Window struct {
	Kind string
	Mes  int
	Anio int
}

// Contains indica si la fecha de inicio cae dentro de la ventana
func (w Window) Contains(fecha time.Time) bool {
	switch w.Kind {
	case WindowMonth:
		return int(fecha.Month()) == w.Mes && fecha.Year() == w.Anio
	case WindowYear:
		return fecha.Year() == w.Anio
	default:
		return true
	}
}

// ExecutiveBucket acumula la cartera de un ejecutivo en el periodo. Los
// montos suman toda la cartera; las unidades de moto y las dispersiones
// cuentan solo casos dispersados.
type ExecutiveBucket struct {
	Ejecutivo     string  `json:"ejecutivo"`
	TotalMonto    float64 `json:"total_monto"`
	MontoNomina   float64 `json:"monto_nomina"`
	UnidadesMotos int     `json:"unidades_motos"`
	Dispersiones  int     `json:"dispersiones"`
	Pipeline      int     `json:"pipeline"`
}

// ProductBucket acumula las ventas cerradas por producto. Para productos de
// moto el total es un conteo de unidades, nunca una suma de montos.
type ProductBucket struct {
	Producto     string  `json:"producto"`
	TotalMonto   float64 `json:"total_monto"`
	Dispersiones int     `json:"dispersiones"`
}

// MonthBucket es la serie mensual de ventas cerradas con la meta del mes
type MonthBucket struct {
	Mes           int     `json:"mes"`
	NombreMes     string  `json:"nombre_mes"`
	MontoNomina   float64 `json:"monto_nomina"`
	UnidadesMotos int     `json:"unidades_motos"`
	Dispersiones  int     `json:"dispersiones"`
	Pipeline      int     `json:"pipeline"`
	Meta          float64 `json:"meta"`
}

// SummaryStats son los totales de un periodo para los KPIs y la exportación
type SummaryStats struct {
	TotalClientes int     `json:"total_clientes"`
	Dispersiones  int     `json:"dispersiones"`
	Pipeline      int     `json:"pipeline"`
	MontoNomina   float64 `json:"monto_nomina"`
	UnidadesMotos int     `json:"unidades_motos"`
}

// AggregateByExecutive reduce los registros de la ventana a un bucket por
// ejecutivo, ordenado por monto total descendente. Es una función pura:
// mismo resultado con cualquier orden de entrada.
func AggregateByExecutive(records []*domain.Client, window Window) []*ExecutiveBucket {
	buckets := make(map[string]*ExecutiveBucket)

	for _, record := range records {
		if !window.Contains(record.FechaInicio) {
			continue
		}

		name := record.Ejecutivo
		if name == "" {
			name = EjecutivoSinAsignar
		}

		bucket, ok := buckets[name]
		if !ok {
			bucket = &ExecutiveBucket{Ejecutivo: name}
			buckets[name] = bucket
		}

		// Los montos de moto nunca se suman: una moto = una unidad.
		// El monto que carga el registro se ignora a propósito.
		if domain.IsMotoProduct(record.Producto) {
			if record.Estatus == domain.EstatusDispersion {
				bucket.UnidadesMotos++
			}
		} else {
			bucket.TotalMonto += record.Monto
			bucket.MontoNomina += record.Monto
		}

		if record.Estatus == domain.EstatusDispersion {
			bucket.Dispersiones++
		} else if record.InPipeline() {
			bucket.Pipeline++
		}
	}

	return sortExecutiveBuckets(buckets)
}

func sortExecutiveBuckets(buckets map[string]*ExecutiveBucket) []*ExecutiveBucket {
	result := make([]*ExecutiveBucket, 0, len(buckets))
	for _, bucket := range buckets {
		result = append(result, bucket)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalMonto != result[j].TotalMonto {
			return result[i].TotalMonto > result[j].TotalMonto
		}
		return result[i].Ejecutivo < result[j].Ejecutivo
	})

	return result
}

// AggregateByProduct reduce las ventas cerradas de la ventana a un bucket
// por producto, ordenado por total descendente
func AggregateByProduct(records []*domain.Client, window Window) []*ProductBucket {
	buckets := make(map[string]*ProductBucket)

	for _, record := range records {
		if !window.Contains(record.FechaInicio) {
			continue
		}
		if record.Estatus != domain.EstatusDispersion {
			continue
		}

		bucket, ok := buckets[record.Producto]
		if !ok {
			bucket = &ProductBucket{Producto: record.Producto}
			buckets[record.Producto] = bucket
		}

		if domain.IsMotoProduct(record.Producto) {
			bucket.TotalMonto++
		} else {
			bucket.TotalMonto += record.Monto
		}
		bucket.Dispersiones++
	}

	result := make([]*ProductBucket, 0, len(buckets))
	for _, bucket := range buckets {
		result = append(result, bucket)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalMonto != result[j].TotalMonto {
			return result[i].TotalMonto > result[j].TotalMonto
		}
		return result[i].Producto < result[j].Producto
	})

	return result
}

// AggregateByMonth construye la serie mensual del año en orden cronológico,
// con meses en cero explícitos: hasta el mes actual cuando el año incluye el
// presente, o los doce meses para cualquier otro año. metas trae la suma de
// metas activas de nómina por mes.
func AggregateByMonth(records []*domain.Client, anio int, metas map[int]float64, now time.Time) []*MonthBucket {
	lastMonth := 12
	if anio == now.Year() {
		lastMonth = int(now.Month())
	}

	buckets := make([]*MonthBucket, 0, lastMonth)
	byMonth := make(map[int]*MonthBucket, lastMonth)
	for mes := 1; mes <= lastMonth; mes++ {
		bucket := &MonthBucket{
			Mes:       mes,
			NombreMes: domain.NombreMes(mes),
			Meta:      metas[mes],
		}
		buckets = append(buckets, bucket)
		byMonth[mes] = bucket
	}

	for _, record := range records {
		if record.FechaInicio.Year() != anio {
			continue
		}

		bucket, ok := byMonth[int(record.FechaInicio.Month())]
		if !ok {
			continue
		}

		if record.Estatus == domain.EstatusDispersion {
			bucket.Dispersiones++
			if domain.IsMotoProduct(record.Producto) {
				bucket.UnidadesMotos++
			} else {
				bucket.MontoNomina += record.Monto
			}
		} else if record.InPipeline() {
			bucket.Pipeline++
		}
	}

	return buckets
}

// Summarize calcula los totales del conjunto filtrado por la ventana
func Summarize(records []*domain.Client, window Window) SummaryStats {
	var stats SummaryStats

	for _, record := range records {
		if !window.Contains(record.FechaInicio) {
			continue
		}

		stats.TotalClientes++

		if record.Estatus == domain.EstatusDispersion {
			stats.Dispersiones++
			if domain.IsMotoProduct(record.Producto) {
				stats.UnidadesMotos++
			} else {
				stats.MontoNomina += record.Monto
			}
		} else if record.InPipeline() {
			stats.Pipeline++
		}
	}

	stats.MontoNomina = utils.RoundWithTwoDecimalPlace(stats.MontoNomina)

	return stats
}
