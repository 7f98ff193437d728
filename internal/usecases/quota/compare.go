package quota

import (
	"time"

	"github.com/credivive/pipeline-manager-api/pkg/utils"
)

// Comparison es el resultado de comparar lo real contra la meta del periodo
type Comparison struct {
	Avance     float64 `json:"avance"`
	Proyeccion float64 `json:"proyeccion"`
	Falta      float64 `json:"falta"`
}

// Compare combina lo real con la meta: porcentaje de avance, proyección
// lineal al cierre y faltante. Todas las ramas son funciones totales con
// guardas explícitas de cero; nunca divide entre cero.
func Compare(actual, meta float64, elapsed, total int) Comparison {
	var comparison Comparison

	if meta > 0 {
		comparison.Avance = utils.RoundWithTwoDecimalPlace(actual / meta * 100)
	}

	// La proyección asume un ritmo uniforme por día (o por mes en cortes
	// anuales); es una extrapolación lineal, no un pronóstico
	if elapsed > 0 {
		comparison.Proyeccion = utils.RoundWithTwoDecimalPlace(actual / float64(elapsed) * float64(total))
	}

	falta := meta - actual
	if falta < 0 {
		falta = 0
	}
	comparison.Falta = falta

	return comparison
}

// ElapsedDays devuelve los días transcurridos del mes para la proyección:
// un mes pasado cuenta completo, uno futuro cuenta cero y el mes corriente
// cuenta el día de hoy acotado al total de días del mes
func ElapsedDays(mes, anio int, now time.Time) (elapsed, total int) {
	total = utils.DaysInMonth(mes, anio)

	switch {
	case anio < now.Year() || (anio == now.Year() && mes < int(now.Month())):
		elapsed = total
	case anio > now.Year() || (anio == now.Year() && mes > int(now.Month())):
		elapsed = 0
	default:
		elapsed = now.Day()
		if elapsed > total {
			elapsed = total
		}
	}

	return elapsed, total
}

// ElapsedMonths es la variante anual: meses transcurridos sobre doce
func ElapsedMonths(anio int, now time.Time) (elapsed, total int) {
	total = 12

	switch {
	case anio < now.Year():
		elapsed = total
	case anio > now.Year():
		elapsed = 0
	default:
		elapsed = int(now.Month())
	}

	return elapsed, total
}
