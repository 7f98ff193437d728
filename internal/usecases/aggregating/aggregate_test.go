package aggregating

import (
	"math/rand"
	"testing"
	"time"

	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fecha(anio, mes, dia int) time.Time {
	return time.Date(anio, time.Month(mes), dia, 0, 0, 0, 0, time.UTC)
}

func carteraJunio() []*domain.Client {
	return []*domain.Client{
		{
			Ejecutivo:   "Ana",
			Producto:    domain.ProductoNomina,
			Monto:       50000,
			Estatus:     domain.EstatusDispersion,
			FechaInicio: fecha(2025, 6, 3),
		},
		{
			Ejecutivo:   "Ana",
			Producto:    domain.ProductoArrendamientoMoto,
			Monto:       0,
			Estatus:     domain.EstatusDispersion,
			FechaInicio: fecha(2025, 6, 10),
		},
		{
			Ejecutivo:   "Ana",
			Producto:    domain.ProductoNomina,
			Monto:       30000,
			Estatus:     domain.EstatusProspecto,
			FechaInicio: fecha(2025, 6, 20),
		},
	}
}

func TestAggregateByExecutive(t *testing.T) {
	t.Run("cartera de junio agrupa en un solo bucket", func(t *testing.T) {
		window := Window{Kind: WindowMonth, Mes: 6, Anio: 2025}

		buckets := AggregateByExecutive(carteraJunio(), window)

		require.Len(t, buckets, 1)
		ana := buckets[0]
		assert.Equal(t, "Ana", ana.Ejecutivo)
		assert.Equal(t, 80000.0, ana.TotalMonto)
		assert.Equal(t, 80000.0, ana.MontoNomina)
		assert.Equal(t, 1, ana.UnidadesMotos)
		assert.Equal(t, 2, ana.Dispersiones)
		assert.Equal(t, 1, ana.Pipeline)
	})

	t.Run("es independiente del orden de entrada", func(t *testing.T) {
		window := Window{Kind: WindowMonth, Mes: 6, Anio: 2025}
		records := carteraJunio()
		expected := AggregateByExecutive(records, window)

		rnd := rand.New(rand.NewSource(7))
		for i := 0; i < 10; i++ {
			shuffled := make([]*domain.Client, len(records))
			copy(shuffled, records)
			rnd.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})

			assert.Equal(t, expected, AggregateByExecutive(shuffled, window))
		}
	})

	t.Run("el monto de una moto nunca se suma", func(t *testing.T) {
		window := Window{Kind: WindowMonth, Mes: 6, Anio: 2025}

		// Una moto dispersada con monto alto solo aporta una unidad
		buckets := AggregateByExecutive([]*domain.Client{
			{
				Ejecutivo:   "Luis",
				Producto:    domain.ProductoCreditoMoto,
				Monto:       45000,
				Estatus:     domain.EstatusDispersion,
				FechaInicio: fecha(2025, 6, 1),
			},
		}, window)

		require.Len(t, buckets, 1)
		assert.Equal(t, 0.0, buckets[0].TotalMonto)
		assert.Equal(t, 1, buckets[0].UnidadesMotos)
	})

	t.Run("registros fuera de la ventana se descartan", func(t *testing.T) {
		window := Window{Kind: WindowMonth, Mes: 6, Anio: 2025}
		records := append(carteraJunio(), &domain.Client{
			Ejecutivo:   "Ana",
			Producto:    domain.ProductoNomina,
			Monto:       99999,
			Estatus:     domain.EstatusDispersion,
			FechaInicio: fecha(2025, 5, 31),
		})

		buckets := AggregateByExecutive(records, window)

		require.Len(t, buckets, 1)
		assert.Equal(t, 80000.0, buckets[0].TotalMonto)
	})

	t.Run("ejecutivo vacío se agrupa como sin asignar", func(t *testing.T) {
		window := Window{Kind: WindowAll}

		buckets := AggregateByExecutive([]*domain.Client{
			{Producto: domain.ProductoNomina, Monto: 1000, Estatus: domain.EstatusProspecto, FechaInicio: fecha(2025, 6, 1)},
		}, window)

		require.Len(t, buckets, 1)
		assert.Equal(t, EjecutivoSinAsignar, buckets[0].Ejecutivo)
	})

	t.Run("ordena por monto total descendente", func(t *testing.T) {
		window := Window{Kind: WindowYear, Anio: 2025}

		buckets := AggregateByExecutive([]*domain.Client{
			{Ejecutivo: "Luis", Producto: domain.ProductoNomina, Monto: 10000, Estatus: domain.EstatusDispersion, FechaInicio: fecha(2025, 2, 1)},
			{Ejecutivo: "Karla", Producto: domain.ProductoNomina, Monto: 90000, Estatus: domain.EstatusDispersion, FechaInicio: fecha(2025, 3, 1)},
			{Ejecutivo: "Ana", Producto: domain.ProductoNomina, Monto: 40000, Estatus: domain.EstatusDispersion, FechaInicio: fecha(2025, 4, 1)},
		}, window)

		require.Len(t, buckets, 3)
		assert.Equal(t, "Karla", buckets[0].Ejecutivo)
		assert.Equal(t, "Ana", buckets[1].Ejecutivo)
		assert.Equal(t, "Luis", buckets[2].Ejecutivo)
	})
}

func TestAggregateByProduct(t *testing.T) {
	window := Window{Kind: WindowMonth, Mes: 6, Anio: 2025}

	t.Run("solo cuenta ventas cerradas", func(t *testing.T) {
		buckets := AggregateByProduct(carteraJunio(), window)

		require.Len(t, buckets, 2)
		assert.Equal(t, domain.ProductoNomina, buckets[0].Producto)
		assert.Equal(t, 50000.0, buckets[0].TotalMonto)
		assert.Equal(t, 1, buckets[0].Dispersiones)

		assert.Equal(t, domain.ProductoArrendamientoMoto, buckets[1].Producto)
		assert.Equal(t, 1.0, buckets[1].TotalMonto) // unidades, no pesos
		assert.Equal(t, 1, buckets[1].Dispersiones)
	})

	t.Run("las motos se cuentan aunque carguen monto", func(t *testing.T) {
		buckets := AggregateByProduct([]*domain.Client{
			{Producto: domain.ProductoCreditoMoto, Monto: 48000, Estatus: domain.EstatusDispersion, FechaInicio: fecha(2025, 6, 1)},
			{Producto: domain.ProductoCreditoMoto, Monto: 52000, Estatus: domain.EstatusDispersion, FechaInicio: fecha(2025, 6, 2)},
		}, window)

		require.Len(t, buckets, 1)
		assert.Equal(t, 2.0, buckets[0].TotalMonto)
	})
}

func TestAggregateByMonth(t *testing.T) {
	now := fecha(2025, 6, 15)

	t.Run("serie del año corriente llega hasta el mes actual en cero", func(t *testing.T) {
		metas := map[int]float64{6: 100000}

		buckets := AggregateByMonth(carteraJunio(), 2025, metas, now)

		require.Len(t, buckets, 6)
		for i, bucket := range buckets[:5] {
			assert.Equal(t, i+1, bucket.Mes)
			assert.Equal(t, 0.0, bucket.MontoNomina)
		}

		junio := buckets[5]
		assert.Equal(t, "Junio", junio.NombreMes)
		assert.Equal(t, 50000.0, junio.MontoNomina)
		assert.Equal(t, 1, junio.UnidadesMotos)
		assert.Equal(t, 2, junio.Dispersiones)
		assert.Equal(t, 1, junio.Pipeline)
		assert.Equal(t, 100000.0, junio.Meta)
	})

	t.Run("un año pasado trae los doce meses", func(t *testing.T) {
		buckets := AggregateByMonth(nil, 2024, nil, now)
		assert.Len(t, buckets, 12)
	})

	t.Run("un año futuro trae los doce meses en cero", func(t *testing.T) {
		buckets := AggregateByMonth(nil, 2026, nil, now)

		require.Len(t, buckets, 12)
		for i, bucket := range buckets {
			assert.Equal(t, i+1, bucket.Mes)
			assert.Equal(t, 0.0, bucket.MontoNomina)
			assert.Equal(t, 0, bucket.UnidadesMotos)
			assert.Equal(t, 0, bucket.Dispersiones)
			assert.Equal(t, 0, bucket.Pipeline)
		}
	})
}

func TestSummarize(t *testing.T) {
	window := Window{Kind: WindowMonth, Mes: 6, Anio: 2025}

	stats := Summarize(carteraJunio(), window)

	assert.Equal(t, 3, stats.TotalClientes)
	assert.Equal(t, 2, stats.Dispersiones)
	assert.Equal(t, 1, stats.Pipeline)
	assert.Equal(t, 50000.0, stats.MontoNomina)
	assert.Equal(t, 1, stats.UnidadesMotos)
}

func TestSummarize_RechazadoNoCuentaEnPipeline(t *testing.T) {
	window := Window{Kind: WindowMonth, Mes: 6, Anio: 2025}

	stats := Summarize([]*domain.Client{
		{Producto: domain.ProductoNomina, Monto: 10000, Estatus: domain.EstatusRechazado, FechaInicio: fecha(2025, 6, 1)},
	}, window)

	assert.Equal(t, 1, stats.TotalClientes)
	assert.Equal(t, 0, stats.Dispersiones)
	assert.Equal(t, 0, stats.Pipeline)
	assert.Equal(t, 0.0, stats.MontoNomina)
}
