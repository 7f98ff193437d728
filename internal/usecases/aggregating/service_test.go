package aggregating

import (
	"testing"
	"time"

	"github.com/credivive/pipeline-manager-api/infrastructure/repository/mocks"
	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/credivive/pipeline-manager-api/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	m.Run()
}

func TestService_Resumen(t *testing.T) {
	t.Run("ventana mensual con presupuesto y buckets por ejecutivo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		clientRepo := mocks.NewMockClientRepository(ctrl)
		quotaRepo := mocks.NewMockQuotaRepository(ctrl)
		service := NewService(clientRepo, quotaRepo)

		clientRepo.EXPECT().
			ListClients(&domain.ClientFilters{Mes: 6, Anio: 2025}).
			Return(carteraJunio(), nil)
		quotaRepo.EXPECT().SumActiveNominaByPeriod(6, 2025).Return(100000.0, nil)

		resumen, err := service.Resumen(Window{Kind: WindowMonth, Mes: 6, Anio: 2025}, GroupByEjecutivo, "")

		require.NoError(t, err)
		assert.Equal(t, 100000.0, resumen.Presupuesto)
		assert.Equal(t, 3, resumen.Stats.TotalClientes)
		require.Len(t, resumen.Ejecutivos, 1)
		assert.Equal(t, "Ana", resumen.Ejecutivos[0].Ejecutivo)
	})

	t.Run("rol ejecutivo solo ve su propia cartera en el resumen anual", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		clientRepo := mocks.NewMockClientRepository(ctrl)
		quotaRepo := mocks.NewMockQuotaRepository(ctrl)
		service := NewService(clientRepo, quotaRepo)
		service.now = func() time.Time { return fecha(2025, 6, 15) }

		records := append(carteraJunio(), &domain.Client{
			Ejecutivo:   "Luis",
			Producto:    domain.ProductoNomina,
			Monto:       70000,
			Estatus:     domain.EstatusDispersion,
			FechaInicio: fecha(2025, 4, 1),
		})
		clientRepo.EXPECT().ListClientsByYear(2025).Return(records, nil)
		quotaRepo.EXPECT().SumActiveNominaByPeriod(gomock.Any(), 2025).Return(0.0, nil).Times(12)

		resumen, err := service.Resumen(Window{Kind: WindowYear, Anio: 2025}, GroupByMes, "Ana")

		require.NoError(t, err)
		assert.Equal(t, 3, resumen.Stats.TotalClientes)
		require.Len(t, resumen.Meses, 6)
		assert.Equal(t, 0.0, resumen.Meses[3].MontoNomina) // abril es de Luis
		assert.Equal(t, 50000.0, resumen.Meses[5].MontoNomina)
	})

	t.Run("resumen anual proyecta la nómina dispersada contra el presupuesto del año", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		clientRepo := mocks.NewMockClientRepository(ctrl)
		quotaRepo := mocks.NewMockQuotaRepository(ctrl)
		service := NewService(clientRepo, quotaRepo)
		service.now = func() time.Time { return fecha(2025, 6, 15) }

		clientRepo.EXPECT().ListClientsByYear(2025).Return(carteraJunio(), nil)
		quotaRepo.EXPECT().SumActiveNominaByPeriod(gomock.Any(), 2025).Return(100000.0, nil).Times(12)

		resumen, err := service.Resumen(Window{Kind: WindowYear, Anio: 2025}, GroupByEjecutivo, "")

		require.NoError(t, err)
		assert.Equal(t, 1200000.0, resumen.Presupuesto)
		require.NotNil(t, resumen.ProyeccionAnual)
		// 50000 dispersados en seis meses transcurridos proyectan 100000 al cierre
		assert.Equal(t, 100000.0, resumen.ProyeccionAnual.Proyeccion)
		assert.Equal(t, 4.17, resumen.ProyeccionAnual.Avance)
		assert.Equal(t, 1150000.0, resumen.ProyeccionAnual.Falta)
	})
}
