package aggregating

import (
	"time"

	"github.com/credivive/pipeline-manager-api/infrastructure/repository"
	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/credivive/pipeline-manager-api/internal/usecases/quota"
	"github.com/credivive/pipeline-manager-api/pkg/log"
)

type Insighter interface {
	Resumen(window Window, groupBy, ejecutivo string) (*Resumen, error)
}

// Resumen es la respuesta del tablero: totales del periodo más la
// agrupación solicitada. En cortes anuales incluye la proyección lineal
// de nómina dispersada contra el presupuesto del año.
type Resumen struct {
	Window          Window             `json:"-"`
	Mes             int                `json:"mes,omitempty"`
	Anio            int                `json:"anio,omitempty"`
	Stats           SummaryStats       `json:"stats"`
	Presupuesto     float64            `json:"presupuesto"`
	ProyeccionAnual *quota.Comparison  `json:"proyeccion_anual,omitempty"`
	Ejecutivos      []*ExecutiveBucket `json:"ejecutivos,omitempty"`
	Productos       []*ProductBucket   `json:"productos,omitempty"`
	Meses           []*MonthBucket     `json:"meses,omitempty"`
}

type Service struct {
	clientRepo repository.ClientRepository
	quotaRepo  repository.QuotaRepository
	now        func() time.Time
}

func NewService(clientRepo repository.ClientRepository, quotaRepo repository.QuotaRepository) *Service {
	return &Service{
		clientRepo: clientRepo,
		quotaRepo:  quotaRepo,
		now:        time.Now,
	}
}

// Resumen arma el tablero del periodo: trae los registros de la ventana,
// los reduce con la agrupación pedida y anexa el presupuesto (suma de
// metas activas de nómina). ejecutivo acota a los casos propios cuando la
// sesión es de rol ejecutivo.
func (s *Service) Resumen(window Window, groupBy, ejecutivo string) (*Resumen, error) {
	records, err := s.fetchRecords(window, ejecutivo)
	if err != nil {
		return nil, err
	}

	resumen := &Resumen{
		Window: window,
		Mes:    window.Mes,
		Anio:   window.Anio,
		Stats:  Summarize(records, window),
	}

	var metasAnio map[int]float64

	switch window.Kind {
	case WindowMonth:
		presupuesto, err := s.quotaRepo.SumActiveNominaByPeriod(window.Mes, window.Anio)
		if err != nil {
			log.L.WithError(err).Warn("No fue posible obtener el presupuesto del periodo")
		} else {
			resumen.Presupuesto = presupuesto
		}
	case WindowYear:
		metasAnio = s.metasPorMes(window.Anio)
		for _, meta := range metasAnio {
			resumen.Presupuesto += meta
		}

		elapsed, total := quota.ElapsedMonths(window.Anio, s.now())
		comparison := quota.Compare(resumen.Stats.MontoNomina, resumen.Presupuesto, elapsed, total)
		resumen.ProyeccionAnual = &comparison
	}

	switch groupBy {
	case GroupByProducto:
		resumen.Productos = AggregateByProduct(records, window)
	case GroupByMes:
		if metasAnio == nil {
			metasAnio = s.metasPorMes(window.Anio)
		}
		resumen.Meses = AggregateByMonth(records, window.Anio, metasAnio, s.now())
	default:
		resumen.Ejecutivos = AggregateByExecutive(records, window)
	}

	return resumen, nil
}

func (s *Service) fetchRecords(window Window, ejecutivo string) ([]*domain.Client, error) {
	switch window.Kind {
	case WindowMonth:
		return s.clientRepo.ListClients(&domain.ClientFilters{
			Mes:       window.Mes,
			Anio:      window.Anio,
			Ejecutivo: ejecutivo,
		})
	case WindowYear:
		records, err := s.clientRepo.ListClientsByYear(window.Anio)
		if err != nil {
			return nil, err
		}
		return filterByEjecutivo(records, ejecutivo), nil
	default:
		return s.clientRepo.ListClients(&domain.ClientFilters{Ejecutivo: ejecutivo})
	}
}

func filterByEjecutivo(records []*domain.Client, ejecutivo string) []*domain.Client {
	if ejecutivo == "" {
		return records
	}

	filtered := make([]*domain.Client, 0, len(records))
	for _, record := range records {
		if record.Ejecutivo == ejecutivo {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// metasPorMes construye el presupuesto mensual del año; los meses que
// fallan quedan en cero y se registran en el log
func (s *Service) metasPorMes(anio int) map[int]float64 {
	metas := make(map[int]float64, 12)
	for mes := 1; mes <= 12; mes++ {
		total, err := s.quotaRepo.SumActiveNominaByPeriod(mes, anio)
		if err != nil {
			log.L.WithFields(log.Fields{"mes": mes, "anio": anio}).WithError(err).Warn("No fue posible obtener las metas del mes")
			continue
		}
		metas[mes] = total
	}
	return metas
}
