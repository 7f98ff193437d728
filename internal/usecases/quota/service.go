package quota

import (
	"fmt"
	"time"

	"github.com/credivive/pipeline-manager-api/infrastructure/repository"
	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/credivive/pipeline-manager-api/pkg/log"
	"github.com/credivive/pipeline-manager-api/pkg/utils"
)

type Manager interface {
	ListByPeriod(mes, anio int) (*PeriodQuotas, error)
	UpdateQuota(req *domain.UpdateQuotaRequest) error
	CopyPreviousMonth(mes, anio int) (int, error)
	EnsureProvisioned(mes, anio int) (int, error)
	Avance(mes, anio int) (*AvanceTable, error)
}

// PeriodQuotas son las metas del periodo separadas por línea de negocio
type PeriodQuotas struct {
	Mes    int                   `json:"mes"`
	Anio   int                   `json:"anio"`
	Nomina []*domain.QuotaRecord `json:"nomina"`
	Motos  []*domain.QuotaRecord `json:"motos"`
}

// AvanceTable es la tabla de desempeño del periodo: una fila por meta
// activa con lo real vendido y la comparación contra la meta
type AvanceTable struct {
	Mes     int                        `json:"mes"`
	Anio    int                        `json:"anio"`
	Filas   []*domain.QuotaProgress    `json:"filas"`
	Totales domain.QuotaProgressTotals `json:"totales"`
}

type Service struct {
	quotaRepo  repository.QuotaRepository
	clientRepo repository.ClientRepository
	userRepo   repository.UserRepository
	now        func() time.Time
}

func NewService(
	quotaRepo repository.QuotaRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
) *Service {
	return &Service{
		quotaRepo:  quotaRepo,
		clientRepo: clientRepo,
		userRepo:   userRepo,
		now:        time.Now,
	}
}

// ListByPeriod devuelve las metas del periodo separadas por tipo. Antes de
// listar aprovisiona filas en cero para los ejecutivos activos que aún no
// tienen registro, así la pantalla de metas nunca muestra huecos.
func (s *Service) ListByPeriod(mes, anio int) (*PeriodQuotas, error) {
	if err := validatePeriod(mes, anio); err != nil {
		return nil, err
	}

	if _, err := s.EnsureProvisioned(mes, anio); err != nil {
		log.L.WithFields(log.Fields{"mes": mes, "anio": anio}).WithError(err).Warn("No fue posible aprovisionar metas del periodo")
	}

	quotas, err := s.quotaRepo.ListByPeriod(mes, anio)
	if err != nil {
		return nil, err
	}

	period := &PeriodQuotas{
		Mes:    mes,
		Anio:   anio,
		Nomina: make([]*domain.QuotaRecord, 0),
		Motos:  make([]*domain.QuotaRecord, 0),
	}

	for _, quota := range quotas {
		if quota.IsNomina() {
			period.Nomina = append(period.Nomina, quota)
		} else {
			period.Motos = append(period.Motos, quota)
		}
	}

	return period, nil
}

func (s *Service) UpdateQuota(req *domain.UpdateQuotaRequest) error {
	quota, err := s.quotaRepo.GetByID(req.ID)
	if err != nil {
		return err
	}
	if quota == nil {
		return ErrQuotaNotFound
	}

	if req.Meta != nil {
		if *req.Meta < 0 {
			return ErrNegativeQuota
		}
		quota.Meta = *req.Meta
	}

	if req.Tipo != nil {
		if *req.Tipo != domain.TipoMetaNomina && *req.Tipo != domain.TipoMetaMotos {
			return fmt.Errorf("%w: %s", ErrInvalidQuotaType, *req.Tipo)
		}
		quota.Tipo = *req.Tipo
	}

	if req.Activo != nil {
		quota.Activo = *req.Activo
	}

	return s.quotaRepo.UpdateQuota(quota)
}

// CopyPreviousMonth copia las metas del mes anterior al periodo indicado,
// conservando tipo y bandera de activo pero no los identificadores. Los
// nombres que ya tienen fila en el destino se saltan. Devuelve cuántas
// filas se crearon.
func (s *Service) CopyPreviousMonth(mes, anio int) (int, error) {
	if err := validatePeriod(mes, anio); err != nil {
		return 0, err
	}

	prevMes, prevAnio := mes-1, anio
	if prevMes == 0 {
		prevMes, prevAnio = 12, anio-1
	}

	source, err := s.quotaRepo.ListByPeriod(prevMes, prevAnio)
	if err != nil {
		return 0, err
	}
	if len(source) == 0 {
		return 0, ErrEmptyPreviousPeriod
	}

	existing, err := s.quotaRepo.ListByPeriod(mes, anio)
	if err != nil {
		return 0, err
	}

	taken := make(map[string]bool, len(existing))
	for _, quota := range existing {
		taken[quota.Nombre+"|"+quota.Tipo] = true
	}

	batch := make([]*domain.QuotaRecord, 0, len(source))
	for _, quota := range source {
		if taken[quota.Nombre+"|"+quota.Tipo] {
			continue
		}
		batch = append(batch, &domain.QuotaRecord{
			Nombre: quota.Nombre,
			Tipo:   quota.Tipo,
			Meta:   quota.Meta,
			Activo: quota.Activo,
			Mes:    mes,
			Anio:   anio,
		})
	}

	if len(batch) == 0 {
		return 0, nil
	}

	if err := s.quotaRepo.CreateBatch(batch); err != nil {
		return 0, err
	}

	return len(batch), nil
}

// EnsureProvisioned crea filas de meta en cero (tipo nómina) para los
// ejecutivos activos que no tienen registro en el periodo. Es la operación
// que comparten la pantalla de metas y el cron diario.
func (s *Service) EnsureProvisioned(mes, anio int) (int, error) {
	if err := validatePeriod(mes, anio); err != nil {
		return 0, err
	}

	names, err := s.userRepo.ListActiveExecutiveNames()
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, nil
	}

	existing, err := s.quotaRepo.ListByPeriod(mes, anio)
	if err != nil {
		return 0, err
	}

	taken := make(map[string]bool, len(existing))
	for _, quota := range existing {
		taken[quota.Nombre] = true
	}

	batch := make([]*domain.QuotaRecord, 0)
	for _, name := range names {
		if taken[name] {
			continue
		}
		batch = append(batch, &domain.QuotaRecord{
			Nombre: name,
			Tipo:   domain.TipoMetaNomina,
			Meta:   0,
			Activo: true,
			Mes:    mes,
			Anio:   anio,
		})
	}

	if len(batch) == 0 {
		return 0, nil
	}

	if err := s.quotaRepo.CreateBatch(batch); err != nil {
		return 0, err
	}

	return len(batch), nil
}

// Avance arma la tabla de desempeño del periodo: para cada meta activa
// calcula lo real vendido (pesos dispersados de nómina, unidades para
// motos), el porcentaje de avance, la proyección lineal al cierre y el
// faltante.
func (s *Service) Avance(mes, anio int) (*AvanceTable, error) {
	if err := validatePeriod(mes, anio); err != nil {
		return nil, err
	}

	quotas, err := s.quotaRepo.ListByPeriod(mes, anio)
	if err != nil {
		return nil, err
	}

	records, err := s.clientRepo.ListClients(&domain.ClientFilters{Mes: mes, Anio: anio})
	if err != nil {
		return nil, err
	}

	realNomina := make(map[string]float64)
	realMotos := make(map[string]float64)
	for _, record := range records {
		if record.Estatus != domain.EstatusDispersion {
			continue
		}
		if domain.IsMotoProduct(record.Producto) {
			realMotos[record.Ejecutivo]++
		} else {
			realNomina[record.Ejecutivo] += record.Monto
		}
	}

	elapsed, total := ElapsedDays(mes, anio, s.now())

	table := &AvanceTable{
		Mes:   mes,
		Anio:  anio,
		Filas: make([]*domain.QuotaProgress, 0, len(quotas)),
	}

	for _, quota := range quotas {
		if !quota.Activo {
			continue
		}

		var real float64
		if quota.IsNomina() {
			real = realNomina[quota.Nombre]
		} else {
			real = realMotos[quota.Nombre]
		}

		comparison := Compare(real, quota.Meta, elapsed, total)

		table.Filas = append(table.Filas, &domain.QuotaProgress{
			QuotaRecord: *quota,
			Real:        real,
			Avance:      comparison.Avance,
			Proyeccion:  comparison.Proyeccion,
			Falta:       comparison.Falta,
		})

		table.Totales.Meta += quota.Meta
		table.Totales.Real += real
	}

	totals := Compare(table.Totales.Real, table.Totales.Meta, elapsed, total)
	table.Totales.Avance = totals.Avance
	table.Totales.Proyeccion = totals.Proyeccion
	table.Totales.Falta = totals.Falta
	table.Totales.Real = utils.RoundWithTwoDecimalPlace(table.Totales.Real)

	return table, nil
}

func validatePeriod(mes, anio int) error {
	if mes < 1 || mes > 12 || anio < 2000 {
		return fmt.Errorf("%w: mes=%d anio=%d", ErrInvalidPeriod, mes, anio)
	}
	return nil
}
