package pipeline

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/credivive/pipeline-manager-api/infrastructure/repository"
	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/credivive/pipeline-manager-api/internal/events"
	"github.com/credivive/pipeline-manager-api/pkg/log"
	"github.com/credivive/pipeline-manager-api/pkg/utils"
)

type Manager interface {
	CreateClient(client *domain.Client) (*domain.Client, error)
	GetClient(clientID int64) (*domain.Client, error)
	ListClients(filters *domain.ClientFilters) ([]*domain.Client, error)
	ListClientsByYear(anio int) ([]*domain.Client, error)
	UpdateClient(req *domain.UpdateClientRequest) error
	DeleteClient(clientID int64) error
	Transition(clientID int64, newStatus, note, actingUser string) (*domain.Client, error)
	ListHistory(clientID int64) ([]*domain.StatusHistoryEntry, error)
}

type Service struct {
	clientRepo  repository.ClientRepository
	historyRepo repository.StatusHistoryRepository
	bus         *events.Bus
	now         func() time.Time
}

func NewService(
	clientRepo repository.ClientRepository,
	historyRepo repository.StatusHistoryRepository,
	bus *events.Bus,
) *Service {
	return &Service{
		clientRepo:  clientRepo,
		historyRepo: historyRepo,
		bus:         bus,
		now:         time.Now,
	}
}

// CreateClient registra un caso nuevo en el pipeline. El folio público se
// genera aquí y el periodo de registro se desnormaliza de la fecha de inicio.
func (s *Service) CreateClient(client *domain.Client) (*domain.Client, error) {
	if client.NombreCliente == "" || client.Ejecutivo == "" || client.Producto == "" {
		return nil, ErrMissingRequiredData
	}

	if client.Monto < 0 {
		return nil, ErrInvalidAmount
	}

	if client.Estatus == "" {
		client.Estatus = domain.EstatusProspecto
	}

	if !domain.IsValidStatus(client.Estatus) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, client.Estatus)
	}

	if client.FechaInicio.IsZero() {
		client.FechaInicio = s.now()
	}

	client.MesRegistro = int(client.FechaInicio.Month())
	client.AnioRegistro = client.FechaInicio.Year()

	folio, err := utils.GenerateFolio()
	if err != nil {
		return nil, fmt.Errorf("error al generar el folio: %w", err)
	}
	client.Folio = folio

	client, err = s.clientRepo.CreateClient(client)
	if err != nil {
		return nil, err
	}

	s.publish(events.TipoInsert, client)

	return client, nil
}

func (s *Service) GetClient(clientID int64) (*domain.Client, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	return client, nil
}

func (s *Service) ListClients(filters *domain.ClientFilters) ([]*domain.Client, error) {
	return s.clientRepo.ListClients(filters)
}

func (s *Service) ListClientsByYear(anio int) ([]*domain.Client, error) {
	return s.clientRepo.ListClientsByYear(anio)
}

// UpdateClient aplica una edición parcial de campos directos. El estatus no
// se edita por aquí: toda mudanza de etapa pasa por Transition para que la
// auditoría y la fecha final queden consistentes.
func (s *Service) UpdateClient(req *domain.UpdateClientRequest) error {
	if req.ID == 0 {
		return ErrMissingRequiredData
	}

	fields := make(map[string]interface{})

	if req.Ejecutivo != nil {
		fields["ejecutivo"] = *req.Ejecutivo
	}
	if req.NombreCliente != nil {
		fields["nombre_cliente"] = *req.NombreCliente
	}
	if req.Producto != nil {
		fields["producto"] = *req.Producto
	}
	if req.Monto != nil {
		if *req.Monto < 0 {
			return ErrInvalidAmount
		}
		fields["monto"] = *req.Monto
	}
	if req.Sucursal != nil {
		fields["sucursal"] = *req.Sucursal
	}
	if req.Convenio != nil {
		fields["convenio"] = req.Convenio
	}
	if req.Actualizacion != nil {
		fields["actualizacion"] = *req.Actualizacion
	}

	if len(fields) == 0 {
		return nil
	}

	err := s.clientRepo.UpdateClientFields(req.ID, fields)
	if err != nil {
		if isNoRows(err) {
			return ErrClientNotFound
		}
		return err
	}

	client, err := s.clientRepo.GetClientByID(req.ID)
	if err == nil && client != nil {
		s.publish(events.TipoUpdate, client)
	}

	return nil
}

// DeleteClient borra el caso de forma definitiva e irreversible
func (s *Service) DeleteClient(clientID int64) error {
	err := s.clientRepo.DeleteClient(clientID)
	if err != nil {
		if isNoRows(err) {
			return ErrClientNotFound
		}
		return err
	}

	s.bus.Publish(events.ChangeEvent{
		Tipo:      events.TipoDelete,
		ClienteID: clientID,
	})

	return nil
}

// Transition mueve el caso a otra etapa del registro. No hay validación de
// avance: retroceder de etapa está permitido, solo se exige que el destino
// exista en el registro. Rechazar exige una nota con el motivo.
//
// La fecha final se estampa al entrar a Dispersión o Rechazado y nunca se
// limpia: si el caso se reabre, la fecha de su primer cierre se conserva.
func (s *Service) Transition(clientID int64, newStatus, note, actingUser string) (*domain.Client, error) {
	if !domain.IsValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, newStatus)
	}

	if newStatus == domain.EstatusRechazado && note == "" {
		return nil, ErrMissingNote
	}

	if actingUser == "" {
		actingUser = domain.UsuarioSistema
	}

	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	previousStatus := client.Estatus
	now := s.now()

	client.Estatus = newStatus
	client.Actualizacion = note
	client.EstatusUpdatedAt = &now

	if domain.IsTerminal(newStatus) {
		final := now
		client.FechaFinal = &final
	}

	err = s.clientRepo.UpdateClientStatus(client)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// La auditoría es de mejor esfuerzo: si falla se registra en el log
	// pero la transición ya quedó persistida y no se revierte
	entry := &domain.StatusHistoryEntry{
		ClientID:        client.ID,
		EstatusAnterior: &previousStatus,
		EstatusNuevo:    newStatus,
		Nota:            note,
		Usuario:         actingUser,
		FechaCambio:     now,
	}
	if err := s.historyRepo.InsertEntry(entry); err != nil {
		log.L.WithFields(log.Fields{
			"cliente_id":    client.ID,
			"estatus_nuevo": newStatus,
			"usuario":       actingUser,
		}).WithError(err).Warn("No fue posible registrar la transición en el historial")
	}

	s.publish(events.TipoUpdate, client)

	return client, nil
}

// ListHistory devuelve el historial de transiciones del caso, del cambio
// más reciente al más antiguo
func (s *Service) ListHistory(clientID int64) ([]*domain.StatusHistoryEntry, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	return s.historyRepo.ListByClient(clientID)
}

func (s *Service) publish(tipo string, client *domain.Client) {
	if s.bus == nil {
		return
	}

	s.bus.Publish(events.ChangeEvent{
		Tipo:      tipo,
		ClienteID: client.ID,
		Cliente:   client,
	})
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
