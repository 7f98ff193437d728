package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/credivive/pipeline-manager-api/infrastructure/repository/mocks"
	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/credivive/pipeline-manager-api/internal/events"
	"github.com/credivive/pipeline-manager-api/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	m.Run()
}

func newTestService(t *testing.T) (*Service, *mocks.MockClientRepository, *mocks.MockStatusHistoryRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	historyRepo := mocks.NewMockStatusHistoryRepository(ctrl)

	service := NewService(clientRepo, historyRepo, events.NewBus())
	service.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}

	return service, clientRepo, historyRepo
}

func TestService_Transition(t *testing.T) {
	t.Run("rechazar desde análisis estampa la fecha final", func(t *testing.T) {
		service, clientRepo, historyRepo := newTestService(t)

		clientRepo.EXPECT().GetClientByID(int64(1)).Return(&domain.Client{
			ID:      1,
			Estatus: domain.EstatusAnalisis,
		}, nil)
		clientRepo.EXPECT().
			UpdateClientStatus(gomock.Any()).
			DoAndReturn(func(client *domain.Client) error {
				assert.Equal(t, domain.EstatusRechazado, client.Estatus)
				require.NotNil(t, client.FechaFinal)
				assert.Equal(t, "2025-06-15", client.FechaFinal.Format(time.DateOnly))
				require.NotNil(t, client.EstatusUpdatedAt)
				return nil
			})
		historyRepo.EXPECT().
			InsertEntry(gomock.Any()).
			DoAndReturn(func(entry *domain.StatusHistoryEntry) error {
				require.NotNil(t, entry.EstatusAnterior)
				assert.Equal(t, domain.EstatusAnalisis, *entry.EstatusAnterior)
				assert.Equal(t, domain.EstatusRechazado, entry.EstatusNuevo)
				assert.Equal(t, "documentación incompleta", entry.Nota)
				assert.Equal(t, "karla", entry.Usuario)
				return nil
			})

		client, err := service.Transition(1, domain.EstatusRechazado, "documentación incompleta", "karla")
		require.NoError(t, err)
		assert.Equal(t, domain.EstatusRechazado, client.Estatus)
	})

	t.Run("dispersión estampa la fecha final", func(t *testing.T) {
		service, clientRepo, historyRepo := newTestService(t)

		clientRepo.EXPECT().GetClientByID(int64(2)).Return(&domain.Client{
			ID:      2,
			Estatus: domain.EstatusAprobacion,
		}, nil)
		clientRepo.EXPECT().
			UpdateClientStatus(gomock.Any()).
			DoAndReturn(func(client *domain.Client) error {
				require.NotNil(t, client.FechaFinal)
				return nil
			})
		historyRepo.EXPECT().InsertEntry(gomock.Any()).Return(nil)

		_, err := service.Transition(2, domain.EstatusDispersion, "", "karla")
		assert.NoError(t, err)
	})

	t.Run("avanzar a etapa intermedia no estampa fecha final", func(t *testing.T) {
		service, clientRepo, historyRepo := newTestService(t)

		clientRepo.EXPECT().GetClientByID(int64(3)).Return(&domain.Client{
			ID:      3,
			Estatus: domain.EstatusProspecto,
		}, nil)
		clientRepo.EXPECT().
			UpdateClientStatus(gomock.Any()).
			DoAndReturn(func(client *domain.Client) error {
				assert.Nil(t, client.FechaFinal)
				return nil
			})
		historyRepo.EXPECT().InsertEntry(gomock.Any()).Return(nil)

		_, err := service.Transition(3, domain.EstatusAnalisis, "", "karla")
		assert.NoError(t, err)
	})

	t.Run("retroceder de etapa está permitido y no limpia la fecha final", func(t *testing.T) {
		service, clientRepo, historyRepo := newTestService(t)

		final := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		clientRepo.EXPECT().GetClientByID(int64(4)).Return(&domain.Client{
			ID:         4,
			Estatus:    domain.EstatusDispersion,
			FechaFinal: &final,
		}, nil)
		clientRepo.EXPECT().
			UpdateClientStatus(gomock.Any()).
			DoAndReturn(func(client *domain.Client) error {
				assert.Equal(t, domain.EstatusAnalisis, client.Estatus)
				require.NotNil(t, client.FechaFinal)
				assert.Equal(t, final, *client.FechaFinal)
				return nil
			})
		historyRepo.EXPECT().InsertEntry(gomock.Any()).Return(nil)

		_, err := service.Transition(4, domain.EstatusAnalisis, "reapertura", "karla")
		assert.NoError(t, err)
	})

	t.Run("rechazar sin nota es inválido", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.Transition(1, domain.EstatusRechazado, "", "karla")
		assert.ErrorIs(t, err, ErrMissingNote)
	})

	t.Run("estatus fuera del registro es inválido", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.Transition(1, "En revisión", "", "karla")
		assert.ErrorIs(t, err, ErrUnknownStatus)
	})

	t.Run("cliente inexistente", func(t *testing.T) {
		service, clientRepo, _ := newTestService(t)

		clientRepo.EXPECT().GetClientByID(int64(99)).Return(nil, nil)

		_, err := service.Transition(99, domain.EstatusAnalisis, "", "karla")
		assert.ErrorIs(t, err, ErrClientNotFound)
	})

	t.Run("sin usuario la transición se atribuye a sistema", func(t *testing.T) {
		service, clientRepo, historyRepo := newTestService(t)

		clientRepo.EXPECT().GetClientByID(int64(5)).Return(&domain.Client{
			ID:      5,
			Estatus: domain.EstatusProspecto,
		}, nil)
		clientRepo.EXPECT().UpdateClientStatus(gomock.Any()).Return(nil)
		historyRepo.EXPECT().
			InsertEntry(gomock.Any()).
			DoAndReturn(func(entry *domain.StatusHistoryEntry) error {
				assert.Equal(t, domain.UsuarioSistema, entry.Usuario)
				return nil
			})

		_, err := service.Transition(5, domain.EstatusEntregaDocs, "", "")
		assert.NoError(t, err)
	})

	t.Run("falla del historial no revierte la transición", func(t *testing.T) {
		service, clientRepo, historyRepo := newTestService(t)

		clientRepo.EXPECT().GetClientByID(int64(6)).Return(&domain.Client{
			ID:      6,
			Estatus: domain.EstatusProspecto,
		}, nil)
		clientRepo.EXPECT().UpdateClientStatus(gomock.Any()).Return(nil)
		historyRepo.EXPECT().InsertEntry(gomock.Any()).Return(errors.New("tabla llena"))

		client, err := service.Transition(6, domain.EstatusAnalisis, "", "karla")
		require.NoError(t, err)
		assert.Equal(t, domain.EstatusAnalisis, client.Estatus)
	})

	t.Run("publica un evento de cambio tras la transición", func(t *testing.T) {
		service, clientRepo, historyRepo := newTestService(t)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sub := service.bus.Subscribe(ctx)

		clientRepo.EXPECT().GetClientByID(int64(7)).Return(&domain.Client{
			ID:      7,
			Estatus: domain.EstatusProspecto,
		}, nil)
		clientRepo.EXPECT().UpdateClientStatus(gomock.Any()).Return(nil)
		historyRepo.EXPECT().InsertEntry(gomock.Any()).Return(nil)

		_, err := service.Transition(7, domain.EstatusAnalisis, "", "karla")
		require.NoError(t, err)

		select {
		case evt := <-sub:
			assert.Equal(t, events.TipoUpdate, evt.Tipo)
			assert.Equal(t, int64(7), evt.ClienteID)
		case <-time.After(time.Second):
			t.Fatal("no se publicó el evento de cambio")
		}
	})
}

func TestService_CreateClient(t *testing.T) {
	t.Run("desnormaliza el periodo de registro y genera folio", func(t *testing.T) {
		service, clientRepo, _ := newTestService(t)

		clientRepo.EXPECT().
			CreateClient(gomock.Any()).
			DoAndReturn(func(client *domain.Client) (*domain.Client, error) {
				assert.Equal(t, 3, client.MesRegistro)
				assert.Equal(t, 2025, client.AnioRegistro)
				assert.Len(t, client.Folio, 8)
				assert.Equal(t, domain.EstatusProspecto, client.Estatus)
				client.ID = 1
				return client, nil
			})

		client, err := service.CreateClient(&domain.Client{
			NombreCliente: "Juan Pérez",
			Ejecutivo:     "Ana",
			Producto:      domain.ProductoNomina,
			Monto:         50000,
			FechaInicio:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), client.ID)
	})

	t.Run("sin fecha de inicio usa la fecha actual", func(t *testing.T) {
		service, clientRepo, _ := newTestService(t)

		clientRepo.EXPECT().
			CreateClient(gomock.Any()).
			DoAndReturn(func(client *domain.Client) (*domain.Client, error) {
				assert.Equal(t, 6, client.MesRegistro)
				assert.Equal(t, 2025, client.AnioRegistro)
				return client, nil
			})

		_, err := service.CreateClient(&domain.Client{
			NombreCliente: "Juan Pérez",
			Ejecutivo:     "Ana",
			Producto:      domain.ProductoCreditoMoto,
		})

		assert.NoError(t, err)
	})

	t.Run("datos obligatorios ausentes", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.CreateClient(&domain.Client{NombreCliente: "Juan"})
		assert.ErrorIs(t, err, ErrMissingRequiredData)
	})

	t.Run("monto negativo", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.CreateClient(&domain.Client{
			NombreCliente: "Juan",
			Ejecutivo:     "Ana",
			Producto:      domain.ProductoNomina,
			Monto:         -1,
		})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestService_UpdateClient(t *testing.T) {
	t.Run("solo los campos informados llegan al repositorio", func(t *testing.T) {
		service, clientRepo, _ := newTestService(t)

		monto := 75000.0
		nombre := "Juan Pérez García"

		clientRepo.EXPECT().
			UpdateClientFields(int64(1), gomock.Any()).
			DoAndReturn(func(_ int64, fields map[string]interface{}) error {
				assert.Len(t, fields, 2)
				assert.Equal(t, monto, fields["monto"])
				assert.Equal(t, nombre, fields["nombre_cliente"])
				return nil
			})
		clientRepo.EXPECT().GetClientByID(int64(1)).Return(&domain.Client{ID: 1}, nil)

		err := service.UpdateClient(&domain.UpdateClientRequest{
			ID:            1,
			Monto:         &monto,
			NombreCliente: &nombre,
		})
		assert.NoError(t, err)
	})

	t.Run("sin campos no toca el repositorio", func(t *testing.T) {
		service, _, _ := newTestService(t)

		err := service.UpdateClient(&domain.UpdateClientRequest{ID: 1})
		assert.NoError(t, err)
	})

	t.Run("cliente inexistente", func(t *testing.T) {
		service, clientRepo, _ := newTestService(t)

		nombre := "Nadie"
		clientRepo.EXPECT().UpdateClientFields(int64(99), gomock.Any()).Return(sql.ErrNoRows)

		err := service.UpdateClient(&domain.UpdateClientRequest{ID: 99, NombreCliente: &nombre})
		assert.ErrorIs(t, err, ErrClientNotFound)
	})
}

func TestService_DeleteClient(t *testing.T) {
	t.Run("borrado definitivo publica evento delete", func(t *testing.T) {
		service, clientRepo, _ := newTestService(t)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sub := service.bus.Subscribe(ctx)

		clientRepo.EXPECT().DeleteClient(int64(1)).Return(nil)

		err := service.DeleteClient(1)
		require.NoError(t, err)

		select {
		case evt := <-sub:
			assert.Equal(t, events.TipoDelete, evt.Tipo)
			assert.Equal(t, int64(1), evt.ClienteID)
			assert.Nil(t, evt.Cliente)
		case <-time.After(time.Second):
			t.Fatal("no se publicó el evento delete")
		}
	})

	t.Run("cliente inexistente", func(t *testing.T) {
		service, clientRepo, _ := newTestService(t)

		clientRepo.EXPECT().DeleteClient(int64(99)).Return(sql.ErrNoRows)

		err := service.DeleteClient(99)
		assert.ErrorIs(t, err, ErrClientNotFound)
	})
}

func TestService_ListHistory(t *testing.T) {
	service, clientRepo, historyRepo := newTestService(t)

	prev := domain.EstatusProspecto
	clientRepo.EXPECT().GetClientByID(int64(1)).Return(&domain.Client{ID: 1}, nil)
	historyRepo.EXPECT().ListByClient(int64(1)).Return([]*domain.StatusHistoryEntry{
		{ID: 2, ClientID: 1, EstatusAnterior: &prev, EstatusNuevo: domain.EstatusAnalisis},
		{ID: 1, ClientID: 1, EstatusNuevo: domain.EstatusProspecto},
	}, nil)

	entries, err := service.ListHistory(1)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].ID)
}
