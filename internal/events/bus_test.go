package events

import (
	"context"
	"testing"
	"time"

	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBus_PublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub1 := bus.Subscribe(ctx)
	sub2 := bus.Subscribe(ctx)

	assert.Equal(t, 2, bus.Subscribers())

	bus.Publish(ChangeEvent{
		Tipo:      TipoUpdate,
		ClienteID: 42,
		Cliente:   &domain.Client{ID: 42, NombreCliente: "Juan Pérez"},
	})

	for _, sub := range []<-chan ChangeEvent{sub1, sub2} {
		select {
		case evt := <-sub:
			assert.Equal(t, TipoUpdate, evt.Tipo)
			assert.Equal(t, int64(42), evt.ClienteID)
			assert.False(t, evt.Timestamp.IsZero())
		case <-time.After(time.Second):
			t.Fatal("el suscriptor no recibió el evento")
		}
	}
}

func TestBus_SubscribeClosesOnContextDone(t *testing.T) {
	bus := NewBus()

	ctx, cancel := context.WithCancel(context.Background())
	sub := bus.Subscribe(ctx)

	cancel()

	select {
	case _, open := <-sub:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("el canal no se cerró al cancelar el contexto")
	}

	assert.Eventually(t, func() bool {
		return bus.Subscribers() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestBus_PublishDropsWhenSubscriberIsSlow(t *testing.T) {
	bus := NewBus()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := bus.Subscribe(ctx)

	// Se satura el buffer del canal; los eventos extra se descartan
	// sin bloquear al publicador.
	for i := 0; i < 40; i++ {
		bus.Publish(ChangeEvent{Tipo: TipoInsert, ClienteID: int64(i)})
	}

	received := 0
	for {
		select {
		case <-sub:
			received++
		default:
			assert.LessOrEqual(t, received, 16)
			assert.Greater(t, received, 0)
			return
		}
	}
}
