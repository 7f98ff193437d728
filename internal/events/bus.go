package events

import (
	"context"
	"sync"
	"time"

	"github.com/credivive/pipeline-manager-api/internal/domain"
)

const (
	TipoInsert = "insert"
	TipoUpdate = "update"
	TipoDelete = "delete"
)

// ChangeEvent describe un cambio sobre un cliente del pipeline. Se emite
// hacia los suscriptores SSE para refrescar el tablero en tiempo real.
type ChangeEvent struct {
	Tipo      string         `json:"tipo"`
	ClienteID int64          `json:"cliente_id"`
	Cliente   *domain.Client `json:"cliente,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Bus distribuye eventos de cambio a todos los suscriptores activos.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan ChangeEvent
	next int
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]chan ChangeEvent),
	}
}

// Subscribe registra un suscriptor y devuelve el canal por el que recibirá
// eventos. El canal se cierra cuando el contexto termina.
func (b *Bus) Subscribe(ctx context.Context) <-chan ChangeEvent {
	ch := make(chan ChangeEvent, 16)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		close(ch)
		b.mu.Unlock()
	}()

	return ch
}

// Publish reparte el evento entre todos los suscriptores.
func (b *Bus) Publish(evt ChangeEvent) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			// Se descarta si el suscriptor va lento para no bloquear.
		}
	}
}

// Subscribers devuelve la cantidad de suscriptores activos.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
