package retry

import (
	"context"
	"time"

	"github.com/credivive/pipeline-manager-api/pkg/log"
)

// Do ejecuta op hasta maxAttempts veces con una pausa fija entre intentos.
// Existe para tolerar un backend arrancando en frío, no fallas sostenidas:
// el último error se devuelve tal cual después de agotar los intentos.
func Do(ctx context.Context, maxAttempts int, delay time.Duration, op func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		log.ForContext(ctx).WithError(err).Warnf("Intento %d de %d fallido, reintentando en %s", attempt, maxAttempts, delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return err
}

// DoWithResult es la variante de Do para operaciones que devuelven un valor
func DoWithResult[T any](ctx context.Context, maxAttempts int, delay time.Duration, op func() (T, error)) (T, error) {
	var result T
	err := Do(ctx, maxAttempts, delay, func() error {
		var opErr error
		result, opErr = op()
		return opErr
	})
	return result, err
}
