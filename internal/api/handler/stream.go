package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/credivive/pipeline-manager-api/internal/events"
	"github.com/credivive/pipeline-manager-api/pkg/apiErrors"
	"github.com/credivive/pipeline-manager-api/pkg/log"
)

// streamKeepAliveInterval mantiene viva la conexión SSE a través de proxies
const streamKeepAliveInterval = 25 * time.Second

// ClientStream emite por SSE los cambios del pipeline conforme ocurren.
// ?anio= acota a los casos registrados en ese año; los eventos de borrado
// pasan siempre porque el consumidor solo necesita el id para retirarlos.
func ClientStream(bus *events.Bus) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		flusher, ok := w.(http.Flusher)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Streaming no soportado", nil)
			return
		}

		anio := 0
		if anioStr := r.URL.Query().Get("anio"); anioStr != "" {
			parsed, err := strconv.Atoi(anioStr)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Año inválido", nil)
				return
			}
			anio = parsed
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		eventsCh := bus.Subscribe(r.Context())

		logger.WithFields(log.Fields{
			"anio":         anio,
			"suscriptores": bus.Subscribers(),
		}).Info("Suscriptor SSE conectado")

		// Comentario inicial para que el navegador confirme la conexión
		fmt.Fprint(w, ": conectado\n\n")
		flusher.Flush()

		keepAlive := time.NewTicker(streamKeepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				logger.Info("Suscriptor SSE desconectado")
				return

			case <-keepAlive.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()

			case evt, open := <-eventsCh:
				if !open {
					return
				}

				if !matchesYear(evt, anio) {
					continue
				}

				payload, err := json.Marshal(evt)
				if err != nil {
					logger.WithError(err).Error("Error al codificar evento SSE")
					continue
				}

				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Tipo, payload)
				flusher.Flush()
			}
		}
	})
}

// matchesYear decide si el evento pertenece al año suscrito. Sin filtro de
// año pasa todo; un borrado pasa siempre.
func matchesYear(evt events.ChangeEvent, anio int) bool {
	if anio == 0 || evt.Tipo == events.TipoDelete {
		return true
	}
	if evt.Cliente == nil {
		return true
	}
	return evt.Cliente.AnioRegistro == anio
}
