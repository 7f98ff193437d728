package domain

import "time"

// UsuarioSistema es el actor centinela cuando una transición no trae usuario
const UsuarioSistema = "sistema"

// StatusHistoryEntry es el registro de auditoría de una transición de
// estatus. Es inmutable: se inserta una vez y nunca se actualiza ni borra.
type StatusHistoryEntry struct {
	ID              int64     `json:"id"`
	ClientID        int64     `json:"client_id"`
	EstatusAnterior *string   `json:"estatus_anterior"`
	EstatusNuevo    string    `json:"estatus_nuevo"`
	Nota            string    `json:"nota"`
	Usuario         string    `json:"usuario"`
	FechaCambio     time.Time `json:"fecha_cambio"`
}
