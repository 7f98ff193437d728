package repository

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/credivive/pipeline-manager-api/infrastructure/database/postgres"
	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/lib/pq"
)

const (
	historialEstatusTable = "historial_estatus"
)

// StatusHistoryRepository maneja la bitácora de transiciones de estatus.
// La tabla es de solo inserción: no hay update ni delete.
type StatusHistoryRepository interface {
	InsertEntry(entry *domain.StatusHistoryEntry) error
	ListByClient(clientID int64) ([]*domain.StatusHistoryEntry, error)
}

type statusHistoryRepository struct {
	conn *postgres.Connection
}

func NewStatusHistoryRepository(conn *postgres.Connection) StatusHistoryRepository {
	return &statusHistoryRepository{
		conn: conn,
	}
}

func (r *statusHistoryRepository) InsertEntry(entry *domain.StatusHistoryEntry) error {
	query, args, err := squirrel.
		Insert(historialEstatusTable).
		Columns("client_id", "estatus_anterior", "estatus_nuevo", "nota", "usuario").
		Values(entry.ClientID, entry.EstatusAnterior, entry.EstatusNuevo, entry.Nota, entry.Usuario).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error al construir la consulta: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("error de base de datos: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("error al insertar historial: %w", err)
	}

	return nil
}

// ListByClient devuelve el historial del cliente, el cambio más reciente
// primero
func (r *statusHistoryRepository) ListByClient(clientID int64) ([]*domain.StatusHistoryEntry, error) {
	query, args, err := squirrel.
		Select("id", "client_id", "estatus_anterior", "estatus_nuevo", "nota", "usuario", "fecha_cambio").
		From(historialEstatusTable).
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("fecha_cambio DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir la consulta: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al ejecutar la consulta: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.StatusHistoryEntry, 0)
	for rows.Next() {
		entry := &domain.StatusHistoryEntry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.ClientID,
			&entry.EstatusAnterior,
			&entry.EstatusNuevo,
			&entry.Nota,
			&entry.Usuario,
			&entry.FechaCambio,
		); err != nil {
			return nil, fmt.Errorf("error al escanear historial: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error durante la iteración de filas: %w", err)
	}

	return entries, nil
}
