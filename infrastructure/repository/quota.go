package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/credivive/pipeline-manager-api/infrastructure/database/postgres"
	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/lib/pq"
)

const (
	ejecutivosTable = "ejecutivos"
)

type QuotaRepository interface {
	ListByPeriod(mes, anio int) ([]*domain.QuotaRecord, error)
	GetByID(quotaID int64) (*domain.QuotaRecord, error)
	CreateBatch(quotas []*domain.QuotaRecord) error
	UpdateQuota(quota *domain.QuotaRecord) error
	SumActiveNominaByPeriod(mes, anio int) (float64, error)
}

type quotaRepository struct {
	conn *postgres.Connection
}

func NewQuotaRepository(conn *postgres.Connection) QuotaRepository {
	return &quotaRepository{
		conn: conn,
	}
}

func (r *quotaRepository) ListByPeriod(mes, anio int) ([]*domain.QuotaRecord, error) {
	query, args, err := squirrel.
		Select("id", "nombre", "tipo", "meta", "activo", "mes", "anio").
		From(ejecutivosTable).
		Where(squirrel.Eq{"mes": mes, "anio": anio}).
		OrderBy("id ASC").
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

	quotas := make([]*domain.QuotaRecord, 0)
	for rows.Next() {
		quota := &domain.QuotaRecord{}
		if err := rows.Scan(
			&quota.ID,
			&quota.Nombre,
			&quota.Tipo,
			&quota.Meta,
			&quota.Activo,
			&quota.Mes,
			&quota.Anio,
		); err != nil {
			return nil, fmt.Errorf("error al escanear metas: %w", err)
		}
		quotas = append(quotas, quota)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error durante la iteración de filas: %w", err)
	}

	return quotas, nil
}

func (r *quotaRepository) GetByID(quotaID int64) (*domain.QuotaRecord, error) {
	quota := &domain.QuotaRecord{}
	err := r.conn.QueryRow(
		"SELECT id, nombre, tipo, meta, activo, mes, anio FROM ejecutivos WHERE id = $1",
		quotaID,
	).Scan(
		&quota.ID,
		&quota.Nombre,
		&quota.Tipo,
		&quota.Meta,
		&quota.Activo,
		&quota.Mes,
		&quota.Anio,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error al consultar meta: %w", err)
	}

	return quota, nil
}

// CreateBatch inserta varias filas de meta en una sola sentencia; lo usan
// el aprovisionamiento automático y la copia del mes anterior
func (r *quotaRepository) CreateBatch(quotas []*domain.QuotaRecord) error {
	if len(quotas) == 0 {
		return nil
	}

	queryBuilder := squirrel.
		Insert(ejecutivosTable).
		Columns("nombre", "tipo", "meta", "activo", "mes", "anio")

	for _, quota := range quotas {
		queryBuilder = queryBuilder.Values(quota.Nombre, quota.Tipo, quota.Meta, quota.Activo, quota.Mes, quota.Anio)
	}

	query, args, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("error al construir la consulta: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("error de base de datos: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("error al insertar metas: %w", err)
	}

	return nil
}

func (r *quotaRepository) UpdateQuota(quota *domain.QuotaRecord) error {
	query, args, err := squirrel.
		Update(ejecutivosTable).
		Set("meta", quota.Meta).
		Set("tipo", quota.Tipo).
		Set("activo", quota.Activo).
		Where(squirrel.Eq{"id": quota.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error al construir la consulta: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("error al actualizar meta: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error al obtener filas afectadas: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// SumActiveNominaByPeriod suma las metas activas de nómina del periodo;
// alimenta el presupuesto mensual del resumen. Tolera la variante sin
// acento que arrastran filas antiguas.
func (r *quotaRepository) SumActiveNominaByPeriod(mes, anio int) (float64, error) {
	query, args, err := squirrel.
		Select("COALESCE(SUM(meta), 0)").
		From(ejecutivosTable).
		Where(squirrel.Eq{"mes": mes, "anio": anio, "activo": true}).
		Where(squirrel.Eq{"tipo": []string{domain.TipoMetaNomina, "nomina"}}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error al construir la consulta: %w", err)
	}

	var total float64
	if err := r.conn.QueryRow(query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error al sumar metas: %w", err)
	}

	return total, nil
}
