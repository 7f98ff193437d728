package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/credivive/pipeline-manager-api/infrastructure/database/postgres"
	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/lib/pq"
)

const (
	clientesTable = "clientes"
)

type ClientRepository interface {
	CreateClient(client *domain.Client) (*domain.Client, error)
	GetClientByID(clientID int64) (*domain.Client, error)
	ListClients(filters *domain.ClientFilters) ([]*domain.Client, error)
	ListClientsByYear(anio int) ([]*domain.Client, error)
	UpdateClientFields(clientID int64, fields map[string]interface{}) error
	UpdateClientStatus(client *domain.Client) error
	DeleteClient(clientID int64) error
}

type clientRepository struct {
	conn *postgres.Connection
}

func NewClientRepository(conn *postgres.Connection) ClientRepository {
	return &clientRepository{
		conn: conn,
	}
}

const clientColumns = "id, folio, ejecutivo, ejecutivo_id, nombre_cliente, producto, monto, sucursal, convenio, " +
	"fecha_inicio, estatus, actualizacion, estatus_updated_at, fecha_final, mes_registro, anio_registro, created_at, updated_at"

func (r *clientRepository) CreateClient(client *domain.Client) (*domain.Client, error) {
	queryBuilder := squirrel.
		Insert(clientesTable).
		Columns("folio", "ejecutivo", "ejecutivo_id", "nombre_cliente", "producto", "monto",
			"sucursal", "convenio", "fecha_inicio", "estatus", "actualizacion",
			"mes_registro", "anio_registro").
		Values(client.Folio, client.Ejecutivo, client.EjecutivoID, client.NombreCliente,
			client.Producto, client.Monto, client.Sucursal, client.Convenio,
			client.FechaInicio.Format(time.DateOnly), client.Estatus, client.Actualizacion,
			client.MesRegistro, client.AnioRegistro).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	clientSQL, clientArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir la consulta: %w", err)
	}

	err = r.conn.QueryRow(clientSQL, clientArgs...).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, fmt.Errorf("error de base de datos: %w (código: %s)", pqErr, pqErr.Code)
		}
		return nil, fmt.Errorf("error al insertar cliente: %w", err)
	}

	return client, nil
}

func (r *clientRepository) GetClientByID(clientID int64) (*domain.Client, error) {
	query, args, err := squirrel.
		Select(clientColumns).
		From(clientesTable).
		Where(squirrel.Eq{"id": clientID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir la consulta: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	client, err := scanClient(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error al escanear cliente: %w", err)
	}

	return client, nil
}

// ListClients devuelve los clientes del periodo de registro indicado,
// del más reciente al más antiguo. Ejecutivo, Estatus y Producto acotan
// la consulta cuando vienen informados.
func (r *clientRepository) ListClients(filters *domain.ClientFilters) ([]*domain.Client, error) {
	queryBuilder := squirrel.
		Select(clientColumns).
		From(clientesTable).
		OrderBy("id DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filters != nil {
		if filters.Mes != 0 {
			queryBuilder = queryBuilder.Where(squirrel.Eq{"mes_registro": filters.Mes})
		}
		if filters.Anio != 0 {
			queryBuilder = queryBuilder.Where(squirrel.Eq{"anio_registro": filters.Anio})
		}
		if filters.Ejecutivo != "" {
			queryBuilder = queryBuilder.Where(squirrel.Eq{"ejecutivo": filters.Ejecutivo})
		}
		if filters.Estatus != "" {
			queryBuilder = queryBuilder.Where(squirrel.Eq{"estatus": filters.Estatus})
		}
		if filters.Producto != "" {
			queryBuilder = queryBuilder.Where(squirrel.Eq{"producto": filters.Producto})
		}
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir la consulta: %w", err)
	}

	return r.queryClients(query, args)
}

// ListClientsByYear devuelve todos los clientes registrados en el año,
// ordenados por mes de registro; lo usan el resumen anual y la exportación
func (r *clientRepository) ListClientsByYear(anio int) ([]*domain.Client, error) {
	query, args, err := squirrel.
		Select(clientColumns).
		From(clientesTable).
		Where(squirrel.Eq{"anio_registro": anio}).
		OrderBy("mes_registro ASC", "id DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir la consulta: %w", err)
	}

	return r.queryClients(query, args)
}

func (r *clientRepository) queryClients(query string, args []interface{}) ([]*domain.Client, error) {
	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al ejecutar la consulta: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClientRows(rows)
		if err != nil {
			return nil, fmt.Errorf("error al escanear clientes: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error durante la iteración de filas: %w", err)
	}

	return clients, nil
}

// UpdateClientFields aplica una edición parcial de campos directos.
// Devuelve sql.ErrNoRows cuando el registro ya no existe.
func (r *clientRepository) UpdateClientFields(clientID int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	queryBuilder := squirrel.
		Update(clientesTable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": clientID})

	for field, value := range fields {
		queryBuilder = queryBuilder.Set(field, value)
	}

	query, args, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("error al construir la consulta: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("error de base de datos: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("error al actualizar cliente: %w", err)
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

// UpdateClientStatus persiste el resultado de una transición de estatus:
// estatus, nota, estatus_updated_at y, cuando aplica, fecha_final
func (r *clientRepository) UpdateClientStatus(client *domain.Client) error {
	queryBuilder := squirrel.
		Update(clientesTable).
		Set("estatus", client.Estatus).
		Set("actualizacion", client.Actualizacion).
		Set("estatus_updated_at", client.EstatusUpdatedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": client.ID})

	if client.FechaFinal != nil {
		queryBuilder = queryBuilder.Set("fecha_final", client.FechaFinal.Format(time.DateOnly))
	}

	query, args, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("error al construir la consulta: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("error de base de datos: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("error al actualizar estatus: %w", err)
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

// DeleteClient borra el registro de forma definitiva; no hay soft delete
func (r *clientRepository) DeleteClient(clientID int64) error {
	query, args, err := squirrel.
		Delete(clientesTable).
		Where(squirrel.Eq{"id": clientID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error al construir la consulta: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("error al borrar cliente: %w", err)
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row *sql.Row) (*domain.Client, error) {
	return scanClientFrom(row)
}

func scanClientRows(rows *sql.Rows) (*domain.Client, error) {
	return scanClientFrom(rows)
}

func scanClientFrom(scanner rowScanner) (*domain.Client, error) {
	client := &domain.Client{}
	err := scanner.Scan(
		&client.ID,
		&client.Folio,
		&client.Ejecutivo,
		&client.EjecutivoID,
		&client.NombreCliente,
		&client.Producto,
		&client.Monto,
		&client.Sucursal,
		&client.Convenio,
		&client.FechaInicio,
		&client.Estatus,
		&client.Actualizacion,
		&client.EstatusUpdatedAt,
		&client.FechaFinal,
		&client.MesRegistro,
		&client.AnioRegistro,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}
