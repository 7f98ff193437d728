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
	perfilesTable = "perfiles"
)

type UserRepository interface {
	CreateUser(user *domain.UserProfile) (*domain.UserProfile, error)
	UpdateUser(user *domain.UserProfile) error
	GetUserByEmail(email string) (*domain.UserProfile, error)
	GetUserByID(userID int64) (*domain.UserProfile, error)
	ListUsers() ([]*domain.UserProfile, error)
	ListActiveExecutiveNames() ([]string, error)
}

type userRepository struct {
	conn *postgres.Connection
}

func NewUserRepository(conn *postgres.Connection) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

const userColumns = "id, email, password_hash, nombre_display, rol, ejecutivo_id, activo, created_at, updated_at"

func (r *userRepository) CreateUser(user *domain.UserProfile) (*domain.UserProfile, error) {
	queryBuilder := squirrel.
		Insert(perfilesTable).
		Columns("email", "password_hash", "nombre_display", "rol", "ejecutivo_id", "activo").
		Values(user.Email, user.PasswordHash, user.NombreDisplay, user.Rol, user.EjecutivoID, user.Activo).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	userSQL, userArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir la consulta: %w", err)
	}

	err = r.conn.QueryRow(userSQL, userArgs...).Scan(&user.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, fmt.Errorf("error de base de datos: %w (código: %s)", pqErr, pqErr.Code)
		}
		return nil, fmt.Errorf("error al insertar perfil: %w", err)
	}

	return user, nil
}

func (r *userRepository) UpdateUser(user *domain.UserProfile) error {
	queryBuilder := squirrel.
		Update(perfilesTable).
		Set("activo", user.Activo).
		Set("rol", user.Rol).
		Set("ejecutivo_id", user.EjecutivoID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": user.ID})

	if user.NombreDisplay != "" {
		queryBuilder = queryBuilder.Set("nombre_display", user.NombreDisplay)
	}

	if user.Email != "" {
		queryBuilder = queryBuilder.Set("email", user.Email)
	}

	if user.PasswordHash != "" {
		queryBuilder = queryBuilder.Set("password_hash", user.PasswordHash)
	}

	userSQL, userArgs, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("error al construir la consulta: %w", err)
	}

	_, err = r.conn.Exec(userSQL, userArgs...)
	if err != nil {
		return fmt.Errorf("error al actualizar perfil: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByEmail(email string) (*domain.UserProfile, error) {
	user, err := r.scanUser(r.conn.QueryRow(
		"SELECT "+userColumns+" FROM perfiles WHERE email = $1", email,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error al consultar perfil: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetUserByID(userID int64) (*domain.UserProfile, error) {
	user, err := r.scanUser(r.conn.QueryRow(
		"SELECT "+userColumns+" FROM perfiles WHERE id = $1", userID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error al consultar perfil: %w", err)
	}

	return user, nil
}

func (r *userRepository) ListUsers() ([]*domain.UserProfile, error) {
	query, args, err := squirrel.
		Select(userColumns).
		From(perfilesTable).
		OrderBy("nombre_display ASC").
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

	users := make([]*domain.UserProfile, 0)
	for rows.Next() {
		user := &domain.UserProfile{}
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.NombreDisplay,
			&user.Rol,
			&user.EjecutivoID,
			&user.Activo,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error al escanear perfiles: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error durante la iteración de filas: %w", err)
	}

	return users, nil
}

// ListActiveExecutiveNames devuelve los nombres display de los perfiles
// de ejecutivo activos; alimenta el aprovisionamiento de metas
func (r *userRepository) ListActiveExecutiveNames() ([]string, error) {
	query, args, err := squirrel.
		Select("nombre_display").
		From(perfilesTable).
		Where(squirrel.Eq{"rol": domain.RolEjecutivo, "activo": true}).
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

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error al escanear nombres: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error durante la iteración de filas: %w", err)
	}

	return names, nil
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.UserProfile, error) {
	user := &domain.UserProfile{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.NombreDisplay,
		&user.Rol,
		&user.EjecutivoID,
		&user.Activo,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}
