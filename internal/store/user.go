package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wellbeam-hq/apiserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UserFilter narrows List results. Nil fields match everything.
type UserFilter struct {
	Role     *types.Role
	IsActive *bool
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (types.User, error) {
	const query = `
		SELECT id, full_name, email, role, password_hash, is_active, created_at
		FROM users
		WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT id, full_name, email, role, password_hash, is_active, created_at
		FROM users
		WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()

	const query = `
		INSERT INTO users (id, full_name, email, role, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.FullName,
		user.Email,
		user.Role,
		user.PasswordHash,
		user.IsActive,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.User{}, ErrDuplicate
		}
		return types.User{}, err
	}
	return user, nil
}

// List returns one page of users plus the total matching count. Ordering is
// total (created_at, then id) so page boundaries stay deterministic.
func (r *UserRepository) List(ctx context.Context, filter UserFilter, offset, limit int) ([]types.User, int, error) {
	where := ""
	args := []any{}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		where = appendCondition(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		where = appendCondition(where, fmt.Sprintf("is_active = $%d", len(args)))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := `
		SELECT id, full_name, email, role, password_hash, is_active, created_at
		FROM users` + where + fmt.Sprintf(`
		ORDER BY created_at, id
		OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, listQuery, append(args, offset, limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]types.User, 0, limit)
	for rows.Next() {
		var user types.User
		if err := rows.Scan(
			&user.ID,
			&user.FullName,
			&user.Email,
			&user.Role,
			&user.PasswordHash,
			&user.IsActive,
			&user.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetActive toggles the account's active flag.
func (r *UserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	const query = `UPDATE users SET is_active = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func appendCondition(where, condition string) string {
	if where == "" {
		return " WHERE " + condition
	}
	return where + " AND " + condition
}
