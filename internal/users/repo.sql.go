package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatewarden/gatewarden/internal/platform/db"
	"github.com/gatewarden/gatewarden/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListUsers returns all users with their role names.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at, u.updated_at, ro.name
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		LEFT JOIN roles ro ON ro.id = ur.role_id
		ORDER BY u.id, ro.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	index := make(map[int64]int)
	for rows.Next() {
		var u User
		var roleName *string
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &roleName); err != nil {
			return nil, err
		}
		pos, ok := index[u.ID]
		if !ok {
			index[u.ID] = len(users)
			users = append(users, u)
			pos = index[u.ID]
		}
		if roleName != nil {
			users[pos].Roles = append(users[pos].Roles, *roleName)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches a user with its role names by ID.
func (r *Repository) GetUser(ctx context.Context, id int64) (*User, error) {
	user := &User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT ro.name FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ro.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		user.Roles = append(user.Roles, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return user, nil
}

// ExistsByUsername reports whether the username is taken.
func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

// ExistsByEmail reports whether the email is taken.
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// CreateUser inserts the user row and its role assignments in one transaction.
func (r *Repository) CreateUser(ctx context.Context, username, email, passwordHash string, roleIDs []int64) (*User, error) {
	user := &User{Username: username, Email: email, PasswordHash: passwordHash}
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		if err := tx.QueryRow(ctx,
			`INSERT INTO users (username, email, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, $4) RETURNING id, created_at, updated_at`,
			username, email, passwordHash, now,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
			if isUniqueViolation(err) {
				return shared.ErrConflict
			}
			return err
		}
		for _, roleID := range roleIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_roles (user_id, role_id, created_at) VALUES ($1, $2, $3)`,
				user.ID, roleID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ReplaceUserRoles swaps the user's role set atomically.
func (r *Repository) ReplaceUserRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, roleID := range roleIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_roles (user_id, role_id, created_at) VALUES ($1, $2, $3)`,
				userID, roleID, now); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, `UPDATE users SET updated_at = $1 WHERE id = $2`, now, userID); err != nil {
			return err
		}
		return nil
	})
}

// DeleteUser removes the user and its role assignments.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ RepositoryPort = (*Repository)(nil)
