package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atlasgate/countryhub/internal/domain/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already in use")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type UsersRepo struct {
	pool    *pgxpool.Pool
	metrics dbObserver
}

func NewUsersRepo(pool *pgxpool.Pool, metrics dbObserver) *UsersRepo {
	return &UsersRepo{pool: pool, metrics: metrics}
}

func (r *UsersRepo) Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error) {
	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := observe(r.metrics, "users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt,
		)
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, ErrEmailTaken
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := observe(r.metrics, "users.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, name, email, password_hash, role, created_at, updated_at
			 FROM users
			 WHERE id = $1`,
			id,
		).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := observe(r.metrics, "users.get_by_email", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, name, email, password_hash, role, created_at, updated_at
			 FROM users
			 WHERE email = $1`,
			email,
		).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Count(ctx context.Context) (int, error) {
	var n int

	err := observe(r.metrics, "users.count", func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	})

	if err != nil {
		return 0, err
	}

	return n, nil
}

func (r *UsersRepo) List(ctx context.Context, filter user.ListFilter, limit, offset int) ([]user.User, int, error) {
	baseQuery := `SELECT id,
		name,
		email,
		password_hash,
		role,
		created_at,
		updated_at,
		COUNT(*) OVER() AS total
	FROM users
	`

	var conds []string
	var args []interface{}

	argsPosition := 1

	if filter.Name != nil {
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", argsPosition))
		args = append(args, "%"+*filter.Name+"%")
		argsPosition++
	}

	if filter.Email != nil {
		conds = append(conds, fmt.Sprintf("email ILIKE $%d", argsPosition))
		args = append(args, "%"+*filter.Email+"%")
		argsPosition++
	}

	if filter.Role != nil {
		conds = append(conds, fmt.Sprintf("role = $%d", argsPosition))
		args = append(args, *filter.Role)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering for pagination
	query += fmt.Sprintf(" ORDER BY created_at DESC, id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, limit, offset)

	output := make([]user.User, 0, limit)
	total := 0

	err := observe(r.metrics, "users.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var u user.User
			var t int

			err = rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt, &t)

			if err != nil {
				return err
			}

			total = t
			output = append(output, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, err
	}

	return output, total, nil
}

func (r *UsersRepo) Update(ctx context.Context, id string, req user.UpdateUserRequest, passwordHash *string, allowRole bool) (user.User, error) {
	var sets []string
	var args []interface{}

	argsPosition := 1

	if req.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argsPosition))
		args = append(args, *req.Name)
		argsPosition++
	}

	if req.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", argsPosition))
		args = append(args, *req.Email)
		argsPosition++
	}

	if passwordHash != nil {
		sets = append(sets, fmt.Sprintf("password_hash = $%d", argsPosition))
		args = append(args, *passwordHash)
		argsPosition++
	}

	if req.Role != nil && allowRole {
		sets = append(sets, fmt.Sprintf("role = $%d", argsPosition))
		args = append(args, *req.Role)
		argsPosition++
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", argsPosition))
	args = append(args, time.Now().UTC())
	argsPosition++

	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d
		 RETURNING id, name, email, password_hash, role, created_at, updated_at`,
		strings.Join(sets, ", "), argsPosition,
	)
	args = append(args, id)

	var u user.User

	err := observe(r.metrics, "users.update", func() error {
		return r.pool.QueryRow(ctx, query, args...).
			Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}

		if isUniqueViolation(err) {
			return user.User{}, ErrEmailTaken
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := observe(r.metrics, "users.delete", func() error {
		var err error
		tag, err = r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		return err
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
