package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atlasgate/countryhub/internal/domain/apilog"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type APILogsRepo struct {
	pool    *pgxpool.Pool
	metrics dbObserver
}

func NewAPILogsRepo(pool *pgxpool.Pool, metrics dbObserver) *APILogsRepo {
	return &APILogsRepo{pool: pool, metrics: metrics}
}

// Insert appends one entry. The table is append-only for the application;
// only the logclean maintenance tool removes rows.
func (r *APILogsRepo) Insert(ctx context.Context, e apilog.Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	return observe(r.metrics, "api_logs.insert", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO api_logs (id, user_id, method, path, status_code, ip, user_agent, duration_ms, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			e.ID, e.UserID, e.Method, e.Path, e.StatusCode, e.IP, e.UserAgent, e.DurationMs, e.CreatedAt,
		)
		return err
	})
}

func (r *APILogsRepo) List(ctx context.Context, filter apilog.ListFilter, limit, offset int) ([]apilog.Entry, int, error) {
	baseQuery := `SELECT id,
		user_id,
		method,
		path,
		status_code,
		ip,
		user_agent,
		duration_ms,
		created_at,
		COUNT(*) OVER() AS total
	FROM api_logs
	`

	var conds []string
	var args []interface{}

	argsPosition := 1

	if filter.UserID != nil {
		conds = append(conds, fmt.Sprintf("user_id = $%d", argsPosition))
		args = append(args, *filter.UserID)
		argsPosition++
	}

	if filter.Endpoint != nil {
		conds = append(conds, fmt.Sprintf("path ILIKE $%d", argsPosition))
		args = append(args, "%"+*filter.Endpoint+"%")
		argsPosition++
	}

	if filter.Method != nil {
		conds = append(conds, fmt.Sprintf("method = $%d", argsPosition))
		args = append(args, strings.ToUpper(*filter.Method))
		argsPosition++
	}

	if filter.From != nil {
		conds = append(conds, fmt.Sprintf("created_at >= $%d", argsPosition))
		args = append(args, *filter.From)
		argsPosition++
	}

	if filter.To != nil {
		conds = append(conds, fmt.Sprintf("created_at <= $%d", argsPosition))
		args = append(args, *filter.To)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// newest first
	query += fmt.Sprintf(" ORDER BY created_at DESC, id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, limit, offset)

	output := make([]apilog.Entry, 0, limit)
	total := 0

	err := observe(r.metrics, "api_logs.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var e apilog.Entry
			var t int

			err = rows.Scan(&e.ID, &e.UserID, &e.Method, &e.Path, &e.StatusCode, &e.IP, &e.UserAgent, &e.DurationMs, &e.CreatedAt, &t)

			if err != nil {
				return err
			}

			total = t
			output = append(output, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, err
	}

	return output, total, nil
}

// DeleteOlderThan bulk-clears aged rows. Used by cmd/logclean only.
func (r *APILogsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var tag pgconn.CommandTag

	err := observe(r.metrics, "api_logs.delete_older_than", func() error {
		var err error
		tag, err = r.pool.Exec(ctx, `DELETE FROM api_logs WHERE created_at < $1`, cutoff)
		return err
	})

	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// DeleteAll truncates the trail. Used by cmd/logclean only.
func (r *APILogsRepo) DeleteAll(ctx context.Context) (int64, error) {
	var tag pgconn.CommandTag

	err := observe(r.metrics, "api_logs.delete_all", func() error {
		var err error
		tag, err = r.pool.Exec(ctx, `DELETE FROM api_logs`)
		return err
	})

	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
