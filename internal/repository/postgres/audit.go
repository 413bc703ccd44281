package postgres

import (
	"context"
	"time"

	"github.com/dkovalenko/railgo/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *AuditRepo) With(db DB) *AuditRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *AuditRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Insert appends one usage record. The table is append-only.
func (r *AuditRepo) Insert(ctx context.Context, u domain.APIUsage) error {
	const op = "postgres.AuditRepo.Insert"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO api_usage(endpoint, method, response_status, user_ip)
       	 VALUES ($1, $2, $3, $4)`,
		u.Endpoint, u.Method, u.ResponseStatus, u.UserIP,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// List returns usage records newest first. Method matches as a
// case-insensitive substring; status matches as a substring of the
// numeric status code.
func (r *AuditRepo) List(ctx context.Context, method, status string, limit, offset int) ([]domain.APIUsage, error) {
	const op = "postgres.AuditRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, endpoint, method, timestamp, response_status, user_ip
		 FROM api_usage
		 WHERE ($1 = '' OR method ILIKE '%' || $1 || '%')
		   AND ($2 = '' OR response_status::text LIKE '%' || $2 || '%')
		 ORDER BY timestamp DESC
		 LIMIT $3 OFFSET $4`,
		method, status, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.APIUsage
	for rows.Next() {
		var u domain.APIUsage
		if err := rows.Scan(&u.ID, &u.Endpoint, &u.Method, &u.Timestamp, &u.ResponseStatus, &u.UserIP); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// DeleteOlderThan prunes usage records with a timestamp before cutoff.
func (r *AuditRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const op = "postgres.AuditRepo.DeleteOlderThan"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM api_usage WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}
