package book

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

func (r *PostgresRepo) ReadAll(ctx context.Context, _ time.Duration) ([]Row, error) {
	const query = `
		SELECT id, title, authors, rating, category, language, status,
		       comment, start_date, end_date, cover_url
		FROM books
		ORDER BY id ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, unavailable("query books", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var b Row
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Authors, &b.Rating, &b.Category, &b.Language, &b.Status,
			&b.Comment, &b.StartDate, &b.EndDate, &b.CoverURL,
		); err != nil {
			return nil, unavailable("scan book", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate books", err)
	}
	return out, nil
}

func (r *PostgresRepo) Append(ctx context.Context, row Row) (RowID, error) {
	const sql = `
		INSERT INTO books (title, authors, rating, category, language, status,
		                   comment, start_date, end_date, cover_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var id RowID
	err := r.db.QueryRow(timeoutCtx, sql,
		row.Title, row.Authors, row.Rating, row.Category, row.Language, row.Status,
		row.Comment, row.StartDate, row.EndDate, row.CoverURL,
	).Scan(&id)
	if err != nil {
		return 0, unavailable("insert book", err)
	}
	return id, nil
}

func (r *PostgresRepo) Replace(ctx context.Context, id RowID, row Row) error {
	const sql = `
		UPDATE books SET
			title = $2, authors = $3, rating = $4, category = $5, language = $6,
			status = $7, comment = $8, start_date = $9, end_date = $10, cover_url = $11,
			updated_at = NOW()
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, id,
		row.Title, row.Authors, row.Rating, row.Category, row.Language,
		row.Status, row.Comment, row.StartDate, row.EndDate, row.CoverURL,
	)
	if err != nil {
		return unavailable("update book", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id RowID) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return unavailable("delete book", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}
