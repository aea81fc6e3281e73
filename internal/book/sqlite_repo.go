package book

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteDriver is the database/sql driver name registered by modernc.org/sqlite.
const SQLiteDriver = "sqlite"

type sqliteRow struct {
	ID        int64  `db:"id"`
	Title     string `db:"title"`
	Authors   string `db:"authors"`
	Rating    string `db:"rating"`
	Category  string `db:"category"`
	Language  string `db:"language"`
	Status    string `db:"status"`
	Comment   string `db:"comment"`
	StartDate string `db:"start_date"`
	EndDate   string `db:"end_date"`
	CoverURL  string `db:"cover_url"`
}

func (r sqliteRow) toRow() Row {
	return Row{
		ID: RowID(r.ID), Title: r.Title, Authors: r.Authors, Rating: r.Rating,
		Category: r.Category, Language: r.Language, Status: r.Status, Comment: r.Comment,
		StartDate: r.StartDate, EndDate: r.EndDate, CoverURL: r.CoverURL,
	}
}

func toSQLiteRow(id RowID, row Row) sqliteRow {
	return sqliteRow{
		ID: int64(id), Title: row.Title, Authors: row.Authors, Rating: row.Rating,
		Category: row.Category, Language: row.Language, Status: row.Status, Comment: row.Comment,
		StartDate: row.StartDate, EndDate: row.EndDate, CoverURL: row.CoverURL,
	}
}

func init() {
	sqlx.BindDriver(SQLiteDriver, sqlx.QUESTION)
}

// SQLiteRepo stores the book table in a local SQLite file.
type SQLiteRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// OpenSQLite opens the database at path. Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open(SQLiteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY under concurrent requests
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func NewSQLiteRepo(db *sqlx.DB, timeout time.Duration) *SQLiteRepo {
	return &SQLiteRepo{db: db, timeout: timeout}
}

func (r *SQLiteRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *SQLiteRepo) ReadAll(ctx context.Context, _ time.Duration) ([]Row, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rows []sqliteRow
	err := r.db.SelectContext(timeoutCtx, &rows, `
		SELECT id, title, authors, rating, category, language, status,
		       comment, start_date, end_date, cover_url
		FROM books
		ORDER BY id ASC`)
	if err != nil {
		return nil, unavailable("query books", err)
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRow())
	}
	return out, nil
}

func (r *SQLiteRepo) Append(ctx context.Context, row Row) (RowID, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.NamedExecContext(timeoutCtx, `
		INSERT INTO books (title, authors, rating, category, language, status,
		                   comment, start_date, end_date, cover_url)
		VALUES (:title, :authors, :rating, :category, :language, :status,
		        :comment, :start_date, :end_date, :cover_url)`,
		toSQLiteRow(0, row))
	if err != nil {
		return 0, unavailable("insert book", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, unavailable("insert book", err)
	}
	return RowID(id), nil
}

func (r *SQLiteRepo) Replace(ctx context.Context, id RowID, row Row) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.NamedExecContext(timeoutCtx, `
		UPDATE books SET
			title = :title, authors = :authors, rating = :rating, category = :category,
			language = :language, status = :status, comment = :comment,
			start_date = :start_date, end_date = :end_date, cover_url = :cover_url
		WHERE id = :id`,
		toSQLiteRow(id, row))
	if err != nil {
		return unavailable("update book", err)
	}
	return affectedOne(res.RowsAffected())
}

func (r *SQLiteRepo) Delete(ctx context.Context, id RowID) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(timeoutCtx, `DELETE FROM books WHERE id = ?`, int64(id))
	if err != nil {
		return unavailable("delete book", err)
	}
	return affectedOne(res.RowsAffected())
}

func (r *SQLiteRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.PingContext(timeoutCtx)
}

func affectedOne(n int64, err error) error {
	if err != nil {
		return unavailable("rows affected", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
