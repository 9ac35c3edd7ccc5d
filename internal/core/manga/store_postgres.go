// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

/*
PostgreSQL implementation for the catalog's data access.

It leans on Postgres features to keep the hot catalog path cheap:
  - Keyset Pagination: Row-value comparison against (createdat, id) walks the
    catalog index without OFFSET scans.
  - Native Arrays: Categories and chapter pages live in text[] columns,
    avoiding junction tables for simple ordered lists.
  - ACID Transactions: Manga and first-chapter inserts share one transaction.
*/
package manga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trannhat/mangahive/internal/platform/apperr"
	"github.com/trannhat/mangahive/internal/platform/database/schema"
	"github.com/trannhat/mangahive/internal/platform/dberr"
)

// # PostgreSQL Repository

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed manga store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

/*
List returns one page of the catalog in newest-first order.

Description: The cursor is resolved to its (createdat, id) pair first so an
unknown cursor fails loudly instead of silently returning an empty page that
clients cannot tell apart from the end of the catalog. The page query then
uses a row-value comparison, which PostgreSQL serves directly from the
(createdat DESC, id DESC) index.

Parameters:
  - context: context.Context
  - cursor: string (ID of the last item of the previous page, or "")
  - limit: int

Returns:
  - []*Manga: Slice of hydrated catalog entities
  - error: apperr.ValidationError for unknown cursors, or execution errors
*/
func (repository *postgresRepository) List(context context.Context, cursor string, limit int) ([]*Manga, error) {

	// ── 1. Cursor Resolution ──────────────────────────────────────────────

	var cursorCreatedAt time.Time
	var cursorID string

	if cursor != "" {
		resolveQuery := fmt.Sprintf(
			"SELECT %s, %s FROM %s WHERE %s = $1",
			schema.CoreManga.CreatedAt, schema.CoreManga.ID,
			schema.CoreManga.Table, schema.CoreManga.ID,
		)

		err := repository.pool.QueryRow(context, resolveQuery, cursor).Scan(&cursorCreatedAt, &cursorID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperr.ValidationError("Unknown cursor", apperr.FieldError{
					Field:   FieldCursor,
					Message: "does not reference a catalog entry",
				})
			}
			return nil, fmt.Errorf("postgres_manga_repo_cursor_resolve_failed: %w", err)
		}
	}

	// ── 2. Page Query ─────────────────────────────────────────────────────

	var pageQuery string
	var args []any

	selectColumns := fmt.Sprintf(
		"m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, u.%s, m.%s, m.%s",
		schema.CoreManga.ID, schema.CoreManga.Title, schema.CoreManga.Description,
		schema.CoreManga.CoverURL, schema.CoreManga.Categories, schema.CoreManga.Status,
		schema.CoreManga.AuthorID, schema.UserAccount.DisplayName,
		schema.CoreManga.CreatedAt, schema.CoreManga.UpdatedAt,
	)

	fromJoin := fmt.Sprintf(
		"FROM %s m JOIN %s u ON u.%s = m.%s",
		schema.CoreManga.Table, schema.UserAccount.Table,
		schema.UserAccount.ID, schema.CoreManga.AuthorID,
	)

	orderBy := fmt.Sprintf("ORDER BY m.%s DESC, m.%s DESC", schema.CoreManga.CreatedAt, schema.CoreManga.ID)

	if cursor == "" {
		pageQuery = fmt.Sprintf("SELECT %s %s %s LIMIT $1", selectColumns, fromJoin, orderBy)
		args = []any{limit}
	} else {
		keyset := fmt.Sprintf("WHERE (m.%s, m.%s) < ($1, $2)", schema.CoreManga.CreatedAt, schema.CoreManga.ID)
		pageQuery = fmt.Sprintf("SELECT %s %s %s %s LIMIT $3", selectColumns, fromJoin, keyset, orderBy)
		args = []any{cursorCreatedAt, cursorID, limit}
	}

	rows, err := repository.pool.Query(context, pageQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_manga_repo_list_failed: %w", err)
	}
	defer rows.Close()

	// ── 3. Hydration ──────────────────────────────────────────────────────

	items := make([]*Manga, 0, limit)
	for rows.Next() {
		entry := &Manga{}
		err := rows.Scan(
			&entry.ID,
			&entry.Title,
			&entry.Description,
			&entry.CoverURL,
			&entry.Categories,
			&entry.Status,
			&entry.AuthorID,
			&entry.Author,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_manga_repo_scan_failed: %w", err)
		}
		items = append(items, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_manga_repo_rows_failed: %w", err)
	}

	return items, nil
}

// FindByID retrieves a single manga record by its UUID.
func (repository *postgresRepository) FindByID(context context.Context, id string) (*Manga, error) {
	query := fmt.Sprintf(`
		SELECT m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, u.%s, m.%s, m.%s
		FROM %s m JOIN %s u ON u.%s = m.%s
		WHERE m.%s = $1`,
		schema.CoreManga.ID, schema.CoreManga.Title, schema.CoreManga.Description,
		schema.CoreManga.CoverURL, schema.CoreManga.Categories, schema.CoreManga.Status,
		schema.CoreManga.AuthorID, schema.UserAccount.DisplayName,
		schema.CoreManga.CreatedAt, schema.CoreManga.UpdatedAt,
		schema.CoreManga.Table, schema.UserAccount.Table,
		schema.UserAccount.ID, schema.CoreManga.AuthorID,
		schema.CoreManga.ID,
	)

	entry := &Manga{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&entry.ID,
		&entry.Title,
		&entry.Description,
		&entry.CoverURL,
		&entry.Categories,
		&entry.Status,
		&entry.AuthorID,
		&entry.Author,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_manga_repo_find_failed: %w", err), "Manga")
	}

	return entry, nil
}

/*
CreateWithFirstChapter persists a new manga and its first chapter atomically.

Description: Runs both inserts in one transaction so a crash between them can
never leave a chapterless title in the catalog. The chapter receives number 1
unconditionally: the manga ID is freshly generated, so no competing insert
can exist yet.

Parameters:
  - context: context.Context
  - entry: *Manga
  - chapter: *FirstChapter

Returns:
  - error: Wrapped constraint or execution failures
*/
func (repository *postgresRepository) CreateWithFirstChapter(context context.Context, entry *Manga, chapter *FirstChapter) error {

	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_manga_repo_tx_begin_failed: %w", err)
	}
	// Rollback is a no-op after a successful commit.
	defer transaction.Rollback(context)

	// ── 1. Manga Row ──────────────────────────────────────────────────────

	mangaInsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.CoreManga.Table,
		schema.CoreManga.ID, schema.CoreManga.Title, schema.CoreManga.Description,
		schema.CoreManga.CoverURL, schema.CoreManga.Categories, schema.CoreManga.Status,
		schema.CoreManga.AuthorID, schema.CoreManga.CreatedAt, schema.CoreManga.UpdatedAt,
	)

	_, err = transaction.Exec(context, mangaInsert,
		entry.ID,
		entry.Title,
		entry.Description,
		entry.CoverURL,
		entry.Categories,
		entry.Status,
		entry.AuthorID,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return apperr.NotFound("Author account")
		}
		return fmt.Errorf("postgres_manga_repo_insert_failed: %w", err)
	}

	// ── 2. First Chapter Row ──────────────────────────────────────────────

	chapterInsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.CoreChapter.Table,
		schema.CoreChapter.ID, schema.CoreChapter.MangaID, schema.CoreChapter.Number,
		schema.CoreChapter.Title, schema.CoreChapter.Pages,
		schema.CoreChapter.CreatedAt, schema.CoreChapter.UpdatedAt,
	)

	_, err = transaction.Exec(context, chapterInsert,
		chapter.ID,
		entry.ID,
		1,
		chapter.Title,
		chapter.Pages,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("postgres_manga_repo_chapter_insert_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_manga_repo_tx_commit_failed: %w", err)
	}

	return nil
}
