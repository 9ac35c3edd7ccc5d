// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package chapter

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trannhat/mangahive/internal/platform/database/schema"
	"github.com/trannhat/mangahive/internal/platform/dberr"
)

// # PostgreSQL Repository

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed chapter store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// MaxNumber returns the highest chapter number of a manga, 0 when none exist.
func (repository *postgresRepository) MaxNumber(context context.Context, mangaID string) (int, error) {
	query := fmt.Sprintf(
		"SELECT COALESCE(MAX(%s), 0) FROM %s WHERE %s = $1",
		schema.CoreChapter.Number, schema.CoreChapter.Table, schema.CoreChapter.MangaID,
	)

	var maxNumber int
	if err := repository.pool.QueryRow(context, query, mangaID).Scan(&maxNumber); err != nil {
		return 0, fmt.Errorf("postgres_chapter_repo_max_number_failed: %w", err)
	}

	return maxNumber, nil
}

// Create persists a new chapter row.
//
// Unique and foreign-key violations are returned unwrapped inside the error
// chain so the service can classify them with dberr and decide whether to
// retry with a fresh number.
func (repository *postgresRepository) Create(context context.Context, chapter *Chapter) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.CoreChapter.Table,
		schema.CoreChapter.ID, schema.CoreChapter.MangaID, schema.CoreChapter.Number,
		schema.CoreChapter.Title, schema.CoreChapter.Pages,
		schema.CoreChapter.CreatedAt, schema.CoreChapter.UpdatedAt,
	)

	now := time.Now()
	if chapter.CreatedAt.IsZero() {
		chapter.CreatedAt = now
	}

	_, err := repository.pool.Exec(context, query,
		chapter.ID,
		chapter.MangaID,
		chapter.Number,
		chapter.Title,
		chapter.Pages,
		chapter.CreatedAt,
		now,
	)
	if err != nil {
		return fmt.Errorf("postgres_chapter_repo_create_failed: %w", err)
	}

	return nil
}

// ListByManga returns chapter summaries ordered by ascending number.
func (repository *postgresRepository) ListByManga(context context.Context, mangaID string) ([]*Summary, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, COALESCE(array_length(%s, 1), 0), %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC`,
		schema.CoreChapter.ID, schema.CoreChapter.MangaID, schema.CoreChapter.Number,
		schema.CoreChapter.Title, schema.CoreChapter.Pages, schema.CoreChapter.CreatedAt,
		schema.CoreChapter.Table,
		schema.CoreChapter.MangaID,
		schema.CoreChapter.Number,
	)

	rows, err := repository.pool.Query(context, query, mangaID)
	if err != nil {
		return nil, fmt.Errorf("postgres_chapter_repo_list_failed: %w", err)
	}
	defer rows.Close()

	summaries := make([]*Summary, 0)
	for rows.Next() {
		summary := &Summary{}
		err := rows.Scan(
			&summary.ID,
			&summary.MangaID,
			&summary.Number,
			&summary.Title,
			&summary.PageCount,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_chapter_repo_scan_failed: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_chapter_repo_rows_failed: %w", err)
	}

	return summaries, nil
}

// FindByNumber returns the full chapter including its page URLs.
func (repository *postgresRepository) FindByNumber(context context.Context, mangaID string, number int) (*Chapter, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2`,
		schema.CoreChapter.ID, schema.CoreChapter.MangaID, schema.CoreChapter.Number,
		schema.CoreChapter.Title, schema.CoreChapter.Pages, schema.CoreChapter.CreatedAt,
		schema.CoreChapter.Table,
		schema.CoreChapter.MangaID, schema.CoreChapter.Number,
	)

	chapter := &Chapter{}
	err := repository.pool.QueryRow(context, query, mangaID, number).Scan(
		&chapter.ID,
		&chapter.MangaID,
		&chapter.Number,
		&chapter.Title,
		&chapter.Pages,
		&chapter.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_chapter_repo_find_failed: %w", err), "Chapter")
	}

	return chapter, nil
}
