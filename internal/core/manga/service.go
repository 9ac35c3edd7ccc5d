// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package manga

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/trannhat/mangahive/internal/platform/apperr"
	"github.com/trannhat/mangahive/internal/platform/constants"
	"github.com/trannhat/mangahive/internal/platform/objstore"
	"github.com/trannhat/mangahive/internal/platform/validate"
	"github.com/trannhat/mangahive/pkg/pagination"
	"github.com/trannhat/mangahive/pkg/slug"
	"github.com/trannhat/mangahive/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates the business logic for the manga catalog.
type Service struct {
	repository Repository
	uploader   objstore.Uploader
	logger     *slog.Logger
}

// NewService constructs a new catalog [Service].
func NewService(repository Repository, uploader objstore.Uploader, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		uploader:   uploader,
		logger:     logger,
	}
}

// # Catalog Lookups

/*
ListManga retrieves one page of the catalog in newest-first order.

Description: Pagination is keyset-based. The returned nextCursor is the ID of
the last item when the page is full, and nil when the catalog is exhausted.
A full page whose final item happens to be the very last record yields a
non-nil cursor whose follow-up request returns an empty page; clients treat
the empty page as the end.

Parameters:
  - context: context.Context
  - params: pagination.Params (Cursor and clamped limit)

Returns:
  - []*Manga: Page of catalog records, newest first
  - *string: Cursor for the next page, nil at end-of-catalog
  - error: Storage failures; never a silently empty page
*/
func (service *Service) ListManga(context context.Context, params pagination.Params) ([]*Manga, *string, error) {
	items, err := service.repository.List(context, params.Cursor, params.Limit)
	if err != nil {
		return nil, nil, err
	}

	var lastID string
	if len(items) > 0 {
		lastID = items[len(items)-1].ID
	}

	return items, pagination.NextCursor(len(items), params.Limit, lastID), nil
}

// GetManga fetches a single publication record by UUID.
func (service *Service) GetManga(context context.Context, id string) (*Manga, error) {
	return service.repository.FindByID(context, id)
}

// # Manga Intake

// FileUpload carries one in-flight image from the multipart form.
type FileUpload struct {
	Payload     io.Reader
	Size        int64
	ContentType string
}

// UploadInput holds everything required to create a manga with its first chapter.
type UploadInput struct {
	Title        string
	Description  string
	Categories   []string
	AuthorID     string
	Cover        *FileUpload
	ChapterTitle string
	Pages        []FileUpload
}

/*
UploadManga creates a new manga, its first chapter, and all of its images.

Description: The intake is all-or-nothing. Images are pushed to object
storage first (pages concurrently), and only when every object exists are
the manga and chapter rows inserted in one transaction. Any failure aborts
the flow, removes already-stored objects on a best-effort basis, and leaves
no database record behind.

Parameters:
  - context: context.Context
  - input: UploadInput (Metadata and multipart image streams)

Returns:
  - *Manga: The persisted catalog entry with status PENDING
  - error: apperr.ValidationError for missing title/cover/pages,
    apperr.Upstream for storage failures, or persistence errors

Business Rules:
  - New titles always enter the catalog as PENDING.
  - The first chapter always receives number 1.
*/
func (service *Service) UploadManga(context context.Context, input UploadInput) (*Manga, error) {

	// ── 1. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.
		Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 500).
		Custom(FieldCover, input.Cover == nil, "A cover image is required").
		NotEmptySlice(FieldPages, len(input.Pages))

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Identity ───────────────────────────────────────────────────────

	mangaID := uuidv7.New()
	chapterID := uuidv7.New()
	titleSlug := slug.From(input.Title)

	// ── 3. Object Storage ─────────────────────────────────────────────────

	// Track every stored object so a late failure can clean up.
	var storedPaths []string

	coverPath := objstore.CoverPath(titleSlug, objstore.ExtFromContentType(input.Cover.ContentType))
	coverURL, err := service.uploader.Upload(context, coverPath, input.Cover.Payload, input.Cover.Size, input.Cover.ContentType)
	if err != nil {
		return nil, apperr.Upstream(fmt.Errorf("manga_service_cover_upload_failed: %w", err))
	}
	storedPaths = append(storedPaths, coverPath)

	pageURLs, pagePaths, err := service.uploadPages(context, mangaID, 1, input.Pages)
	storedPaths = append(storedPaths, pagePaths...)
	if err != nil {
		service.cleanupObjects(storedPaths)
		return nil, apperr.Upstream(fmt.Errorf("manga_service_page_upload_failed: %w", err))
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	entry := &Manga{
		ID:          mangaID,
		Title:       input.Title,
		Description: input.Description,
		CoverURL:    coverURL,
		Categories:  input.Categories,
		Status:      StatusPending,
		AuthorID:    input.AuthorID,
	}

	chapter := &FirstChapter{
		ID:    chapterID,
		Title: input.ChapterTitle,
		Pages: pageURLs,
	}

	if err := service.repository.CreateWithFirstChapter(context, entry, chapter); err != nil {
		service.cleanupObjects(storedPaths)
		return nil, err
	}

	return entry, nil
}

/*
uploadPages pushes every page image to object storage concurrently.

Description: Page uploads are independent, so they run in parallel under a
shared deadline. The returned URL slice preserves the original page order
regardless of upload completion order. On error the path slice still lists
every object that may have been stored, so the caller can clean up.
*/
func (service *Service) uploadPages(parent context.Context, mangaID string, chapterNumber int, pages []FileUpload) ([]string, []string, error) {

	uploadCtx, cancel := context.WithTimeout(parent, constants.UploadTimeout)
	defer cancel()

	group, groupCtx := errgroup.WithContext(uploadCtx)

	pageURLs := make([]string, len(pages))
	pagePaths := make([]string, len(pages))

	for index, page := range pages {
		objectPath := objstore.PagePath(mangaID, chapterNumber, index+1, objstore.ExtFromContentType(page.ContentType))
		pagePaths[index] = objectPath

		group.Go(func() error {
			url, err := service.uploader.Upload(groupCtx, objectPath, page.Payload, page.Size, page.ContentType)
			if err != nil {
				return fmt.Errorf("page %d: %w", index+1, err)
			}
			pageURLs[index] = url
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, pagePaths, err
	}

	return pageURLs, pagePaths, nil
}

// cleanupObjects removes stored objects after a failed intake. Removal is
// best-effort: leftover objects are logged, never surfaced to the client.
func (service *Service) cleanupObjects(objectPaths []string) {
	// Detached from the request context so cancellation cannot strand objects.
	cleanupCtx, cancel := context.WithTimeout(context.Background(), constants.UploadTimeout)
	defer cancel()

	for _, objectPath := range objectPaths {
		if err := service.uploader.Remove(cleanupCtx, objectPath); err != nil {
			service.logger.Warn("manga_upload_cleanup_failed",
				slog.String("object_path", objectPath),
				slog.Any("error", err),
			)
		}
	}
}
