// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package chapter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/trannhat/mangahive/internal/platform/apperr"
	"github.com/trannhat/mangahive/internal/platform/constants"
	"github.com/trannhat/mangahive/internal/platform/dberr"
	"github.com/trannhat/mangahive/internal/platform/objstore"
	"github.com/trannhat/mangahive/internal/platform/validate"
	"github.com/trannhat/mangahive/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates chapter sequencing and retrieval.
type Service struct {
	repository Repository
	uploader   objstore.Uploader
	logger     *slog.Logger
}

// NewService constructs a new chapter [Service].
func NewService(repository Repository, uploader objstore.Uploader, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		uploader:   uploader,
		logger:     logger,
	}
}

// # Sequencing

// NextNumber returns the number the next chapter of a manga will receive:
// max(number)+1, or 1 for a manga without chapters.
func (service *Service) NextNumber(context context.Context, mangaID string) (int, error) {
	maxNumber, err := service.repository.MaxNumber(context, mangaID)
	if err != nil {
		return 0, err
	}
	return maxNumber + 1, nil
}

/*
CreateChapter appends a chapter to a manga with a server-assigned number.

Description: The number is recomputed inside the insert loop. When a
concurrent upload wins the (mangaid, number) slot, the unique violation is
caught, the number recomputed, and the insert retried. After
[constants.ChapterNumberMaxRetries] lost races the operation gives up with a
Conflict so the client can resubmit.

Parameters:
  - context: context.Context
  - mangaID: string (UUID of an existing manga)
  - title: string
  - pageURLs: []string (Ordered, already-stored page image URLs)

Returns:
  - *Chapter: The persisted chapter with its final number
  - error: apperr.ValidationError for empty pageURLs, apperr.NotFound for an
    unknown manga, apperr.Conflict when retries are exhausted
*/
func (service *Service) CreateChapter(context context.Context, mangaID, title string, pageURLs []string) (*Chapter, error) {

	// ── 1. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.
		Required(FieldMangaID, mangaID).
		UUID(FieldMangaID, mangaID).
		NotEmptySlice(FieldPages, len(pageURLs))

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Sequenced Insert ───────────────────────────────────────────────

	for attempt := 0; attempt < constants.ChapterNumberMaxRetries; attempt++ {

		number, err := service.NextNumber(context, mangaID)
		if err != nil {
			return nil, err
		}

		entry := &Chapter{
			ID:      uuidv7.New(),
			MangaID: mangaID,
			Number:  number,
			Title:   title,
			Pages:   pageURLs,
		}

		err = service.repository.Create(context, entry)
		if err == nil {
			return entry, nil
		}

		if dberr.IsForeignKeyViolation(err) {
			return nil, apperr.NotFound("Manga")
		}

		if dberr.IsUniqueViolation(err) {
			// Lost the number race; recompute and try again.
			service.logger.Debug("chapter_number_race_lost",
				slog.String("manga_id", mangaID),
				slog.Int("number", number),
				slog.Int("attempt", attempt+1),
			)
			continue
		}

		return nil, fmt.Errorf("chapter_service_create_failed: %w", err)
	}

	return nil, apperr.Conflict("Chapter numbering contention, please retry")
}

// # Retrieval

// ListByManga returns all chapters of a manga as summaries, ascending by number.
func (service *Service) ListByManga(context context.Context, mangaID string) ([]*Summary, error) {
	return service.repository.ListByManga(context, mangaID)
}

// FindByNumber returns one full chapter with its page URLs.
func (service *Service) FindByNumber(context context.Context, mangaID string, number int) (*Chapter, error) {
	if number < 1 {
		return nil, apperr.ValidationError("Chapter numbers start at 1", apperr.FieldError{
			Field:   FieldNumber,
			Message: "must be a positive integer",
		})
	}
	return service.repository.FindByNumber(context, mangaID, number)
}

// # Chapter Intake

// PageUpload carries one in-flight page image from the multipart form.
type PageUpload struct {
	Payload     io.Reader
	Size        int64
	ContentType string
}

/*
AddChapter stores the page images of a new chapter and appends it.

Description: Pages are pushed to object storage concurrently under a shared
deadline before the row is inserted. Object paths use the provisional next
number at upload time; if a concurrent upload shifts the final number, the
stored URLs remain valid because chapters reference pages by URL, never by
path convention. Any upload failure aborts with best-effort object cleanup
and no database record.

Parameters:
  - context: context.Context
  - mangaID: string
  - title: string
  - pages: []PageUpload (Ordered image streams)

Returns:
  - *Chapter: The persisted chapter
  - error: Validation, upstream storage, or sequencing errors
*/
func (service *Service) AddChapter(context context.Context, mangaID, title string, pages []PageUpload) (*Chapter, error) {

	// ── 1. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.
		Required(FieldMangaID, mangaID).
		UUID(FieldMangaID, mangaID).
		NotEmptySlice(FieldPages, len(pages))

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Object Storage ─────────────────────────────────────────────────

	provisionalNumber, err := service.NextNumber(context, mangaID)
	if err != nil {
		return nil, err
	}

	pageURLs, pagePaths, err := service.uploadPages(context, mangaID, provisionalNumber, pages)
	if err != nil {
		service.cleanupObjects(pagePaths)
		return nil, apperr.Upstream(fmt.Errorf("chapter_service_page_upload_failed: %w", err))
	}

	// ── 3. Sequenced Insert ───────────────────────────────────────────────

	entry, err := service.CreateChapter(context, mangaID, title, pageURLs)
	if err != nil {
		service.cleanupObjects(pagePaths)
		return nil, err
	}

	return entry, nil
}

// uploadPages pushes page images concurrently, preserving page order in the
// returned URL slice.
func (service *Service) uploadPages(parent context.Context, mangaID string, chapterNumber int, pages []PageUpload) ([]string, []string, error) {

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

// cleanupObjects removes stored objects after a failed intake, best-effort.
func (service *Service) cleanupObjects(objectPaths []string) {
	cleanupCtx, cancel := context.WithTimeout(context.Background(), constants.UploadTimeout)
	defer cancel()

	for _, objectPath := range objectPaths {
		if objectPath == "" {
			continue
		}
		if err := service.uploader.Remove(cleanupCtx, objectPath); err != nil {
			service.logger.Warn("chapter_upload_cleanup_failed",
				slog.String("object_path", objectPath),
				slog.Any("error", err),
			)
		}
	}
}
