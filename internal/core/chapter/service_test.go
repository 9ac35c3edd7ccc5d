// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package chapter_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trannhat/mangahive/internal/core/chapter"
	"github.com/trannhat/mangahive/internal/platform/apperr"
)

const testMangaID = "0190a6e2-1111-7000-8000-000000000001"

// fakeRepository simulates the chapter table, including the unique
// constraint on (mangaid, number) and an optional injected race.
type fakeRepository struct {
	chapters map[int]*chapter.Chapter

	// raceBeforeInserts makes a phantom competitor claim the next number
	// right before each of the first N Create calls.
	raceBeforeInserts int

	mangaExists bool
	creates     int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		chapters:    make(map[int]*chapter.Chapter),
		mangaExists: true,
	}
}

func (f *fakeRepository) MaxNumber(_ context.Context, _ string) (int, error) {
	maxNumber := 0
	for number := range f.chapters {
		if number > maxNumber {
			maxNumber = number
		}
	}
	return maxNumber, nil
}

func (f *fakeRepository) Create(_ context.Context, entry *chapter.Chapter) error {
	f.creates++

	if !f.mangaExists {
		return &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	}

	if f.raceBeforeInserts > 0 {
		f.raceBeforeInserts--
		f.chapters[entry.Number] = &chapter.Chapter{Number: entry.Number, Title: "competitor"}
	}

	if _, taken := f.chapters[entry.Number]; taken {
		return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	}

	f.chapters[entry.Number] = entry
	return nil
}

func (f *fakeRepository) ListByManga(_ context.Context, _ string) ([]*chapter.Summary, error) {
	summaries := make([]*chapter.Summary, 0, len(f.chapters))
	for number := 1; number <= len(f.chapters); number++ {
		if entry, ok := f.chapters[number]; ok {
			summaries = append(summaries, &chapter.Summary{
				ID:        entry.ID,
				MangaID:   entry.MangaID,
				Number:    entry.Number,
				Title:     entry.Title,
				PageCount: len(entry.Pages),
			})
		}
	}
	return summaries, nil
}

func (f *fakeRepository) FindByNumber(_ context.Context, _ string, number int) (*chapter.Chapter, error) {
	if entry, ok := f.chapters[number]; ok {
		return entry, nil
	}
	return nil, apperr.NotFound("Chapter")
}

// fakeUploader records stored and removed objects.
type fakeUploader struct {
	stored  []string
	removed []string
	failAll bool
}

func (f *fakeUploader) Upload(_ context.Context, objectPath string, payload io.Reader, _ int64, _ string) (string, error) {
	if f.failAll {
		return "", errors.New("storage unavailable")
	}
	if _, err := io.Copy(io.Discard, payload); err != nil {
		return "", err
	}
	f.stored = append(f.stored, objectPath)
	return "https://cdn.test/bucket/" + objectPath, nil
}

func (f *fakeUploader) Remove(_ context.Context, objectPath string) error {
	f.removed = append(f.removed, objectPath)
	return nil
}

func newTestService(repo *fakeRepository, uploader *fakeUploader) *chapter.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return chapter.NewService(repo, uploader, logger)
}

func pages(urls ...string) []string { return urls }

func TestService_NextNumber(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, &fakeUploader{})

	// A brand-new manga starts at 1.
	next, err := service.NextNumber(context.Background(), testMangaID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	// Existing chapters 1..3 yield 4.
	for i := 1; i <= 3; i++ {
		repo.chapters[i] = &chapter.Chapter{Number: i}
	}
	next, err = service.NextNumber(context.Background(), testMangaID)
	require.NoError(t, err)
	assert.Equal(t, 4, next)
}

func TestService_CreateChapter_SequentialNumbers(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, &fakeUploader{})

	for want := 1; want <= 3; want++ {
		entry, err := service.CreateChapter(context.Background(), testMangaID, "Chapter", pages("u1"))
		require.NoError(t, err)
		assert.Equal(t, want, entry.Number)
	}
}

func TestService_CreateChapter_RetriesLostRace(t *testing.T) {
	repo := newFakeRepository()
	repo.raceBeforeInserts = 1
	service := newTestService(repo, &fakeUploader{})

	entry, err := service.CreateChapter(context.Background(), testMangaID, "Raced", pages("u1"))

	require.NoError(t, err)
	// The competitor took number 1; the retry lands on 2.
	assert.Equal(t, 2, entry.Number)
	assert.Equal(t, 2, repo.creates)
}

func TestService_CreateChapter_ExhaustedRetriesConflict(t *testing.T) {
	repo := newFakeRepository()
	repo.raceBeforeInserts = 10 // Lose every attempt.
	service := newTestService(repo, &fakeUploader{})

	_, err := service.CreateChapter(context.Background(), testMangaID, "Contested", pages("u1"))

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.Equal(t, 3, repo.creates)
}

func TestService_CreateChapter_EmptyPagesRejected(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, &fakeUploader{})

	_, err := service.CreateChapter(context.Background(), testMangaID, "Empty", nil)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Zero(t, repo.creates)
}

func TestService_CreateChapter_UnknownMangaNotFound(t *testing.T) {
	repo := newFakeRepository()
	repo.mangaExists = false
	service := newTestService(repo, &fakeUploader{})

	_, err := service.CreateChapter(context.Background(), testMangaID, "Orphan", pages("u1"))

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

func TestService_FindByNumber(t *testing.T) {
	repo := newFakeRepository()
	repo.chapters[2] = &chapter.Chapter{MangaID: testMangaID, Number: 2, Pages: pages("a", "b")}
	service := newTestService(repo, &fakeUploader{})

	entry, err := service.FindByNumber(context.Background(), testMangaID, 2)
	require.NoError(t, err)
	assert.Len(t, entry.Pages, 2)

	_, err = service.FindByNumber(context.Background(), testMangaID, 9)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	_, err = service.FindByNumber(context.Background(), testMangaID, 0)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func pageUpload(content string) chapter.PageUpload {
	return chapter.PageUpload{
		Payload:     strings.NewReader(content),
		Size:        int64(len(content)),
		ContentType: "image/jpeg",
	}
}

func TestService_AddChapter_UploadsThenInserts(t *testing.T) {
	repo := newFakeRepository()
	uploader := &fakeUploader{}
	service := newTestService(repo, uploader)

	entry, err := service.AddChapter(context.Background(), testMangaID, "Uploaded",
		[]chapter.PageUpload{pageUpload("p1"), pageUpload("p2")})

	require.NoError(t, err)
	assert.Equal(t, 1, entry.Number)
	require.Len(t, entry.Pages, 2)
	assert.Contains(t, entry.Pages[0], "page1.jpeg")
	assert.Contains(t, entry.Pages[1], "page2.jpeg")
	assert.Empty(t, uploader.removed)
}

func TestService_AddChapter_StorageFailureLeavesNoRecord(t *testing.T) {
	repo := newFakeRepository()
	uploader := &fakeUploader{failAll: true}
	service := newTestService(repo, uploader)

	_, err := service.AddChapter(context.Background(), testMangaID, "Doomed",
		[]chapter.PageUpload{pageUpload("p1")})

	require.Error(t, err)
	assert.Equal(t, "UPSTREAM_ERROR", apperr.As(err).Code)
	assert.Zero(t, repo.creates)
}
