// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package manga_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trannhat/mangahive/internal/core/manga"
	"github.com/trannhat/mangahive/internal/platform/apperr"
	"github.com/trannhat/mangahive/pkg/pagination"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	listItems []*manga.Manga
	listErr   error
	gotCursor string
	gotLimit  int
	created   *manga.Manga
	chapter   *manga.FirstChapter
	createErr error
}

func (f *fakeRepository) List(_ context.Context, cursor string, limit int) ([]*manga.Manga, error) {
	f.gotCursor = cursor
	f.gotLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit < len(f.listItems) {
		return f.listItems[:limit], nil
	}
	return f.listItems, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*manga.Manga, error) {
	for _, item := range f.listItems {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, apperr.NotFound("Manga")
}

func (f *fakeRepository) CreateWithFirstChapter(_ context.Context, entry *manga.Manga, chapter *manga.FirstChapter) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = entry
	f.chapter = chapter
	return nil
}

// fakeUploader records stored and removed objects.
type fakeUploader struct {
	stored  []string
	removed []string
	failOn  string // object path substring that triggers a failure
}

func (f *fakeUploader) Upload(_ context.Context, objectPath string, payload io.Reader, _ int64, _ string) (string, error) {
	if f.failOn != "" && strings.Contains(objectPath, f.failOn) {
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

func newTestService(repo *fakeRepository, uploader *fakeUploader) *manga.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return manga.NewService(repo, uploader, logger)
}

func catalogOf(n int) []*manga.Manga {
	items := make([]*manga.Manga, n)
	for i := range items {
		items[i] = &manga.Manga{ID: fmt.Sprintf("id-%03d", i), Title: fmt.Sprintf("Title %d", i)}
	}
	return items
}

func TestService_ListManga_FullPageYieldsCursor(t *testing.T) {
	repo := &fakeRepository{listItems: catalogOf(51)}
	service := newTestService(repo, &fakeUploader{})

	items, nextCursor, err := service.ListManga(context.Background(), pagination.Params{Limit: 50})

	require.NoError(t, err)
	assert.Len(t, items, 50)
	require.NotNil(t, nextCursor)
	assert.Equal(t, items[49].ID, *nextCursor)
}

func TestService_ListManga_ShortPageEndsCatalog(t *testing.T) {
	repo := &fakeRepository{listItems: catalogOf(7)}
	service := newTestService(repo, &fakeUploader{})

	items, nextCursor, err := service.ListManga(context.Background(), pagination.Params{Limit: 50})

	require.NoError(t, err)
	assert.Len(t, items, 7)
	assert.Nil(t, nextCursor)
}

func TestService_ListManga_EmptyCatalog(t *testing.T) {
	repo := &fakeRepository{}
	service := newTestService(repo, &fakeUploader{})

	items, nextCursor, err := service.ListManga(context.Background(), pagination.Params{Limit: 50})

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Nil(t, nextCursor)
}

func TestService_ListManga_StorageErrorPropagates(t *testing.T) {
	repo := &fakeRepository{listErr: errors.New("connection refused")}
	service := newTestService(repo, &fakeUploader{})

	items, nextCursor, err := service.ListManga(context.Background(), pagination.Params{Limit: 50})

	// A failing store must never masquerade as an empty catalog.
	require.Error(t, err)
	assert.Nil(t, items)
	assert.Nil(t, nextCursor)
}

func pageUpload(content string) manga.FileUpload {
	return manga.FileUpload{
		Payload:     strings.NewReader(content),
		Size:        int64(len(content)),
		ContentType: "image/png",
	}
}

func validUploadInput() manga.UploadInput {
	cover := pageUpload("cover-bytes")
	return manga.UploadInput{
		Title:        "Solo Leveling",
		Description:  "A hunter rises.",
		Categories:   []string{"action", "fantasy"},
		AuthorID:     "author-1",
		Cover:        &cover,
		ChapterTitle: "Awakening",
		Pages:        []manga.FileUpload{pageUpload("p1"), pageUpload("p2"), pageUpload("p3")},
	}
}

func TestService_UploadManga_Success(t *testing.T) {
	repo := &fakeRepository{}
	uploader := &fakeUploader{}
	service := newTestService(repo, uploader)

	entry, err := service.UploadManga(context.Background(), validUploadInput())

	require.NoError(t, err)
	assert.Equal(t, manga.StatusPending, entry.Status)
	assert.Equal(t, "author-1", entry.AuthorID)
	assert.Contains(t, entry.CoverURL, "manga/solo-leveling/cover.png")

	require.NotNil(t, repo.created)
	require.NotNil(t, repo.chapter)
	assert.Equal(t, "Awakening", repo.chapter.Title)
	require.Len(t, repo.chapter.Pages, 3)

	// Page order survives the concurrent upload.
	for i, url := range repo.chapter.Pages {
		assert.Contains(t, url, fmt.Sprintf("page%d.png", i+1))
	}
	assert.Empty(t, uploader.removed)
}

func TestService_UploadManga_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*manga.UploadInput)
		field  string
	}{
		{"missing_title", func(in *manga.UploadInput) { in.Title = "" }, "title"},
		{"missing_cover", func(in *manga.UploadInput) { in.Cover = nil }, "coverImage"},
		{"no_pages", func(in *manga.UploadInput) { in.Pages = nil }, "chapterPages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			uploader := &fakeUploader{}
			service := newTestService(repo, uploader)

			input := validUploadInput()
			tt.mutate(&input)

			_, err := service.UploadManga(context.Background(), input)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			require.NotEmpty(t, ae.Details)
			assert.Equal(t, tt.field, ae.Details[0].Field)

			// Nothing may reach storage or the database.
			assert.Empty(t, uploader.stored)
			assert.Nil(t, repo.created)
		})
	}
}

func TestService_UploadManga_PageFailureCleansUp(t *testing.T) {
	repo := &fakeRepository{}
	uploader := &fakeUploader{failOn: "page2"}
	service := newTestService(repo, uploader)

	_, err := service.UploadManga(context.Background(), validUploadInput())

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UPSTREAM_ERROR", ae.Code)

	// No database record, and stored objects were swept.
	assert.Nil(t, repo.created)
	assert.Contains(t, uploader.removed, "manga/solo-leveling/cover.png")
}

func TestService_UploadManga_PersistenceFailureCleansUp(t *testing.T) {
	repo := &fakeRepository{createErr: errors.New("deadlock detected")}
	uploader := &fakeUploader{}
	service := newTestService(repo, uploader)

	_, err := service.UploadManga(context.Background(), validUploadInput())

	require.Error(t, err)
	assert.Nil(t, repo.created)

	// Cover plus all three pages are removed again.
	assert.Len(t, uploader.removed, 4)
}
