// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

// HTTP delivery layer for the catalog.
//
// Handlers parse and validate the wire payloads, call the service layer,
// and shape responses via the [respond] package. They contain NO business
// logic or database queries.
package manga

import (
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/trannhat/mangahive/internal/platform/constants"
	requestutil "github.com/trannhat/mangahive/internal/platform/request"
	"github.com/trannhat/mangahive/internal/platform/respond"
	"github.com/trannhat/mangahive/internal/platform/validate"
	"github.com/trannhat/mangahive/pkg/pagination"
	"github.com/trannhat/mangahive/pkg/query"
)

// Handler implements catalog-related HTTP endpoints.
type Handler struct {
	mangaService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{mangaService: service}
}

// listResponse is the wire shape of the catalog page.
type listResponse struct {
	Manga      []*Manga `json:"manga"`
	NextCursor *string  `json:"nextCursor"`
}

// List handles GET /api/manga requests.
//
// # Returns
//   - Writes HTTP 200 OK with {manga, nextCursor}.
//   - Writes HTTP 400 Bad Request for an unknown cursor.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	items, nextCursor, err := handler.mangaService.ListManga(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, listResponse{
		Manga:      items,
		NextCursor: nextCursor,
	})
}

// Get handles GET /api/manga/{mangaId} requests.
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.Param(request, "mangaId")

	validator := &validate.Validator{}
	if err := validator.UUID("mangaId", mangaID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.mangaService.GetManga(request.Context(), mangaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// Upload handles POST /api/upload-manga requests.
//
// # Form Fields
//   - title, description, chapterTitle : text values
//   - categories                       : JSON array (or comma-separated fallback)
//   - coverImage                       : single image file
//   - chapterPages                     : ordered image files
//
// # Returns
//   - Writes HTTP 201 Created with the PENDING catalog entry.
//   - Writes HTTP 400 Bad Request for a missing title or cover image.
//   - Writes HTTP 502 Bad Gateway when object storage rejects an image.
//
// Authentication and the admin requirement are enforced by route middleware.
func (handler *Handler) Upload(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Form Extraction ────────────────────────────────────────────────

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBodySize)
	if err := request.ParseMultipartForm(constants.MaxUploadMemory); err != nil {
		respond.Error(writer, request, validate.ErrInvalidForm)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cover, coverHeader, coverErr := request.FormFile(FieldCover)
	if coverErr == nil {
		defer cover.Close()
	}

	pageFiles := request.MultipartForm.File[FieldPages]

	// ── 2. Input Assembly ─────────────────────────────────────────────────

	input := UploadInput{
		Title:        request.FormValue(FieldTitle),
		Description:  request.FormValue("description"),
		Categories:   parseCategories(request.FormValue(FieldCategories)),
		AuthorID:     claims.UserID,
		ChapterTitle: request.FormValue("chapterTitle"),
	}

	if coverErr == nil {
		input.Cover = &FileUpload{
			Payload:     cover,
			Size:        coverHeader.Size,
			ContentType: coverHeader.Header.Get("Content-Type"),
		}
	}

	pages, closePages, err := openPageFiles(pageFiles)
	if err != nil {
		respond.Error(writer, request, validate.ErrInvalidForm)
		return
	}
	defer closePages()
	input.Pages = pages

	// ── 3. Application Execution ──────────────────────────────────────────

	entry, err := handler.mangaService.UploadManga(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, entry)
}

// parseCategories accepts a JSON string array, falling back to a
// comma-separated list for plain HTML form clients.
func parseCategories(raw string) []string {
	if raw == "" {
		return nil
	}

	var categories []string
	if err := json.Unmarshal([]byte(raw), &categories); err == nil {
		return categories
	}

	return query.StringSlice(raw)
}

// openPageFiles opens every uploaded page in form order. The returned
// closer releases all of them once the service has consumed the streams.
func openPageFiles(headers []*multipart.FileHeader) ([]FileUpload, func(), error) {
	pages := make([]FileUpload, 0, len(headers))
	open := make([]multipart.File, 0, len(headers))

	closeAll := func() {
		for _, file := range open {
			file.Close()
		}
	}

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		open = append(open, file)
		pages = append(pages, FileUpload{
			Payload:     file,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
		})
	}

	return pages, closeAll, nil
}
