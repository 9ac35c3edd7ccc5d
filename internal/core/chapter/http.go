// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

// HTTP delivery layer for chapters.
package chapter

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trannhat/mangahive/internal/platform/constants"
	requestutil "github.com/trannhat/mangahive/internal/platform/request"
	"github.com/trannhat/mangahive/internal/platform/respond"
	"github.com/trannhat/mangahive/internal/platform/validate"
	"github.com/trannhat/mangahive/pkg/convert"
)

// Handler implements chapter-related HTTP endpoints.
type Handler struct {
	chapterService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{chapterService: service}
}

// Routes returns a [chi.Router] for chapter reads, mounted below a manga.
//
// # Endpoints
//   - GET /          : All chapters of the manga, ascending by number.
//   - GET /{number}  : One full chapter with page URLs.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{number}", handler.get)

	return router
}

// listResponse is the wire shape of the chapter listing.
type listResponse struct {
	Chapters []*Summary `json:"chapters"`
}

// list handles GET /api/manga/{mangaId}/chapters requests.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.Param(request, "mangaId")

	validator := &validate.Validator{}
	if err := validator.UUID(FieldMangaID, mangaID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	summaries, err := handler.chapterService.ListByManga(request.Context(), mangaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, listResponse{Chapters: summaries})
}

// get handles GET /api/manga/{mangaId}/chapters/{number} requests.
//
// # Returns
//   - Writes HTTP 200 OK with the full chapter, pages included.
//   - Writes HTTP 404 Not Found for an unknown manga/number pair.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.Param(request, "mangaId")
	number := convert.ToInt(requestutil.Param(request, FieldNumber))

	validator := &validate.Validator{}
	validator.
		UUID(FieldMangaID, mangaID).
		Custom(FieldNumber, number < 1, "must be a positive integer")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.chapterService.FindByNumber(request.Context(), mangaID, number)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// Add handles POST /api/manga/add-chapter requests.
//
// # Form Fields
//   - mangaId        : UUID of the target manga
//   - title          : chapter title
//   - number         : accepted for wire compatibility but IGNORED — the
//     sequencer assigns the number server-side
//   - page0..pageN   : ordered page image files
//
// # Returns
//   - Writes HTTP 201 Created with the persisted chapter and final number.
//   - Writes HTTP 404 Not Found for an unknown manga.
//   - Writes HTTP 409 Conflict when numbering contention persists.
//
// Authentication and the admin requirement are enforced by route middleware.
func (handler *Handler) Add(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Form Extraction ────────────────────────────────────────────────

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBodySize)
	if err := request.ParseMultipartForm(constants.MaxUploadMemory); err != nil {
		respond.Error(writer, request, validate.ErrInvalidForm)
		return
	}

	mangaID := request.FormValue(FieldMangaID)
	title := request.FormValue("title")

	pages, closePages, err := openIndexedPages(request.MultipartForm)
	if err != nil {
		respond.Error(writer, request, validate.ErrInvalidForm)
		return
	}
	defer closePages()

	// ── 2. Application Execution ──────────────────────────────────────────

	entry, err := handler.chapterService.AddChapter(request.Context(), mangaID, title, pages)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, entry)
}

// openIndexedPages opens page0, page1, ... in order until the sequence
// breaks. The returned closer releases every opened file.
func openIndexedPages(form *multipart.Form) ([]PageUpload, func(), error) {
	var pages []PageUpload
	var open []multipart.File

	closeAll := func() {
		for _, file := range open {
			file.Close()
		}
	}

	for index := 0; ; index++ {
		headers, found := form.File[fmt.Sprintf("page%d", index)]
		if !found || len(headers) == 0 {
			break
		}

		file, err := headers[0].Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}

		open = append(open, file)
		pages = append(pages, PageUpload{
			Payload:     file,
			Size:        headers[0].Size,
			ContentType: headers[0].Header.Get("Content-Type"),
		})
	}

	return pages, closeAll, nil
}
