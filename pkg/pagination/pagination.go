// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Catalog listings navigate with an opaque cursor (the identifier of the last
// item returned) instead of page offsets, so concurrent inserts cannot shift
// page boundaries. This package standardizes how the cursor and page size are
// requested via query parameters.
package pagination

import (
	"net/http"

	"github.com/trannhat/mangahive/pkg/convert"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 50
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
)

// Params holds the parsed cursor and limit from a request's query string.
type Params struct {
	// Cursor is the identifier of the last item of the previous page.
	// Empty means "start from the newest record".
	Cursor string
	// Limit bounds the page size.
	Limit int
}

// FromRequest parses "cursor" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid, negative, or excessive limit values are automatically clamped to
// [DefaultLimit] or [MaxLimit]. The cursor is passed through opaquely.
func FromRequest(r *http.Request) Params {
	limit := convert.ToIntD(r.URL.Query().Get("limit"), DefaultLimit)

	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  limit,
	}
}

// NextCursor derives the follow-up cursor for a page of results.
//
// It returns the lastID when the page is full (more records may follow) and
// nil when fewer than limit items were returned, signaling end-of-catalog.
func NextCursor(returned, limit int, lastID string) *string {
	if returned == limit && lastID != "" {
		return &lastID
	}
	return nil
}
