// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trannhat/mangahive/pkg/pagination"
)

/*
TestFromRequest verifies cursor pass-through and limit clamping.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantCursor string
		wantLimit  int
	}{
		{"defaults", "/api/manga", "", pagination.DefaultLimit},
		{"explicit", "/api/manga?cursor=abc&limit=20", "abc", 20},
		{"limit_zero_clamped", "/api/manga?limit=0", "", pagination.DefaultLimit},
		{"limit_negative_clamped", "/api/manga?limit=-5", "", pagination.DefaultLimit},
		{"limit_excessive_clamped", "/api/manga?limit=9999", "", pagination.MaxLimit},
		{"limit_garbage_defaulted", "/api/manga?limit=fifty", "", pagination.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", tt.url, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, tt.wantCursor, params.Cursor)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

/*
TestNextCursor checks the full-page/partial-page cursor rule: the next
cursor is non-nil iff exactly limit items were returned.
*/
func TestNextCursor(t *testing.T) {
	t.Run("full_page_yields_cursor", func(t *testing.T) {
		next := pagination.NextCursor(50, 50, "last-id")
		require.NotNil(t, next)
		assert.Equal(t, "last-id", *next)
	})

	t.Run("partial_page_yields_nil", func(t *testing.T) {
		assert.Nil(t, pagination.NextCursor(12, 50, "last-id"))
	})

	t.Run("empty_page_yields_nil", func(t *testing.T) {
		assert.Nil(t, pagination.NextCursor(0, 50, ""))
	})
}
