// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trannhat/mangahive/internal/platform/apperr"
	"github.com/trannhat/mangahive/internal/platform/dberr"
)

/*
TestIsUniqueViolation ensures SQLSTATE 23505 is detected even through wrapping.
*/
func TestIsUniqueViolation(t *testing.T) {
	raw := &pgconn.PgError{Code: pgerrcode.UniqueViolation}

	assert.True(t, dberr.IsUniqueViolation(raw))
	assert.True(t, dberr.IsUniqueViolation(fmt.Errorf("insert chapter: %w", raw)))
	assert.False(t, dberr.IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	assert.False(t, dberr.IsUniqueViolation(errors.New("plain error")))
	assert.False(t, dberr.IsUniqueViolation(nil))
}

/*
TestWrap checks the mapping from storage errors to client-safe AppErrors.
*/
func TestWrap(t *testing.T) {
	t.Run("nil_passthrough", func(t *testing.T) {
		assert.NoError(t, dberr.Wrap(nil, "Manga"))
	})

	t.Run("no_rows_becomes_not_found", func(t *testing.T) {
		err := dberr.Wrap(pgx.ErrNoRows, "Chapter")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
		assert.Equal(t, "Chapter not found", ae.Message)
	})

	t.Run("unique_violation_becomes_conflict", func(t *testing.T) {
		err := dberr.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, "Chapter")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	})

	t.Run("unknown_becomes_internal", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := dberr.Wrap(cause, "Manga")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusInternalServerError, ae.HTTPStatus)
		// Cause kept server-side only.
		assert.ErrorIs(t, err, cause)
	})
}
