// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package objstore

import (
	"fmt"
	"strings"
)

// Object path layout inside the bucket:
//
//	manga/<title-slug>/cover.<ext>
//	manga/<manga-id>/chapter<N>/page<i>.<ext>
//
// Page indices are 1-based to match reader-facing numbering.

// CoverPath builds the bucket path for a manga cover image.
func CoverPath(titleSlug, ext string) string {
	return fmt.Sprintf("manga/%s/cover.%s", titleSlug, ext)
}

// PagePath builds the bucket path for a single chapter page image.
func PagePath(mangaID string, chapterNumber, pageIndex int, ext string) string {
	return fmt.Sprintf("manga/%s/chapter%d/page%d.%s", mangaID, chapterNumber, pageIndex, ext)
}

// ExtFromContentType maps a MIME type like "image/png" to a file extension.
// Unknown or malformed types fall back to "bin".
func ExtFromContentType(contentType string) string {
	_, subtype, found := strings.Cut(contentType, "/")
	if !found || subtype == "" {
		return "bin"
	}

	// Normalize the common JPEG alias.
	if subtype == "jpg" {
		return "jpeg"
	}

	return subtype
}
