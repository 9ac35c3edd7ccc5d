// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

/*
Package chapter manages sequential chapter numbering and retrieval.

Chapters within a manga are numbered 1, 2, 3, ... with no gaps introduced by
the application. The number is assigned server-side at insert time and backed
by a (mangaid, number) uniqueness constraint, so two concurrent uploads can
never claim the same slot.
*/
package chapter

import "time"

// Chapter represents a single released chapter of a manga.
type Chapter struct {
	ID        string    `json:"id"`
	MangaID   string    `json:"mangaId"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Pages     []string  `json:"pages"` // Ordered page image URLs
	CreatedAt time.Time `json:"createdAt"`
}

// Summary is the listing shape of a chapter: everything except the page
// URLs, which readers only need once they open the chapter.
type Summary struct {
	ID        string    `json:"id"`
	MangaID   string    `json:"mangaId"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	PageCount int       `json:"pageCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// # Field Identifiers

const (
	FieldMangaID = "mangaId"
	FieldNumber  = "number"
	FieldPages   = "pages"
)
