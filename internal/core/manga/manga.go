// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

/*
Package manga defines the catalog domain for the MangaHive platform.

It manages the lifecycle of serialized publications: discovery through the
cursor-paginated catalog, and intake through the admin upload flow.

Core Responsibility:

  - Catalog: Newest-first keyset pagination over approved and pending titles.
  - Intake: Atomic creation of a manga together with its first chapter and
    all of its images in object storage.

This package acts as the source of truth for all title-level data models.
*/
package manga

import "time"

// # Domain Enums

// Status represents the moderation state of an uploaded manga.
type Status string

const (
	// StatusPending indicates the title awaits moderator review.
	StatusPending Status = "PENDING"

	// StatusApproved indicates the title is visible without restriction.
	StatusApproved Status = "APPROVED"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved
}

// # Core Entities

// Manga is the central aggregate of the MangaHive catalog.
// It represents a single serialized publication.
type Manga struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CoverURL    string    `json:"coverImage"`
	Categories  []string  `json:"categories"`
	Status      Status    `json:"status"`
	AuthorID    string    `json:"authorId"`
	Author      string    `json:"author"` // Display name of the uploading account
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FirstChapter carries the initial chapter created atomically with a new
// manga. It always receives number 1: the title does not exist before the
// insert, so no competing chapter can claim the number.
type FirstChapter struct {
	ID    string
	Title string
	Pages []string
}

// # Field Identifiers

const (
	FieldTitle      = "title"
	FieldCover      = "coverImage"
	FieldPages      = "chapterPages"
	FieldCursor     = "cursor"
	FieldCategories = "categories"
)
