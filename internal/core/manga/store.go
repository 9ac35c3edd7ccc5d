// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package manga

import "context"

// # Manga Data Access

// Repository defines the data access contract for the manga catalog.
type Repository interface {
	/*
		List returns one page of the catalog in newest-first order.

		Description: Ordering is (createdat DESC, id DESC). An empty cursor
		starts from the newest record; otherwise the page starts strictly
		after the row identified by cursor.

		Parameters:
		  - context: context.Context
		  - cursor: string (ID of the last item of the previous page, or "")
		  - limit: int

		Returns:
		  - []*Manga: Slice of catalog records
		  - error: apperr.ValidationError if the cursor references no row,
		    or database retrieval failures
	*/
	List(context context.Context, cursor string, limit int) ([]*Manga, error)

	/*
		FindByID returns the manga with the given ID.

		Returns:
		  - *Manga: The hydrated domain entity
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Manga, error)

	/*
		CreateWithFirstChapter persists a new manga and its first chapter
		inside a single transaction.

		Description: Either both rows exist afterwards or neither does.
		The chapter is inserted with number 1.

		Parameters:
		  - context: context.Context
		  - manga: *Manga (Metadata and initial state)
		  - chapter: *FirstChapter (Title and uploaded page URLs)

		Returns:
		  - error: Storage or constraint failures
	*/
	CreateWithFirstChapter(context context.Context, manga *Manga, chapter *FirstChapter) error
}
