// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package chapter

import "context"

// # Chapter Data Access

// Repository defines the data access contract for chapters.
type Repository interface {
	/*
		MaxNumber returns the highest chapter number of a manga.

		Parameters:
		  - context: context.Context
		  - mangaID: string (UUID)

		Returns:
		  - int: Highest assigned number, 0 when the manga has no chapters
		  - error: Database retrieval failures
	*/
	MaxNumber(context context.Context, mangaID string) (int, error)

	/*
		Create persists a new chapter with its pre-assigned number.

		Description: The (mangaid, number) pair is protected by a unique
		constraint. Callers own the retry policy for lost races.

		Returns:
		  - error: Raw unique/foreign-key violations for the caller to
		    classify via dberr, or execution failures
	*/
	Create(context context.Context, chapter *Chapter) error

	/*
		ListByManga returns chapter summaries ordered by ascending number.

		Returns:
		  - []*Summary: All chapters of the manga, oldest number first
		  - error: Database retrieval failures
	*/
	ListByManga(context context.Context, mangaID string) ([]*Summary, error)

	/*
		FindByNumber returns the full chapter, pages included.

		Returns:
		  - *Chapter: The hydrated entity
		  - error: apperr.NotFound if the manga has no such number
	*/
	FindByNumber(context context.Context, mangaID string, number int) (*Chapter, error)
}
