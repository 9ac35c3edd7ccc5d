package schema

// CoreMangaTable represents the 'core.manga' table
type CoreMangaTable struct {
	Table       string
	ID          string
	Title       string
	Description string
	CoverURL    string
	Categories  string
	Status      string
	AuthorID    string
	CreatedAt   string
	UpdatedAt   string
}

// CoreManga is the schema definition for core.manga
var CoreManga = CoreMangaTable{
	Table:       "core.manga",
	ID:          "id",
	Title:       "title",
	Description: "description",
	CoverURL:    "coverurl",
	Categories:  "categories",
	Status:      "status",
	AuthorID:    "authorid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t CoreMangaTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.CoverURL, t.Categories,
		t.Status, t.AuthorID, t.CreatedAt, t.UpdatedAt,
	}
}
