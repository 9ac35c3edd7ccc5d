package schema

// CoreChapterTable represents the 'core.chapter' table
type CoreChapterTable struct {
	Table     string
	ID        string
	MangaID   string
	Number    string
	Title     string
	Pages     string
	CreatedAt string
	UpdatedAt string
}

// CoreChapter is the schema definition for core.chapter
var CoreChapter = CoreChapterTable{
	Table:     "core.chapter",
	ID:        "id",
	MangaID:   "mangaid",
	Number:    "number",
	Title:     "title",
	Pages:     "pages",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t CoreChapterTable) Columns() []string {
	return []string{
		t.ID, t.MangaID, t.Number, t.Title, t.Pages,
		t.CreatedAt, t.UpdatedAt,
	}
}
