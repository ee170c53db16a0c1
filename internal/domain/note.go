package domain

type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// NotesSnapshot is the whole-state blob pushed to the UsersData_Notes table.
type NotesSnapshot struct {
	Notes []*Note `json:"notes"`
}
