package domain

type KanbanColumn struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type KanbanTask struct {
	ID          string `json:"id"`
	ColumnID    string `json:"columnId"`
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// KanbanSnapshot is the whole-state blob pushed to the UsersData_Kanban table.
type KanbanSnapshot struct {
	Columns []*KanbanColumn `json:"columns"`
	Tasks   []*KanbanTask   `json:"tasks"`
}
