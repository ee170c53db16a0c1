package domain

type TaskPriority string

const (
	PriorityLow    TaskPriority = "baixa"
	PriorityMedium TaskPriority = "media"
	PriorityHigh   TaskPriority = "alta"
)

type Task struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Priority  TaskPriority `json:"priority"`
	Category  string       `json:"category"`
	Completed bool         `json:"completed"`
	CreatedAt string       `json:"createdAt"`
	// DueDate is an ISO date, optionally with a time part ("2026-01-15" or
	// "2026-01-15T14:30"). Empty means no due date.
	DueDate string `json:"dueDate,omitempty"`
}

// TasksSnapshot is the whole-state blob pushed to the UsersData_Tasks table.
type TasksSnapshot struct {
	Tasks []*Task `json:"tasks"`
}
