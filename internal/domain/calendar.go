package domain

type CalendarEvent struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Date is a calendar day, "YYYY-MM-DD". No time zone.
	Date string `json:"date"`
	// Time is an optional "HH:MM" time of day.
	Time        string `json:"time,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
	CreatedAt   string `json:"createdAt"`
}

// CalendarSnapshot is the whole-state blob pushed to the UsersData_Calendar table.
type CalendarSnapshot struct {
	Events []*CalendarEvent `json:"events"`
}
