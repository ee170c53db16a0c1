package domain

// ThemeSnapshot is the whole-state blob pushed to the UsersData_Config table.
type ThemeSnapshot struct {
	IsDark bool `json:"isDark"`
}
