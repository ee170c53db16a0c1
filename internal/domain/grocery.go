package domain

type GroceryItem struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

type GroceryList struct {
	ID string `json:"id"`
	// AirtableID is the remote row id. Empty while the list is local-only;
	// set once by a successful save-as and never cleared.
	AirtableID string         `json:"airtableId,omitempty"`
	Title      string         `json:"title"`
	Items      []*GroceryItem `json:"items"`
	UpdatedAt  string         `json:"updatedAt"`
}

func (l *GroceryList) Synced() bool {
	return l.AirtableID != ""
}

// GrocerySnapshot is the locally persisted shape of the grocery store. Grocery
// lists are not part of the five-table autosave; each list syncs to its own
// GroceriesLists row, where only the items array travels (as ItemsData).
type GrocerySnapshot struct {
	Lists []*GroceryList `json:"lists"`
}
