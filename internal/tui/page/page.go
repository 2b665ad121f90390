package page

type PageID string

// PageChangeMsg asks the app to switch to another page.
type PageChangeMsg struct {
	ID PageID
}
