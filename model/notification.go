package model

// Notification is a header notification shown to a signed-in user
type Notification struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Time  string `json:"time"` // relative label, e.g. "2m ago"
	Read  bool   `json:"read"`
}
