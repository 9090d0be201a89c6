package film

import "time"

// Film is a catalog entry.
type Film struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Director  string    `json:"director"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Update carries the mutable fields of a film; nil means leave unchanged.
type Update struct {
	Title    *string
	Director *string
	Year     *int
}
