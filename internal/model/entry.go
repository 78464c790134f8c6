// Package model defines the domain types shared across all layers. Plain
// structs with JSON tags; no behavior beyond data.
package model

// DateLayout is the calendar-date form used everywhere an entry or quote
// carries a date. No time component: freshness comparisons are whole-day.
const DateLayout = "2006-01-02"

// Entry is one journal entry.
type Entry struct {
	ID         int64  `json:"id" db:"id"`
	Title      string `json:"title" db:"title"`
	Content    string `json:"content" db:"content"`
	Date       string `json:"date" db:"date"` // YYYY-MM-DD
	IsFavorite bool   `json:"isFavorite" db:"is_favorite"`
}
