package model

// Quote is a quote of the day as served to callers.
//
// Two quotes with the same text and author are the same quote for caching and
// favoriting purposes, regardless of any other metadata. IsFavorite is
// transient: it is computed against the favorite set at read time and is not
// part of the canonical cached record.
type Quote struct {
	Text       string `json:"text"`
	Author     string `json:"author"`
	IsFavorite bool   `json:"isFavorite"`
}

// Settings is the flat app-settings state. Every field has a zero-value
// default: dark mode off, logged out, no remembered email.
type Settings struct {
	DarkMode  bool   `json:"isDarkMode"`
	LoggedIn  bool   `json:"isLoggedIn"`
	UserEmail string `json:"userEmail"`
}
