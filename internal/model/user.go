package model

// User represents a local account on this device.
//
// Email is normalized (trimmed, lower-cased) by the service layer before any
// storage or comparison, so two registrations differing only by case or
// whitespace map to the same record. Password holds the SHA-256 hex digest of
// the original secret — plaintext never reaches storage — and is excluded
// from JSON output.
type User struct {
	ID        int64  `json:"id"        db:"id"`
	Email     string `json:"email"     db:"email"`
	Password  string `json:"-"         db:"password"` // hex digest, never the secret
	Name      string `json:"name"      db:"name"`
	CreatedAt string `json:"createdAt" db:"created_at"` // RFC 3339
}
