package domain

import "time"

// UserProfile is the directory entry for a principal. Username and email are
// globally unique, compared case-insensitively.
type UserProfile struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
