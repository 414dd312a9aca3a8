package model

import "time"

// User is a registered account. Two identity paths feed this struct:
// password registration (PasswordHash set, GitHubID zero) and GitHub OAuth
// sign-in (GitHubID set, PasswordHash empty). Both share the same internal
// xid so snippets reference users uniformly.
//
// PasswordHash never leaves the server; the json:"-" tag keeps it out of
// every API response no matter which handler serializes the user.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	GitHubID     int64     `json:"githubId,omitempty"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
