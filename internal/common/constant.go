// Package common contains constants and sentinel errors shared by the
// client packages.
package common

// Keys of the persisted key-value store.
const (
	SessionKey   = "session"
	UserKey      = "user"
	BookmarksKey = "bookmarks"
)

// HTTP header names set on outbound API requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
)

// BearerPrefix precedes the session token in the Authorization header.
const BearerPrefix = "Bearer "
