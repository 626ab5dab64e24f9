// Package session carries the authenticated identity for a single request.
// A nil *Session means the caller is anonymous. Sessions are constructed at
// the API boundary and passed explicitly; there is no global current-user
// state.
package session

// Session identifies a signed-in remote account.
type Session struct {
	UserID string
}

// New creates a session for the given remote account ID.
func New(userID string) *Session {
	return &Session{UserID: userID}
}

// Authenticated reports whether s carries a signed-in account.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}
