// Package session derives the client's login state from the stored access token.
//
// A Session is a value computed from the raw token; it is never persisted and
// never edited in place. The zero Session is the logged-out state.
package session

// Session is the identity carried by a valid, unexpired access token.
// Token, User and Role are either all set or all empty.
type Session struct {
	Token string `json:"token,omitempty"`
	User  string `json:"user,omitempty"`
	Role  Role   `json:"role,omitempty"`
}

// LoggedOut is the zero Session
var LoggedOut = Session{}

func fromClaims(rawToken string, claims *Claims) Session {
	return Session{
		Token: rawToken,
		User:  claims.Username,
		Role:  claims.Role,
	}
}

// LoggedIn reports whether the session carries a token
func (s Session) LoggedIn() bool {
	return s.Token != ""
}

// HasRole reports whether the session is logged in with one of roles
func (s Session) HasRole(roles ...Role) bool {
	if !s.LoggedIn() {
		return false
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}
