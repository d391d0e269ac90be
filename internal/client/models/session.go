// Package models defines the client-side data model: the session held for an
// app run, locally cached entries and the shapes exchanged with the server.
package models

// Session is the authenticated identity and token held for one app run.
type Session struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Token         string `json:"-"`
	IsStudent     bool   `json:"isStudent"`
}

// Valid reports whether the authenticated invariant holds: an authenticated
// session always carries a token and a user id.
func (s Session) Valid() bool {
	if !s.Authenticated {
		return true
	}
	return s.Token != "" && s.UserID != ""
}

// DisplayName prefers "First Last", then the username, then the email.
func (s Session) DisplayName() string {
	switch {
	case s.FirstName != "" && s.LastName != "":
		return s.FirstName + " " + s.LastName
	case s.FirstName != "":
		return s.FirstName
	case s.Username != "":
		return s.Username
	default:
		return s.Email
	}
}

// LoginData is what a successful login hands to the session store.
type LoginData struct {
	Token     string
	UserID    string
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// ProfileUpdate carries editable profile fields; empty strings keep the
// current value.
type ProfileUpdate struct {
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// SavedCredential is a "remember me" entry, unique by email. Password holds
// the plaintext only in memory; on disk it is sealed.
type SavedCredential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
