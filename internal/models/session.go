package models

// UserRecord is the authenticated user's profile as returned by the auth API.
type UserRecord struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role"`
}

// Session is the authenticated identity and credential held by the client.
//
// Invariant: after any settled operation, User and Token are either both set
// or both empty. A token without a user (or the reverse) never survives a
// login, register, logout, or restore.
type Session struct {
	User  *UserRecord `json:"user"`
	Token string      `json:"token"`
}

// SignedIn reports whether the session holds an authenticated identity.
func (s Session) SignedIn() bool {
	return s.User != nil && s.Token != ""
}
