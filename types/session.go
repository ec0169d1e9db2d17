package types

// Session is the authenticated identity held by the client.
// A non-empty Token always comes with a non-zero UserID.
type Session struct {
	// UserID is the id of the logged-in user.
	UserID int64 `json:"id"`

	// Email is the logged-in user's email address.
	Email string `json:"email"`

	// Token is the bearer token sent on authenticated requests.
	Token string `json:"token"`

	// User is the cached account snapshot shown by the navigation shell.
	User User `json:"user"`
}

// Authenticated reports whether the session carries a usable token.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.UserID != 0
}

// Credentials is the login form payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the account creation payload.
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}
