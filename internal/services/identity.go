package services

// Identity is the authenticated caller of a request. It is derived from a
// verified access token and passed explicitly into every owner-scoped call.
type Identity struct {
	UserID   string
	Username string
	Email    string
}
