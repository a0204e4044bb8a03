package user

// User is an account that owns a ledger. Credential holds the stored
// (hashed) form, never the value typed at login.
type User struct {
	ID         int64
	Username   string
	Credential string
}
