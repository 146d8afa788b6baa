package models

// User is a registered account loaded from the users file.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"` // plaintext or bcrypt hash; never sent to clients
}
