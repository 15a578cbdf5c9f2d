package model

// User is a registered account. Mail is stored lower-cased.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Mail         string `json:"mail"`
	PasswordHash string `json:"-"`
}
