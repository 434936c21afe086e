package types

import "time"

// User is a registered account. The password is stored only as a
// bcrypt hash.
type User struct {
	Email        string    `json:"email" bson:"_id"`
	PasswordHash []byte    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
