package domain

import (
	"time"
)

// User is an account holder. Username is unique and case-sensitive.
// Password holds the stored secret: a bcrypt hash, or the verbatim password
// when the server runs in plain-password compatibility mode.
type User struct {
	ID        string    `db:"id" bson:"_id" json:"id"`
	Username  string    `db:"username" bson:"username" json:"username"`
	Password  string    `db:"password" bson:"password" json:"-"` // Never expose this via JSON
	CreatedAt time.Time `db:"created_at" bson:"createdAt" json:"createdAt"`
}
