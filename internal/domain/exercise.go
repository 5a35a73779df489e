// internal/domain/exercise.go
package domain

import (
	"time"
)

// ExerciseDefinition is an entry in a user's personal exercise catalog.
// Name is unique per owner.
type ExerciseDefinition struct {
	ID          string    `db:"id" bson:"_id" json:"id"`
	UserID      string    `db:"user_id" bson:"userId" json:"userId"` // Owner
	Name        string    `db:"name" bson:"name" json:"name"`
	Description string    `db:"description" bson:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" bson:"createdAt" json:"createdAt"`
}
