// internal/domain/template.go
package domain

import (
	"time"
)

// Template is a named, reusable set of exercise definition references.
//
// ExerciseIDs is the reference set as written by the owner. Exercises is the
// read-side materialization: only references that resolve to one of the
// owner's definitions appear there, dangling ids are dropped silently.
type Template struct {
	ID          string               `db:"id" bson:"_id" json:"id"`
	UserID      string               `db:"user_id" bson:"userId" json:"userId"`
	Name        string               `db:"name" bson:"name" json:"name"`
	ExerciseIDs []string             `db:"-" bson:"exerciseIds" json:"-"`
	Exercises   []ExerciseDefinition `db:"-" bson:"-" json:"exercises"`
	CreatedAt   time.Time            `db:"created_at" bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `db:"updated_at" bson:"updatedAt" json:"updatedAt"`
}
