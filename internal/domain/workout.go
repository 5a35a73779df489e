package domain

import (
	"time"
)

// WorkoutSession is one logged workout. Sessions are immutable once created;
// the only mutation is deletion, which takes every nested row with it.
type WorkoutSession struct {
	ID                 string              `bson:"_id" json:"id"`
	UserID             string              `bson:"userId" json:"userId"`
	Date               time.Time           `bson:"date" json:"date"` // Supplied by the client
	CompletedExercises []CompletedExercise `bson:"completedExercises" json:"completedExercises"`
	CreatedAt          time.Time           `bson:"createdAt" json:"createdAt"`
}

// CompletedExercise is one exercise performed within a session.
// ExerciseName is the name the client sent at write time; it is not
// re-read from the definition and the definition id is not validated.
type CompletedExercise struct {
	ID                   string `bson:"id" json:"id"`
	ExerciseDefinitionID string `bson:"exerciseDefinitionId" json:"exerciseDefinitionId"`
	ExerciseName         string `bson:"exerciseName" json:"exerciseName"`
	Sets                 []Set  `bson:"sets" json:"sets"`
}

// Set is one reps/weight pair. Order within the exercise is significant.
type Set struct {
	ID     string  `db:"id" bson:"id" json:"id"`
	Reps   int     `db:"reps" bson:"reps" json:"reps"`
	Weight float64 `db:"weight" bson:"weight" json:"weight"`
}

// LastPerformance is the most recent recorded occurrence of an exercise.
type LastPerformance struct {
	Sets []Set     `json:"sets"`
	Date time.Time `json:"date"`
}
