package mongo

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workout_sessions"

// mongoWorkoutRepository implements repository.WorkoutRepository.
// Each session is a single document embedding its exercises and sets, so
// creating or deleting one is atomic without a transaction.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new workout session repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// newestFirst orders sessions by date, breaking ties on the time-ordered id.
var newestFirst = bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}

// Create inserts a new session with freshly generated nested ids.
func (r *mongoWorkoutRepository) Create(ctx context.Context, session *domain.WorkoutSession) error {
	session.ID = repository.NewID()
	session.Date = session.Date.UTC().Truncate(time.Millisecond)
	session.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if session.CompletedExercises == nil {
		session.CompletedExercises = []domain.CompletedExercise{}
	}
	for i := range session.CompletedExercises {
		ex := &session.CompletedExercises[i]
		ex.ID = repository.NewID()
		if ex.Sets == nil {
			ex.Sets = []domain.Set{}
		}
		for j := range ex.Sets {
			ex.Sets[j].ID = repository.NewID()
		}
	}

	_, err := r.collection.InsertOne(ctx, session)
	return err
}

// GetByID retrieves a single session owned by userID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, userID, id string) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	normalizeSession(&session)
	return &session, nil
}

// ListByUser retrieves all of the user's sessions, most recent first.
func (r *mongoWorkoutRepository) ListByUser(ctx context.Context, userID string) ([]domain.WorkoutSession, error) {
	sessions := []domain.WorkoutSession{}
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	for i := range sessions {
		normalizeSession(&sessions[i])
	}
	return sessions, nil
}

// Delete removes a session, ensuring it belongs to the specified user.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// LastPerformance loads the newest session containing the definition and
// returns the sets of its first matching exercise.
func (r *mongoWorkoutRepository) LastPerformance(ctx context.Context, userID, exerciseDefinitionID string) (*domain.LastPerformance, error) {
	filter := bson.M{
		"userId":                                  userID,
		"completedExercises.exerciseDefinitionId": exerciseDefinitionID,
	}

	var session domain.WorkoutSession
	err := r.collection.FindOne(ctx, filter, options.FindOne().SetSort(newestFirst)).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	normalizeSession(&session)

	for _, ex := range session.CompletedExercises {
		if ex.ExerciseDefinitionID == exerciseDefinitionID {
			return &domain.LastPerformance{Sets: ex.Sets, Date: session.Date}, nil
		}
	}
	return nil, repository.ErrNotFound
}

// normalizeSession replaces nil slices left by decoding with empty ones.
func normalizeSession(session *domain.WorkoutSession) {
	if session.CompletedExercises == nil {
		session.CompletedExercises = []domain.CompletedExercise{}
	}
	for i := range session.CompletedExercises {
		if session.CompletedExercises[i].Sets == nil {
			session.CompletedExercises[i].Sets = []domain.Set{}
		}
	}
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Serves the newest-first listing.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index(),
		},
		{
			// Serves the last-performance lookup.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "completedExercises.exerciseDefinitionId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
