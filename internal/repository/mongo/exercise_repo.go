package mongo

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercise_definitions"

// mongoExerciseRepository implements repository.ExerciseDefinitionRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new exercise catalog repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseDefinitionRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise definition.
func (r *mongoExerciseRepository) Create(ctx context.Context, def *domain.ExerciseDefinition) error {
	def.ID = repository.NewID()
	def.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.collection.InsertOne(ctx, def); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

// ListByUser retrieves all definitions owned by the user, sorted by name.
func (r *mongoExerciseRepository) ListByUser(ctx context.Context, userID string) ([]domain.ExerciseDefinition, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// findByIDs returns the owner's definitions among ids, sorted by name.
// Ids that match nothing, or match another user's definition, are skipped.
func (r *mongoExerciseRepository) findByIDs(ctx context.Context, userID string, ids []string) ([]domain.ExerciseDefinition, error) {
	if len(ids) == 0 {
		return []domain.ExerciseDefinition{}, nil
	}
	return r.find(ctx, bson.M{"userId": userID, "_id": bson.M{"$in": ids}})
}

func (r *mongoExerciseRepository) find(ctx context.Context, filter bson.M) ([]domain.ExerciseDefinition, error) {
	defs := []domain.ExerciseDefinition{}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercise_definitions collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Names are unique per owner; also serves the sorted list query.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
