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

const templateCollectionName = "templates"

// mongoTemplateRepository implements repository.TemplateRepository.
// A template is one document holding its exercise ids; exercises are
// materialized from the owner's definitions on read.
type mongoTemplateRepository struct {
	collection *mongo.Collection
	exercises  *mongoExerciseRepository
}

// NewMongoTemplateRepository creates a new template repository.
func NewMongoTemplateRepository(db *mongo.Database) repository.TemplateRepository {
	return &mongoTemplateRepository{
		collection: db.Collection(templateCollectionName),
		exercises:  &mongoExerciseRepository{collection: db.Collection(exerciseCollectionName)},
	}
}

// Create inserts a new template. A single document insert is atomic.
func (r *mongoTemplateRepository) Create(ctx context.Context, template *domain.Template) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	template.ID = repository.NewID()
	template.CreatedAt = now
	template.UpdatedAt = now
	if template.ExerciseIDs == nil {
		template.ExerciseIDs = []string{}
	}

	_, err := r.collection.InsertOne(ctx, template)
	return err
}

// GetByID retrieves a template owned by userID.
func (r *mongoTemplateRepository) GetByID(ctx context.Context, userID, id string) (*domain.Template, error) {
	var template domain.Template
	filter := bson.M{"_id": id, "userId": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	templates := []domain.Template{template}
	if err := r.materialize(ctx, userID, templates); err != nil {
		return nil, err
	}
	return &templates[0], nil
}

// ListByUser retrieves the user's templates sorted by name.
func (r *mongoTemplateRepository) ListByUser(ctx context.Context, userID string) ([]domain.Template, error) {
	templates := []domain.Template{}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	if err := r.materialize(ctx, userID, templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Update replaces the name and the whole id set in one document write.
func (r *mongoTemplateRepository) Update(ctx context.Context, template *domain.Template) error {
	template.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if template.ExerciseIDs == nil {
		template.ExerciseIDs = []string{}
	}

	filter := bson.M{"_id": template.ID, "userId": template.UserID}
	update := bson.M{
		"$set": bson.M{
			"name":        template.Name,
			"exerciseIds": template.ExerciseIDs,
			"updatedAt":   template.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a template, ensuring it belongs to the specified user.
func (r *mongoTemplateRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// materialize fills Exercises for every template with a single $in query.
// Definitions come back name-sorted, so each template's list is too.
func (r *mongoTemplateRepository) materialize(ctx context.Context, userID string, templates []domain.Template) error {
	var ids []string
	for _, t := range templates {
		ids = append(ids, t.ExerciseIDs...)
	}
	defs, err := r.exercises.findByIDs(ctx, userID, ids)
	if err != nil {
		return err
	}

	for i := range templates {
		t := &templates[i]
		if t.ExerciseIDs == nil {
			t.ExerciseIDs = []string{}
		}
		refs := make(map[string]bool, len(t.ExerciseIDs))
		for _, id := range t.ExerciseIDs {
			refs[id] = true
		}
		t.Exercises = []domain.ExerciseDefinition{}
		for _, def := range defs {
			if refs[def.ID] {
				t.Exercises = append(t.Exercises, def)
			}
		}
	}
	return nil
}

// EnsureTemplateIndexes creates necessary indexes. Call during startup.
func EnsureTemplateIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
