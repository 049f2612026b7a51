package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TemplateRepository struct {
	collection *mongo.Collection
}

func NewTemplateRepository(db *mongo.Database) *TemplateRepository {
	return &TemplateRepository{
		collection: db.Collection("habit_templates"),
	}
}

func (r *TemplateRepository) CreateTemplate(ctx context.Context, template *models.HabitTemplate) (*models.HabitTemplate, error) {
	template.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, template)
	if err != nil {
		return nil, fmt.Errorf("failed to insert template: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	template.ID = insertedID

	return template, nil
}

func (r *TemplateRepository) GetTemplateByID(ctx context.Context, id primitive.ObjectID) (*models.HabitTemplate, error) {
	var template models.HabitTemplate

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&template)
	if err != nil {
		return nil, notFound(err)
	}

	return &template, nil
}

// GetTemplatesByUser fetches templates created by a specific user.
func (r *TemplateRepository) GetTemplatesByUser(ctx context.Context, userID string) ([]models.HabitTemplate, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// GetPublicTemplates returns all public templates
func (r *TemplateRepository) GetPublicTemplates(ctx context.Context) ([]models.HabitTemplate, error) {
	return r.find(ctx, bson.M{"public": true})
}

func (r *TemplateRepository) find(ctx context.Context, filter bson.M) ([]models.HabitTemplate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch templates: %w", err)
	}
	defer cursor.Close(ctx)

	templates := []models.HabitTemplate{}
	for cursor.Next(ctx) {
		var template models.HabitTemplate
		if err := cursor.Decode(&template); err != nil {
			return nil, fmt.Errorf("failed to decode template: %w", err)
		}
		templates = append(templates, template)
	}

	return templates, nil
}
