package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"github.com/Dias221467/Habit_Manager/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HabitRepository struct handles database operations related to habits
type HabitRepository struct {
	collection *mongo.Collection
}

// NewHabitRepository creates a new instance of HabitRepository
func NewHabitRepository(db *mongo.Database) *HabitRepository {
	return &HabitRepository{
		collection: db.Collection("habits"),
	}
}

// EnsureIndexes creates the indexes used by the habit queries.
func (r *HabitRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "last_completed_date", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create habit indexes: %w", err)
	}
	return nil
}

// CreateHabit inserts a new habit
func (r *HabitRepository) CreateHabit(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	result, err := r.collection.InsertOne(ctx, habit)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert habit")
		return nil, fmt.Errorf("failed to insert habit: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, fmt.Errorf("failed to cast inserted habit ID")
	}
	habit.ID = insertedID

	logger.Log.WithField("habit_id", habit.ID.Hex()).Info("Habit created successfully")
	return habit, nil
}

// GetHabit fetches a habit owned by userID
func (r *HabitRepository) GetHabit(ctx context.Context, id primitive.ObjectID, userID string) (*models.Habit, error) {
	var habit models.Habit

	err := r.collection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&habit)
	if err != nil {
		logger.Log.WithError(err).WithField("habit_id", id.Hex()).Warn("Failed to find habit")
		return nil, notFound(err)
	}

	return &habit, nil
}

// GetHabits fetches the habits of a user, newest first
func (r *HabitRepository) GetHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to fetch habits")
		return nil, fmt.Errorf("failed to fetch habits: %w", err)
	}
	defer cursor.Close(ctx)

	habits := []models.Habit{}
	if err := cursor.All(ctx, &habits); err != nil {
		logger.Log.WithError(err).Error("Failed to decode habits")
		return nil, fmt.Errorf("failed to decode habits: %w", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id": userID,
		"count":   len(habits),
	}).Info("Habits fetched successfully")
	return habits, nil
}

// GetHabitsLastCompletedOn returns the active habits whose latest completion is day.
func (r *HabitRepository) GetHabitsLastCompletedOn(ctx context.Context, day dateutil.Date) ([]models.Habit, error) {
	filter := bson.M{"is_active": true, "last_completed_date": day.String()}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habits completed on %s: %w", day, err)
	}
	defer cursor.Close(ctx)

	var habits []models.Habit
	if err := cursor.All(ctx, &habits); err != nil {
		return nil, fmt.Errorf("failed to decode habits: %w", err)
	}
	return habits, nil
}

// ApplyHabitUpdate writes the progress fields of a habit and returns the stored document.
func (r *HabitRepository) ApplyHabitUpdate(ctx context.Context, id primitive.ObjectID, userID string, update models.HabitProgressUpdate) (*models.Habit, error) {
	if update.UpdatedAt.IsZero() {
		update.UpdatedAt = time.Now()
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var habit models.Habit
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": update},
		opts,
	).Decode(&habit)
	if err != nil {
		logger.Log.WithError(err).WithField("habit_id", id.Hex()).Error("Failed to update habit")
		return nil, notFound(err)
	}

	logger.Log.WithField("habit_id", id.Hex()).Info("Habit updated successfully")
	return &habit, nil
}

// DeleteHabit deletes a habit owned by userID
func (r *HabitRepository) DeleteHabit(ctx context.Context, id primitive.ObjectID, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		logger.Log.WithError(err).WithField("habit_id", id.Hex()).Error("Failed to delete habit")
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	logger.Log.WithField("habit_id", id.Hex()).Info("Habit deleted successfully")
	return nil
}
