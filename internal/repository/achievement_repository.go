package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AchievementRepository stores global achievement unlocks and generated per-user achievements.
type AchievementRepository struct {
	records   *mongo.Collection
	generated *mongo.Collection
}

func NewAchievementRepository(db *mongo.Database) *AchievementRepository {
	return &AchievementRepository{
		records:   db.Collection("achievement_records"),
		generated: db.Collection("user_achievements"),
	}
}

// EnsureIndexes makes (user_id, achievement_id) unique so an unlock is stored once.
func (r *AchievementRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.records.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "achievement_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create achievement record index: %w", err)
	}

	_, err = r.generated.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create user achievement index: %w", err)
	}
	return nil
}

// GetAchievementRecords returns the global achievements unlocked by a user
func (r *AchievementRepository) GetAchievementRecords(ctx context.Context, userID string) ([]models.AchievementRecord, error) {
	cursor, err := r.records.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievement records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.AchievementRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode achievement records: %w", err)
	}
	return records, nil
}

// InsertAchievementRecords stores new unlocks. Records that already exist are skipped.
func (r *AchievementRepository) InsertAchievementRecords(ctx context.Context, records []models.AchievementRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(records))
	for _, rec := range records {
		docs = append(docs, rec)
	}

	_, err := r.records.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logrus.WithError(err).Warn("Skipped already recorded achievements")
			return nil
		}
		logrus.WithError(err).Error("Failed to insert achievement records")
		return fmt.Errorf("failed to insert achievement records: %w", err)
	}

	logrus.WithField("count", len(records)).Info("Achievement records inserted")
	return nil
}

// CreateUserAchievements stores generated achievements
func (r *AchievementRepository) CreateUserAchievements(ctx context.Context, items []models.UserAchievement) error {
	if len(items) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		docs = append(docs, item)
	}

	if _, err := r.generated.InsertMany(ctx, docs); err != nil {
		logrus.WithError(err).Error("Failed to insert user achievements")
		return fmt.Errorf("failed to insert user achievements: %w", err)
	}
	return nil
}

// GetUserAchievements returns the generated achievements of a user, oldest first
func (r *AchievementRepository) GetUserAchievements(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.generated.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user achievements: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.UserAchievement
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode user achievements: %w", err)
	}
	return items, nil
}

// UnlockUserAchievement sets the unlock flag of a generated achievement. An
// achievement that is already unlocked keeps its original unlock time.
func (r *AchievementRepository) UnlockUserAchievement(ctx context.Context, id primitive.ObjectID, userID string, at time.Time) (*models.UserAchievement, error) {
	filter := bson.M{"_id": id, "user_id": userID, "is_unlocked": false}
	update := bson.M{"$set": bson.M{"is_unlocked": true, "unlocked_at": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.UserAchievement
	err := r.generated.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if err == nil {
		return &item, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to unlock user achievement: %w", err)
	}

	// Either missing or already unlocked.
	err = r.generated.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&item)
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}
