package repository

import (
	"context"
	"errors"
	"fmt"
	"parking/pkg/config"
	mongotx "parking/pkg/db/mongo"
	"parking/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "global_settings"
)

type SettingsRepository interface {
	// GetOrCreate returns the singleton, inserting defaults if it does not
	// exist yet. Concurrent callers observe the same record.
	GetOrCreate(ctx context.Context, defaults model.GlobalSettings) (*model.GlobalSettings, error)
	Update(ctx context.Context, penaltyAmount, hourlyRate float64) (*model.GlobalSettings, error)
}

type mongoSettingsRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSettingsRepository(cfg *config.Config) SettingsRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSettingsRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoSettingsRepository) GetOrCreate(ctx context.Context, defaults model.GlobalSettings) (*model.GlobalSettings, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": model.GlobalSettingsID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"default_penalty_amount": defaults.DefaultPenaltyAmount,
			"default_hourly_rate":    defaults.DefaultHourlyRate,
			"updated_at":             now(),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var settings model.GlobalSettings
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&settings)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		// Lost the insert race, the winner's record is there now.
		err = r.collection.FindOne(ctx, filter).Decode(&settings)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load global settings: %w", err)
	}
	return &settings, nil
}

func (r *mongoSettingsRepository) Update(ctx context.Context, penaltyAmount, hourlyRate float64) (*model.GlobalSettings, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": model.GlobalSettingsID}
	update := bson.M{
		"$set": bson.M{
			"default_penalty_amount": penaltyAmount,
			"default_hourly_rate":    hourlyRate,
			"updated_at":             now(),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var settings model.GlobalSettings
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&settings); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("global settings upsert returned no document: %w", err)
		}
		return nil, fmt.Errorf("failed to update global settings: %w", err)
	}
	return &settings, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
