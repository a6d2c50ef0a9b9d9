package repository

import (
	"context"
	"errors"
	"fmt"
	slotserrors "parking/internal/slots/errors"
	"parking/pkg/config"
	mongotx "parking/pkg/db/mongo"
	"parking/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "parking_slots"
)

type SlotRepository interface {
	Create(ctx context.Context, slot *model.ParkingSlot) error
	FindByID(ctx context.Context, id string) (*model.ParkingSlot, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.ParkingSlot, error)
	FindByStatus(ctx context.Context, status model.SlotStatus) ([]*model.ParkingSlot, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.SlotStatus) (int64, error)
	UpdateFields(ctx context.Context, id string, slotNumber string, hourlyRate *float64) (*model.ParkingSlot, error)
	Delete(ctx context.Context, id string) error

	// Book flips an AVAILABLE slot to OCCUPIED in one conditional write.
	// ErrSlotOccupied is returned when the slot exists but is not AVAILABLE.
	Book(ctx context.Context, id string, booking model.SlotBooking) (*model.ParkingSlot, error)
	// Release makes the slot AVAILABLE and clears the occupancy fields,
	// whatever its previous status.
	Release(ctx context.Context, id string) (*model.ParkingSlot, error)
}

type mongoSlotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotRepository(cfg *config.Config) SlotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoSlotRepository) Create(ctx context.Context, slot *model.ParkingSlot) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	slot.CreatedAt = now
	slot.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, slot)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", slotserrors.ErrDuplicateSlotNumber, slot.SlotNumber)
		}
		return fmt.Errorf("failed to create parking slot: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		slot.ID = oid.Hex()
	}

	return nil
}

func (r *mongoSlotRepository) FindByID(ctx context.Context, id string) (*model.ParkingSlot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var slot model.ParkingSlot
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", slotserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find parking slot: %w", err)
	}
	return &slot, nil
}

func (r *mongoSlotRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.ParkingSlot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "slot_number", Value: 1}})

	return r.find(ctx, bson.M{}, opts)
}

func (r *mongoSlotRepository) FindByStatus(ctx context.Context, status model.SlotStatus) ([]*model.ParkingSlot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "slot_number", Value: 1}})
	return r.find(ctx, bson.M{"status": status}, opts)
}

func (r *mongoSlotRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.ParkingSlot, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query parking slots: %w", err)
	}
	defer cursor.Close(ctx)

	slots := []*model.ParkingSlot{}
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode parking slots: %w", err)
	}
	return slots, nil
}

func (r *mongoSlotRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count parking slots: %w", err)
	}
	return count, nil
}

func (r *mongoSlotRepository) CountByStatus(ctx context.Context, status model.SlotStatus) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count parking slots by status: %w", err)
	}
	return count, nil
}

func (r *mongoSlotRepository) UpdateFields(ctx context.Context, id string, slotNumber string, hourlyRate *float64) (*model.ParkingSlot, error) {
	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	if slotNumber != "" {
		set["slot_number"] = slotNumber
	}
	if hourlyRate != nil {
		set["hourly_rate"] = *hourlyRate
	}

	slot, err := r.findOneAndUpdate(ctx, id, bson.M{}, bson.M{"$set": set})
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("%w: %s", slotserrors.ErrDuplicateSlotNumber, slotNumber)
	}
	return slot, err
}

func (r *mongoSlotRepository) Book(ctx context.Context, id string, booking model.SlotBooking) (*model.ParkingSlot, error) {
	update := bson.M{
		"$set": bson.M{
			"status":     model.SlotOccupied,
			"booked_by":  booking.UserID,
			"start_time": booking.StartTime,
			"end_time":   booking.EndTime,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	slot, err := r.findOneAndUpdate(ctx, id, bson.M{"status": model.SlotAvailable}, update)
	if err == nil || !errors.Is(err, slotserrors.ErrNotFound) {
		return slot, err
	}

	// The conditional write matched nothing: either the slot is gone or
	// somebody else holds it.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, fmt.Errorf("%w: %s", slotserrors.ErrSlotOccupied, id)
}

func (r *mongoSlotRepository) Release(ctx context.Context, id string) (*model.ParkingSlot, error) {
	update := bson.M{
		"$set": bson.M{
			"status":     model.SlotAvailable,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
		"$unset": bson.M{
			"booked_by":  "",
			"start_time": "",
			"end_time":   "",
		},
	}
	return r.findOneAndUpdate(ctx, id, bson.M{}, update)
}

func (r *mongoSlotRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete parking slot: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", slotserrors.ErrNotFound, id)
	}
	return nil
}

// findOneAndUpdate applies update to the slot matching id and extra, and
// returns the document after the update. No match is ErrNotFound.
func (r *mongoSlotRepository) findOneAndUpdate(ctx context.Context, id string, extra bson.M, update bson.M) (*model.ParkingSlot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": objectID}
	for k, v := range extra {
		filter[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot model.ParkingSlot
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", slotserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to update parking slot: %w", err)
	}
	return &slot, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", slotserrors.ErrInvalidID, id)
	}
	return objectID, nil
}
