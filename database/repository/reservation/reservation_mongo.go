package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"podgoro/database"
	"podgoro/models"
	"podgoro/services/availability"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReservationRepo is the production ReservationRepository backed by two
// collections: the reservation rows and a per-day occupancy ledger the
// capacity guard runs against.
type MongoReservationRepo struct {
	resColl *mongo.Collection
	occColl *mongo.Collection
}

// NewMongoReservationRepo wires the repository to the application database.
func NewMongoReservationRepo() *MongoReservationRepo {
	db := database.GetDatabase()
	return &MongoReservationRepo{
		resColl: db.Collection("reservations"),
		occColl: db.Collection("occupancy"),
	}
}

// EnsureIndexes creates the indexes the repository relies on.
func (repo *MongoReservationRepo) EnsureIndexes(ctx context.Context) error {
	_, err := repo.resColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "night_keys", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("reservation indexes: %w", err)
	}
	_, err = repo.occColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "type", Value: 1}, {Key: "night", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("occupancy index: %w", err)
	}
	return nil
}

func slotOf(res *models.Reservation) models.Slot {
	return models.Slot{
		Type:   res.Type,
		Date:   res.Date,
		Time:   res.Time,
		Nights: res.Nights,
		People: res.People,
	}
}

// unitsFor returns how many capacity units a reservation consumes per
// occupied day: rooms for stays, seats for lunch tables.
func unitsFor(res *models.Reservation) (units, capacity int) {
	if res.Type == models.ReservationRoom {
		return availability.RoomsNeeded(res.People), availability.TotalRooms
	}
	return res.People, availability.DiningSeats
}

// CreatePending inserts the reservation in pending state. The capacity guard
// is a conditional update on the occupancy ledger executed in the same
// transaction as the insert, so concurrent creates for the last unit cannot
// both succeed: exactly one commits, the other aborts with ErrSlotTaken.
func (repo *MongoReservationRepo) CreatePending(ctx context.Context, res *models.Reservation) error {
	nights := availability.NightKeys(slotOf(res))
	if len(nights) == 0 {
		return fmt.Errorf("reservation %s has no parsable date", res.ID)
	}
	units, capacity := unitsFor(res)

	now := time.Now()
	res.Status = models.ReservationPending
	res.NightKeys = nights
	res.CreatedAt = now
	res.UpdatedAt = now

	client := repo.resColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		// Make sure a ledger row exists for every occupied day.
		for _, night := range nights {
			filter := bson.M{"type": res.Type, "night": night}
			update := bson.M{"$setOnInsert": bson.M{"type": res.Type, "night": night, "units": 0}}
			if _, err := repo.occColl.UpdateOne(sc, filter, update, options.Update().SetUpsert(true)); err != nil {
				return fmt.Errorf("occupancy upsert failed: %w", err)
			}
		}

		// The guard: only increment when the day still has room.
		for _, night := range nights {
			filter := bson.M{
				"type":  res.Type,
				"night": night,
				"units": bson.M{"$lte": capacity - units},
			}
			r, err := repo.occColl.UpdateOne(sc, filter, bson.M{"$inc": bson.M{"units": units}})
			if err != nil {
				return fmt.Errorf("occupancy guard failed: %w", err)
			}
			if r.MatchedCount == 0 {
				return ErrSlotTaken
			}
		}

		if _, err := repo.resColl.InsertOne(sc, res); err != nil {
			return fmt.Errorf("insert reservation failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrSlotTaken {
			return ErrSlotTaken
		}
		return fmt.Errorf("reservation transaction failed: %w", err)
	}

	return nil
}

// GetByID fetches one reservation.
func (repo *MongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	var res models.Reservation
	err := repo.resColl.FindOne(ctx, bson.M{"id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch reservation %s: %w", id, err)
	}
	return &res, nil
}

// Transition moves a pending reservation into a terminal state. Rejection
// releases the occupancy units the pending row was holding.
func (repo *MongoReservationRepo) Transition(ctx context.Context, id, to string) (*models.Reservation, error) {
	if to != models.ReservationConfirmed && to != models.ReservationRejected {
		return nil, fmt.Errorf("invalid target status %q", to)
	}

	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != models.ReservationPending {
		return nil, ErrNotPending
	}
	units, _ := unitsFor(current)

	client := repo.resColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		// Conditional on pending so two admins racing on the same row
		// cannot both transition it.
		r, err := repo.resColl.UpdateOne(sc,
			bson.M{"id": id, "status": models.ReservationPending},
			bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}},
		)
		if err != nil {
			return fmt.Errorf("status update failed: %w", err)
		}
		if r.MatchedCount == 0 {
			return ErrNotPending
		}

		if to == models.ReservationRejected {
			for _, night := range current.NightKeys {
				filter := bson.M{"type": current.Type, "night": night}
				if _, err := repo.occColl.UpdateOne(sc, filter, bson.M{"$inc": bson.M{"units": -units}}); err != nil {
					return fmt.Errorf("occupancy release failed: %w", err)
				}
			}
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrNotPending {
			return nil, ErrNotPending
		}
		return nil, fmt.Errorf("transition transaction failed: %w", err)
	}

	current.Status = to
	return current, nil
}

// ListByStatus returns reservations in one status, newest first.
func (repo *MongoReservationRepo) ListByStatus(ctx context.Context, status string) ([]models.Reservation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := repo.resColl.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, fmt.Errorf("list reservations by status %q: %w", status, err)
	}
	defer cur.Close(ctx)

	var out []models.Reservation
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode reservations: %w", err)
	}
	return out, nil
}

// FindOverlapping returns pending and confirmed reservations sharing at least
// one occupied day with the slot.
func (repo *MongoReservationRepo) FindOverlapping(ctx context.Context, slot models.Slot) ([]models.Reservation, error) {
	nights := availability.NightKeys(slot)
	if len(nights) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"type":       slot.Type,
		"status":     bson.M{"$in": []string{models.ReservationPending, models.ReservationConfirmed}},
		"night_keys": bson.M{"$in": nights},
	}
	cur, err := repo.resColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find overlapping reservations: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Reservation
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode overlapping reservations: %w", err)
	}
	return out, nil
}
