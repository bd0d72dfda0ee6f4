package eventdao

import (
	"context"
	"errors"
	"fmt"

	galadb "github.com/gala-events/gala-api/gala-db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound indicates the event, or the transaction within it, does not
// exist. Malformed ids map here too: they cannot match any document.
var ErrNotFound = errors.New("event not found")

// DAO provides access to the events collection.
type DAO struct {
	db   *galadb.DB
	name string
}

func New(db *galadb.DB, name string) *DAO {
	return &DAO{
		db:   db,
		name: name,
	}
}

func (d *DAO) List(ctx context.Context) ([]Event, error) {
	coll, err := d.db.Collection(d.name)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("unable to list events: %w", err)
	}
	events := []Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("unable to decode events: %w", err)
	}
	return events, nil
}

func (d *DAO) Find(ctx context.Context, id string) (*Event, error) {
	coll, err := d.db.Collection(d.name)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var ev Event
	if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("unable to find event %v: %w", id, err)
	}
	return &ev, nil
}

func (d *DAO) Create(ctx context.Context, ev Event) (*Event, error) {
	coll, err := d.db.Collection(d.name)
	if err != nil {
		return nil, err
	}

	ev.ID = primitive.NewObjectID()
	if ev.Transactions == nil {
		ev.Transactions = []Transaction{}
	}
	if _, err := coll.InsertOne(ctx, ev); err != nil {
		return nil, fmt.Errorf("unable to create event: %w", err)
	}
	return &ev, nil
}

// Update replaces the event's scalar fields. The embedded transaction list
// is managed only through the transaction operations below.
func (d *DAO) Update(ctx context.Context, id string, ev Event) error {
	coll, err := d.db.Collection(d.name)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":    ev.Title,
		"date":     ev.Date,
		"budget":   ev.Budget,
		"archived": ev.Archived,
	}}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("unable to update event %v: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DAO) Delete(ctx context.Context, id string) error {
	coll, err := d.db.Collection(d.name)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("unable to delete event %v: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DAO) AddTransaction(ctx context.Context, id string, tx Transaction) error {
	coll, err := d.db.Collection(d.name)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{"$push": bson.M{"transactions": tx}}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("unable to add transaction to event %v: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateTransaction replaces the transaction with the given caller-supplied
// id inside the event's embedded list.
func (d *DAO) UpdateTransaction(ctx context.Context, id, txID string, tx Transaction) error {
	coll, err := d.db.Collection(d.name)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	tx.ID = txID
	filter := bson.M{"_id": oid, "transactions.id": txID}
	update := bson.M{"$set": bson.M{"transactions.$": tx}}
	res, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("unable to update transaction %v on event %v: %w", txID, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DAO) DeleteTransaction(ctx context.Context, id, txID string) error {
	coll, err := d.db.Collection(d.name)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{"$pull": bson.M{"transactions": bson.M{"id": txID}}}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("unable to delete transaction %v on event %v: %w", txID, id, err)
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}
