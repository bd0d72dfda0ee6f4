package requestdao

import (
	"context"
	"errors"
	"fmt"
	"time"

	galadb "github.com/gala-events/gala-api/gala-db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound indicates no request matched the given id.
var ErrNotFound = errors.New("request not found")

// DAO provides access to the requests collection.
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

func (d *DAO) List(ctx context.Context) ([]Request, error) {
	coll, err := d.db.Collection(d.name)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("unable to list requests: %w", err)
	}
	requests := []Request{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("unable to decode requests: %w", err)
	}
	return requests, nil
}

func (d *DAO) Create(ctx context.Context, r Request) (*Request, error) {
	coll, err := d.db.Collection(d.name)
	if err != nil {
		return nil, err
	}

	r.ID = primitive.NewObjectID()
	r.Read = false
	r.CreatedAt = time.Now().Unix()
	if _, err := coll.InsertOne(ctx, r); err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	return &r, nil
}

func (d *DAO) MarkRead(ctx context.Context, id string) error {
	coll, err := d.db.Collection(d.name)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("unable to mark request %v read: %w", id, err)
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
		return fmt.Errorf("unable to delete request %v: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
