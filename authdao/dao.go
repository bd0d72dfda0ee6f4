package authdao

import (
	"context"
	"errors"
	"fmt"

	galadb "github.com/gala-events/gala-api/gala-db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound indicates no credential matched the query.
var ErrNotFound = errors.New("credential not found")

// DAO provides access to the auth collection.
type DAO struct {
	db   *galadb.DB
	name string
}

// New creates an auth DAO backed by the named collection.
func New(db *galadb.DB, name string) *DAO {
	return &DAO{
		db:   db,
		name: name,
	}
}

// FindByCredentials looks up a login by username and password.
func (d *DAO) FindByCredentials(ctx context.Context, username, password string) (*Credential, error) {
	coll, err := d.db.Collection(d.name)
	if err != nil {
		return nil, err
	}

	var cred Credential
	filter := bson.M{"username": username, "password": password}
	if err := coll.FindOne(ctx, filter).Decode(&cred); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("unable to find credential for %v: %w", username, err)
	}
	return &cred, nil
}

// UpdateCredential replaces the username/password pair for a role.
func (d *DAO) UpdateCredential(ctx context.Context, role, username, password string) error {
	coll, err := d.db.Collection(d.name)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"username": username, "password": password}}
	res, err := coll.UpdateOne(ctx, bson.M{"role": role}, update)
	if err != nil {
		return fmt.Errorf("unable to update credential for role %v: %w", role, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureDefaults seeds the baseline logins: for each role, create the default
// credential if no record with that role exists. Existing records are never
// overwritten. The pass stops at the first error; partial seeding is
// accepted and never rolled back.
func (d *DAO) EnsureDefaults(ctx context.Context) error {
	coll, err := d.db.Collection(d.name)
	if err != nil {
		return err
	}

	for _, cred := range Defaults {
		n, err := coll.CountDocuments(ctx, bson.M{"role": cred.Role})
		if err != nil {
			return fmt.Errorf("unable to check role %v: %w", cred.Role, err)
		}
		if n > 0 {
			continue
		}
		if _, err := coll.InsertOne(ctx, cred); err != nil {
			return fmt.Errorf("unable to seed role %v: %w", cred.Role, err)
		}
	}
	return nil
}
