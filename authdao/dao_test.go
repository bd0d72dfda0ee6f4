package authdao

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	galadb "github.com/gala-events/gala-api/gala-db"
	"github.com/tj/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func withDAO(t *testing.T, callback func(ctx context.Context, dao *DAO)) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set; skipping integration test")
	}

	db := galadb.New(galadb.Config{
		URI:      uri,
		Database: fmt.Sprintf("gala-test-%v", time.Now().UnixNano()),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := db.Connect(ctx)
	assert.Nil(t, err)

	dao := Build(db)
	defer func() {
		coll, err := db.Collection(CollectionName)
		assert.Nil(t, err)
		assert.Nil(t, coll.Database().Drop(ctx))
	}()

	callback(ctx, dao)
}

func TestEnsureDefaults(t *testing.T) {
	withDAO(t, func(ctx context.Context, dao *DAO) {
		err := dao.EnsureDefaults(ctx)
		assert.Nil(t, err)

		coll, err := dao.db.Collection(dao.name)
		assert.Nil(t, err)

		n, err := coll.CountDocuments(ctx, bson.M{})
		assert.Nil(t, err)
		assert.EqualValues(t, 3, n)

		for _, role := range []string{"admin", "user", "assistant"} {
			n, err := coll.CountDocuments(ctx, bson.M{"role": role})
			assert.Nil(t, err)
			assert.EqualValues(t, 1, n)
		}

		// seeding is idempotent: a second pass creates nothing
		err = dao.EnsureDefaults(ctx)
		assert.Nil(t, err)

		n, err = coll.CountDocuments(ctx, bson.M{})
		assert.Nil(t, err)
		assert.EqualValues(t, 3, n)
	})
}

func TestEnsureDefaultsNeverOverwrites(t *testing.T) {
	withDAO(t, func(ctx context.Context, dao *DAO) {
		assert.Nil(t, dao.EnsureDefaults(ctx))
		assert.Nil(t, dao.UpdateCredential(ctx, "admin", "alice", "hunter2"))

		// the customized login must survive another seeding pass
		assert.Nil(t, dao.EnsureDefaults(ctx))

		cred, err := dao.FindByCredentials(ctx, "alice", "hunter2")
		assert.Nil(t, err)
		assert.Equal(t, "admin", cred.Role)
	})
}

func TestFindByCredentials(t *testing.T) {
	withDAO(t, func(ctx context.Context, dao *DAO) {
		assert.Nil(t, dao.EnsureDefaults(ctx))

		cred, err := dao.FindByCredentials(ctx, "user", "user123")
		assert.Nil(t, err)
		assert.Equal(t, "user", cred.Role)

		_, err = dao.FindByCredentials(ctx, "user", "wrong")
		assert.Equal(t, ErrNotFound, err)
	})
}
