package authdao

import galadb "github.com/gala-events/gala-api/gala-db"

// Build creates an auth DAO using the standard collection name.
func Build(db *galadb.DB) *DAO {
	return New(db, CollectionName)
}

// CollectionName is the collection holding login credentials.
const CollectionName = "auth"
