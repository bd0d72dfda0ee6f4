package requestdao

import galadb "github.com/gala-events/gala-api/gala-db"

// Build creates a requests DAO using the standard collection name.
func Build(db *galadb.DB) *DAO {
	return New(db, CollectionName)
}

const CollectionName = "requests"
