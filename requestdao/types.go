package requestdao

import "go.mongodb.org/mongo-driver/bson/primitive"

// Request is an inbound user request. Read flips once when an admin has
// looked at it; deletion is explicit.
type Request struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Message   string             `bson:"message" json:"message"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt int64              `bson:"created_at" json:"createdAt"`
}
