package eventdao

import "go.mongodb.org/mongo-driver/bson/primitive"

// Event is a planned event with its running list of financial transactions
// embedded in the document.
type Event struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Date         string             `bson:"date,omitempty" json:"date,omitempty"`
	Budget       float64            `bson:"budget" json:"budget"`
	Archived     bool               `bson:"archived" json:"archived"`
	Transactions []Transaction      `bson:"transactions" json:"transactions"`
}

// Transaction is one line item inside an event. The ID is caller-supplied
// and only has to be unique within its event's list.
type Transaction struct {
	ID          string  `bson:"id" json:"id"`
	Description string  `bson:"description" json:"description"`
	Amount      float64 `bson:"amount" json:"amount"`
	Date        string  `bson:"date,omitempty" json:"date,omitempty"`
}
