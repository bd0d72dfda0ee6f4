package authdao

import "go.mongodb.org/mongo-driver/bson/primitive"

// Credential is a login stored in the auth collection. Passwords are kept in
// clear text for parity with the legacy deployment; these records must never
// hold real secrets.
type Credential struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Role     string             `bson:"role" json:"role"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"-"`
}

// Defaults are the baseline logins created on first boot, one per role.
var Defaults = []Credential{
	{Role: "admin", Username: "admin", Password: "admin123"},
	{Role: "user", Username: "user", Password: "user123"},
	{Role: "assistant", Username: "assistant", Password: "assistant123"},
}
