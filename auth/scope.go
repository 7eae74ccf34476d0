package auth

import "go.mongodb.org/mongo-driver/bson/primitive"

// Scope restricts which owned records an identity can reach. Admins see
// everything, everyone else only what they created.
type Scope struct {
	all   bool
	owner primitive.ObjectID
}

func ScopeFor(id Identity) Scope {
	if id.IsAdmin() {
		return Scope{all: true}
	}
	return Scope{owner: id.ID}
}

// Owner returns the createdBy value lists must be filtered on, or nil when
// the scope is unrestricted.
func (s Scope) Owner() *primitive.ObjectID {
	if s.all {
		return nil
	}
	owner := s.owner
	return &owner
}

func (s Scope) Allows(createdBy primitive.ObjectID) bool {
	return s.all || s.owner == createdBy
}
