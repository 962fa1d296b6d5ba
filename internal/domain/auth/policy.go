package auth

// CanAccess decides whether an actor may read or change a resource owned by
// ownerID. Admins may touch anything; everyone else only their own records.
func CanAccess(actorRole string, actorID, ownerID int64) bool {
	if actorRole == RoleAdmin {
		return true
	}
	return actorID != 0 && actorID == ownerID
}

// Actor identifies the caller of a service operation.
type Actor struct {
	ID   int64
	Role string
}

func (a Actor) CanAccess(ownerID int64) bool {
	return CanAccess(a.Role, a.ID, ownerID)
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
