package auth

// Identity is the authenticated caller. Role comes from the persisted user
// row, not from the token.
type Identity struct {
	UserID uint64
	Email  string
	Name   string
	Role   Role
}

func HasRole(id Identity, roles ...Role) bool {
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}

func IsOwner(ownerID uint64, id Identity) bool {
	return ownerID != 0 && ownerID == id.UserID
}

func IsOwnerOrAdmin(ownerID uint64, id Identity) bool {
	return IsOwner(ownerID, id) || id.Role == RoleAdmin
}
