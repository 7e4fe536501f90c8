package access

import "github.com/ledgerly/finance-api/internal/core/domain"

// privileged lists, per resource, the roles that see every row. Resources not
// listed fall back to admin only.
var privileged = map[Resource][]domain.Role{
	ResourceClients:  {domain.RoleAdmin, domain.RoleClientMgmt},
	ResourceInvoices: {domain.RoleAdmin, domain.RoleClientMgmt},
}

// Scope is the row-level predicate for a collection query: either every row
// or only rows whose user_id equals OwnerID.
type Scope struct {
	All     bool
	OwnerID string
}

// Matches evaluates the predicate against a row owner.
func (s Scope) Matches(ownerID string) bool {
	return s.All || ownerID == s.OwnerID
}

// Privileged reports whether role sees all rows of res.
func Privileged(res Resource, role domain.Role) bool {
	roles, ok := privileged[res]
	if !ok {
		return role == domain.RoleAdmin
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// ScopeFor narrows a collection query on res to what id may observe.
func ScopeFor(res Resource, id domain.Identity) Scope {
	if Privileged(res, id.Role) {
		return Scope{All: true}
	}
	return Scope{OwnerID: id.UserID}
}

// CanAccess is the single-record form of ScopeFor: callers fetch the row by
// id first, then check the owner.
func CanAccess(res Resource, id domain.Identity, ownerID string) bool {
	return ScopeFor(res, id).Matches(ownerID)
}
