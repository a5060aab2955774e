package shroud

// Authorized reports whether p may see a value whose allow-list is allowed.
//
// The check fails closed: an empty allow-list never bypasses masking, and a
// missing or unauthenticated principal is never authorized. Otherwise the
// principal needs at least one role from allowed.
func Authorized(p Principal, allowed RoleSet) bool {
	if len(allowed) == 0 {
		return false
	}
	if !p.Authenticated {
		return false
	}
	return p.Roles.Intersects(allowed)
}

// Allows reports whether p may see the raw value of a field carrying d.
func (d Descriptor) Allows(p Principal) bool {
	return Authorized(p, d.roles)
}
