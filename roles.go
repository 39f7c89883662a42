package authcore

import "fmt"

// AuthorizeRoles checks the already-resolved principal's role against the
// allowed set: case-sensitive exact match, no hierarchy, no wildcards. It
// is a pure function and must run only after authentication has populated
// the principal.
func AuthorizeRoles(p *Principal, allowed ...string) error {
	role := ""
	if p != nil {
		role = p.Role
	}

	for _, r := range allowed {
		if r == role {
			return nil
		}
	}

	return Forbidden(fmt.Sprintf("Role (%s) is not allowed to access this resource", role))
}
