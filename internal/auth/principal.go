package auth

import "strings"

// RoleAdministrator is the only role allowed to manage access tokens.
const RoleAdministrator = "administrator"

// Principal is the identity resolved from a verified bearer credential.
type Principal struct {
	ID    string
	Email string
	Role  string
}

// Tenant derives the multi-tenancy partition from the domain portion of the
// account email. Address-based partitioning is deliberately simple; an
// explicit tenant identifier would be the sturdier choice.
func (p Principal) Tenant() string {
	_, domain, ok := strings.Cut(p.Email, "@")
	if !ok {
		return ""
	}
	domain = strings.TrimSpace(strings.ToLower(domain))
	return domain
}

// IsAdministrator reports whether the principal carries the administrator role.
func (p Principal) IsAdministrator() bool {
	return p.Role == RoleAdministrator
}
