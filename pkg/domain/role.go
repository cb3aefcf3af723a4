package domain

import dErrors "nyaya/pkg/domain-errors"

// Role is the persona an actor signs in as.
// Invariant: the value must be one of the supported roles.
type Role string

const (
	RoleCitizen    Role = "citizen"
	RolePolice     Role = "police"
	RoleSupervisor Role = "supervisor" // SP or higher police authority
	RoleJudge      Role = "judge"
	RoleAdmin      Role = "admin"
)

var validRoles = map[Role]bool{
	RoleCitizen:    true,
	RolePolice:     true,
	RoleSupervisor: true,
	RoleJudge:      true,
	RoleAdmin:      true,
}

// ParseRole constructs a Role from external input (token claims, CLI flags).
//
// Errors: CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported role: "+s)
	}
	return r, nil
}

// IsValid reports whether r is a supported role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
