package schemas

// Role is the name of a position in the fixed privilege hierarchy.
type Role string

const (
	RoleGuest        Role = "GUEST"
	RoleUser         Role = "USER"
	RoleCreator      Role = "CREATOR"
	RoleCollaborator Role = "COLLABORATOR"
	RoleModerator    Role = "MODERATOR"
	RoleAdmin        Role = "ADMIN"
	RoleSuperAdmin   Role = "SUPER_ADMIN"
	RoleOwner        Role = "OWNER"
)

// roleRank totally orders the roles from least to most privileged.
var roleRank = map[Role]int{
	RoleGuest:        0,
	RoleUser:         1,
	RoleCreator:      2,
	RoleCollaborator: 3,
	RoleModerator:    4,
	RoleAdmin:        5,
	RoleSuperAdmin:   6,
	RoleOwner:        7,
}

// Rank returns the position of the role in the hierarchy. Unknown roles rank
// below GUEST so a forged role name never grants access.
func (r Role) Rank() int {
	rank, ok := roleRank[r]
	if !ok {
		return -1
	}
	return rank
}

// Valid reports whether the role is part of the hierarchy.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// HasRequiredRole decides authorization for a set of alternative minimum role
// thresholds. An empty requirement grants access unconditionally; otherwise the
// caller passes if their rank is at least the rank of any required role.
func HasRequiredRole(required []Role, current Role) bool {
	if len(required) == 0 {
		return true
	}

	currentRank := current.Rank()
	for _, role := range required {
		if role.Rank() <= currentRank {
			return true
		}
	}

	return false
}
