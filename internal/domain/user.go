package domain

// Role enumerates actor roles. Privilege ordering for cross-cutting
// mutations: ADMIN > SUPERVISOR > AGENT; PASSENGER only holds
// ownership-scoped rights on their own complaints.
type Role string

const (
	RolePassenger  Role = "PASSENGER"
	RoleAgent      Role = "AGENT"
	RoleSupervisor Role = "SUPERVISOR"
	RoleAdmin      Role = "ADMIN"
)

func (r Role) rank() int {
	switch r {
	case RoleAgent:
		return 1
	case RoleSupervisor:
		return 2
	case RoleAdmin:
		return 3
	}
	return 0
}

// AtLeast reports whether r carries at least the privileges of other.
func (r Role) AtLeast(other Role) bool {
	return r.rank() >= other.rank()
}

// User is the read-side view of an account. Profile management lives in a
// separate system; this service only resolves identities and roles.
type User struct {
	Auditable
	FirstName string
	LastName  string
	Email     string
	Role      Role
	Active    bool
}

// FullName is used in audit entries and notification bodies.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return u.LastName + " " + u.FirstName
}
