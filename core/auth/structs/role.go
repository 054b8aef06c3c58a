package structs

import "fmt"

// Role of a principal. The set is closed; each Profile allows two of them.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// Profile is the deployment variant: which roles exist and which is elevated
type Profile string

const (
	ProfileTasks   Profile = "tasks"
	ProfileGrading Profile = "grading"
)

// ParseProfile validates a configured profile name
func ParseProfile(s string) (Profile, error) {
	switch p := Profile(s); p {
	case ProfileTasks, ProfileGrading:
		return p, nil
	default:
		return "", fmt.Errorf("unknown profile %q", s)
	}
}

// DefaultRole is assigned when no allowed role is requested
func (p Profile) DefaultRole() Role {
	switch p {
	case ProfileTasks:
		return RoleUser
	case ProfileGrading:
		return RoleStudent
	default:
		return RoleStudent
	}
}

// ElevatedRole needs the admin code to register or log in
func (p Profile) ElevatedRole() Role {
	switch p {
	case ProfileTasks:
		return RoleAdmin
	case ProfileGrading:
		return RoleTeacher
	default:
		return RoleTeacher
	}
}

// Roles lists the roles of the profile
func (p Profile) Roles() []Role {
	return []Role{p.DefaultRole(), p.ElevatedRole()}
}

// Allows reports whether r belongs to the profile
func (p Profile) Allows(r Role) bool {
	return r == p.DefaultRole() || r == p.ElevatedRole()
}

// ResolveRole maps a requested role onto the profile, falling back to the
// default role for anything outside it.
func (p Profile) ResolveRole(requested string) Role {
	r := Role(requested)
	if p.Allows(r) {
		return r
	}
	return p.DefaultRole()
}

// IsElevated reports whether r needs the admin code
func (p Profile) IsElevated(r Role) bool {
	return r == p.ElevatedRole()
}
