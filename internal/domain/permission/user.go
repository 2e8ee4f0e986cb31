package permission

import "slices"

const RoleSupervisor = "supervisor"

// User is the authenticated caller. It is built once per request and must not
// be mutated afterwards.
type User struct {
	AccountSID   string
	WorkerSID    string
	Roles        []string
	IsSystemUser bool
}

func NewUser(accountSID, workerSID string, roles []string, isSystemUser bool) User {
	return User{
		AccountSID:   accountSID,
		WorkerSID:    workerSID,
		Roles:        slices.Clone(roles),
		IsSystemUser: isSystemUser,
	}
}

func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

func (u User) IsSupervisor() bool {
	return u.HasRole(RoleSupervisor)
}
