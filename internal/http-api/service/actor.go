package service

import "reviewhub/internal/http-api/models"

// Actor is the authenticated caller as seen by the services: identity plus
// capability. Handlers build it from the token claims the middleware stored.
type Actor struct {
	ID        string
	Username  string
	Role      models.Role
	Superuser bool
}

// IsAdmin reports administrative capability: the admin role or the superuser flag.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin || a.Superuser
}

// CanModerate reports whether the actor may edit or delete content they do
// not own. Moderators and admins can.
func (a Actor) CanModerate() bool {
	return a.Role == models.RoleModerator || a.IsAdmin()
}
