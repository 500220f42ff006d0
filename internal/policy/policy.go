// Package policy decides who may do what to which resource.
//
// Every check is a pure function of the actor, the action and a resource variant
// carrying the owner ids that matter. Callers load the resource first (so a missing
// resource is reported as not found) and then ask CanPerform.
package policy

import "github.com/penwellapp/penwell-server/internal/domain"

// Action is an operation on a resource.
type Action string

// Actions.
const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actor is the identity performing a request. The zero value is anonymous.
type Actor struct {
	ID   int64
	Role domain.Role
}

// Anonymous returns the unauthenticated actor.
func Anonymous() Actor {
	return Actor{}
}

// ActorFor returns the actor for an authenticated user.
func ActorFor(u *domain.User) Actor {
	if u == nil {
		return Anonymous()
	}
	return Actor{ID: u.ID, Role: u.Role}
}

// IsAnonymous reports whether the actor is unauthenticated.
func (a Actor) IsAnonymous() bool {
	return a.ID == 0 || !a.Role.Valid()
}

// IsAdmin reports whether the actor is an authenticated admin.
func (a Actor) IsAdmin() bool {
	return !a.IsAnonymous() && a.Role == domain.RoleAdmin
}

// is reports whether the actor is the authenticated user with the given id.
func (a Actor) is(id int64) bool {
	return !a.IsAnonymous() && id != 0 && a.ID == id
}

// Resource is one of the resource variants below.
type Resource interface {
	allows(a Actor, action Action) bool
}

// Post is a blog post owned by OwnerID.
type Post struct {
	OwnerID int64
}

func (r Post) allows(a Actor, action Action) bool {
	switch action {
	case ActionRead:
		return true
	case ActionCreate:
		return a.IsAdmin()
	case ActionUpdate, ActionDelete:
		return a.IsAdmin() || a.is(r.OwnerID)
	}
	return false
}

// Category has no owner; only admins change categories.
type Category struct{}

func (Category) allows(a Actor, action Action) bool {
	switch action {
	case ActionRead:
		return true
	case ActionCreate, ActionUpdate, ActionDelete:
		return a.IsAdmin()
	}
	return false
}

// Comment is written by AuthorID on a post owned by PostOwnerID.
type Comment struct {
	AuthorID    int64
	PostOwnerID int64
}

func (r Comment) allows(a Actor, action Action) bool {
	switch action {
	case ActionRead:
		return true
	case ActionCreate:
		return !a.IsAnonymous()
	case ActionUpdate:
		return a.IsAdmin() || a.is(r.AuthorID)
	case ActionDelete:
		return a.IsAdmin() || a.is(r.AuthorID) || a.is(r.PostOwnerID)
	}
	return false
}

// User is the account OwnerID.
type User struct {
	OwnerID int64
}

func (r User) allows(a Actor, action Action) bool {
	switch action {
	case ActionRead, ActionCreate:
		return true
	case ActionUpdate, ActionDelete:
		return a.IsAdmin() || a.is(r.OwnerID)
	}
	return false
}

// UserDirectory is the list of all accounts.
type UserDirectory struct{}

func (UserDirectory) allows(a Actor, action Action) bool {
	return action == ActionRead && a.IsAdmin()
}

// Dashboard is the admin dashboard and comment browser.
type Dashboard struct{}

func (Dashboard) allows(a Actor, action Action) bool {
	return action == ActionRead && a.IsAdmin()
}

// CanPerform reports whether actor may perform action on resource.
// It never panics; unknown actions and a nil resource are denied.
func CanPerform(actor Actor, action Action, resource Resource) bool {
	if resource == nil {
		return false
	}
	return resource.allows(actor, action)
}

// EffectiveRole returns the role a user update should store. Only admins change
// roles; a non-admin's requested role is ignored. A nil or unknown requested
// role keeps the current one.
func EffectiveRole(actor Actor, current domain.Role, requested *domain.Role) domain.Role {
	if requested == nil || !requested.Valid() || !actor.IsAdmin() {
		return current
	}
	return *requested
}
