// Package policy contains the pure authorization predicates for the API.
// A policy decision is a function of the action, the resource kind, the
// acting user's ID and the resource owner's ID; it never touches the store
// and has no side effects. Callers translate a denial into a 403 response
// without performing the mutation.
package policy

// Action is an operation a user may attempt on a resource.
type Action string

const (
	ActionViewAny Action = "viewAny"
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
)

// Resource is the kind of entity an action targets.
type Resource string

const (
	ResourcePost    Resource = "post"
	ResourceComment Resource = "comment"
)

// rule decides a single (resource, action) pair.
type rule int

const (
	deny rule = iota
	allow
	ownerOnly
)

// rules is the authorization table. Any authenticated user may view or
// create posts and comments; only the owner may update or delete them.
// Unlisted pairs are denied.
var rules = map[Resource]map[Action]rule{
	ResourcePost: {
		ActionViewAny: allow,
		ActionView:    allow,
		ActionCreate:  allow,
		ActionUpdate:  ownerOnly,
		ActionDelete:  ownerOnly,
	},
	ResourceComment: {
		ActionViewAny: allow,
		ActionView:    allow,
		ActionCreate:  allow,
		ActionUpdate:  ownerOnly,
		ActionDelete:  ownerOnly,
	},
}

// Ownable is any resource with an immutable owning user.
type Ownable interface {
	OwnerID() int64
}

// Allows reports whether actorID may perform action on the given kind of
// resource owned by ownerID.
func Allows(action Action, resource Resource, actorID, ownerID int64) bool {
	actions, ok := rules[resource]
	if !ok {
		return false
	}

	switch actions[action] {
	case allow:
		return true
	case ownerOnly:
		return actorID != 0 && actorID == ownerID
	default:
		return false
	}
}

// AllowsOn is a convenience wrapper over Allows for resources implementing
// Ownable.
func AllowsOn(action Action, resource Resource, actorID int64, target Ownable) bool {
	return Allows(action, resource, actorID, target.OwnerID())
}
