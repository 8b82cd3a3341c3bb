package domain

// Action is an operation an actor attempts on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// Decision is the outcome of the access control policy.
type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

func (d Decision) String() string {
	if d {
		return "allow"
	}
	return "deny"
}

// Resource is anything the policy can rule on.
type Resource interface {
	// ResourceType names the resource for logs and metrics.
	ResourceType() string
	// OwnerID is the account that owns the resource, 0 when none does.
	OwnerID() int64
}

func (a *Announcement) ResourceType() string { return "announcement" }
func (a *Announcement) OwnerID() int64       { return a.AuthorID }

func (u *User) ResourceType() string { return "user" }
func (u *User) OwnerID() int64       { return u.ID }

// UserDirectory stands for the set of all accounts. Listing it and removing
// other people's accounts require administrative scope.
type UserDirectory struct{}

func (UserDirectory) ResourceType() string { return "user_directory" }
func (UserDirectory) OwnerID() int64       { return 0 }

// Decide is the access control policy. Ownership and the administrator role
// are the only grants.
func Decide(actor *Actor, action Action, resource Resource) Decision {
	switch r := resource.(type) {
	case *Announcement:
		return decideAnnouncement(actor, action, r)
	case *User:
		return decideUser(actor, action, r)
	case UserDirectory, *UserDirectory:
		return Decision(actor.IsAdministrator())
	default:
		return Deny
	}
}

func decideAnnouncement(actor *Actor, action Action, a *Announcement) Decision {
	switch action {
	case ActionRead, ActionList:
		return Allow
	case ActionWrite, ActionDelete:
		if actor == nil {
			return Deny
		}
		return Decision(actor.ID == a.AuthorID || actor.IsAdministrator())
	default:
		return Deny
	}
}

func decideUser(actor *Actor, action Action, u *User) Decision {
	if actor == nil {
		return Deny
	}
	self := actor.ID == u.ID
	switch action {
	case ActionRead:
		return Decision(self || actor.IsAdministrator())
	case ActionWrite:
		return Decision(self)
	case ActionList, ActionDelete:
		return Decision(actor.IsAdministrator())
	default:
		return Deny
	}
}
