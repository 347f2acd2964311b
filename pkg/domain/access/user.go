package access

import "context"

// User is a person who signs in to the system.
type User struct {
	ID                 string   `json:"id" yaml:"id"`
	Name               string   `json:"name" yaml:"name"`
	Username           string   `json:"username" yaml:"username"`
	Email              string   `json:"email,omitempty" yaml:"email,omitempty"`
	Role               Role     `json:"role" yaml:"role"`
	OrganizationID     string   `json:"organizationId,omitempty" yaml:"organizationId,omitempty"`
	Active             bool     `json:"active" yaml:"active"`
	AccessibleProjects []string `json:"accessibleProjects,omitempty" yaml:"accessibleProjects,omitempty"`
}

// HasProject reports whether projectID is in the user's access list.
func (u User) HasProject(projectID string) bool {
	for _, p := range u.AccessibleProjects {
		if p == projectID {
			return true
		}
	}
	return false
}

// UserStore persists users.
type UserStore interface {
	Create(ctx context.Context, user User) (string, error)
	List(ctx context.Context) ([]User, error)
}

// FindUser returns the user with the given id or username.
func FindUser(users []User, key string) (User, bool) {
	for _, u := range users {
		if u.ID == key || u.Username == key {
			return u, true
		}
	}
	return User{}, false
}

type ctxKey struct{}

// WithUser attaches the acting user to ctx.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the acting user attached to ctx, if any.
func UserFrom(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKey{}).(User)
	return u, ok
}

// SystemActor is the actor recorded when no user is attached.
const SystemActor = "system"

// ActorFrom returns the acting user's id, or SystemActor.
func ActorFrom(ctx context.Context) string {
	if u, ok := UserFrom(ctx); ok {
		return u.ID
	}
	return SystemActor
}
