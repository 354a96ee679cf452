package identity

import "context"

// Role is the coarse authorization signal carried by every request.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

// Identity is the authenticated principal attached to a request. Policy code
// receives it explicitly rather than reading ambient session state.
type Identity struct {
	UserID int64
	Role   Role
}

func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

type ctxKey struct{}

func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
