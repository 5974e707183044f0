package appointment

import "context"

const (
	RoleMember = "member"
	RoleStaff  = "staff"
)

// Actor identifies the caller for audit purposes. Authorization decisions
// take explicit arguments instead.
type Actor struct {
	ID        uint
	Role      string
	RequestID string
}

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
