package auth

import (
	"context"

	"dentalclinic/internal/models"

	"github.com/google/uuid"
)

// Principal người đang gọi, lấy từ access token
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   models.UserRole
}

// HasRole kiểm tra principal có thuộc một trong các role không
func (p Principal) HasRole(roles ...models.UserRole) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal gắn principal vào context
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext lấy principal từ context
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
