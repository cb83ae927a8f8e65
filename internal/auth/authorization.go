package auth

import (
	"context"

	apperrors "dentalclinic/internal/errors"
	"dentalclinic/internal/mediator"
	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"
)

// RoleRestricted request chỉ cho phép một số role gọi
type RoleRestricted interface {
	AllowedRoles() []models.UserRole
}

// Authorization behavior kiểm tra quyền trước khi tới handler
// Request không implement RoleRestricted được coi là mở
func Authorization() mediator.Behavior {
	return func(ctx context.Context, req any, next mediator.Next) (any, error) {
		restricted, ok := req.(RoleRestricted)
		if !ok {
			return next(ctx)
		}

		p, ok := PrincipalFromContext(ctx)
		if !ok {
			return nil, apperrors.WithMessage(apperrors.ErrUnauthorized, messages.Unauthorized)
		}
		if !p.HasRole(restricted.AllowedRoles()...) {
			return nil, apperrors.Forbidden(messages.Forbidden)
		}
		return next(ctx)
	}
}
