package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/torqueline/partsportal-backend/internal/dealers"
	"github.com/torqueline/partsportal-backend/pkg/enums"
)

type contextKey string

const (
	ctxDealerUserID    contextKey = "dealer_user_id"
	ctxDealerAccountID contextKey = "dealer_account_id"
	ctxEntitlement     contextKey = "entitlement"
)

// WithActor injects the authenticated dealer identity into the context.
func WithActor(ctx context.Context, actor dealers.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxDealerUserID, actor.UserID)
	ctx = context.WithValue(ctx, ctxDealerAccountID, actor.AccountID)
	return context.WithValue(ctx, ctxEntitlement, actor.Entitlement)
}

// ActorFromContext returns the dealer identity seeded by the auth middleware.
// The second return is false on unauthenticated requests.
func ActorFromContext(ctx context.Context) (dealers.Actor, bool) {
	if ctx == nil {
		return dealers.Actor{}, false
	}
	userID, ok := ctx.Value(ctxDealerUserID).(uuid.UUID)
	if !ok {
		return dealers.Actor{}, false
	}
	accountID, ok := ctx.Value(ctxDealerAccountID).(uuid.UUID)
	if !ok {
		return dealers.Actor{}, false
	}
	entitlement, ok := ctx.Value(ctxEntitlement).(enums.Entitlement)
	if !ok {
		return dealers.Actor{}, false
	}
	return dealers.Actor{UserID: userID, AccountID: accountID, Entitlement: entitlement}, true
}
