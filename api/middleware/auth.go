package middleware

import (
	"net/http"
	"strings"

	"github.com/torqueline/partsportal-backend/api/responses"
	"github.com/torqueline/partsportal-backend/internal/dealers"
	pkgauth "github.com/torqueline/partsportal-backend/pkg/auth"
	"github.com/torqueline/partsportal-backend/pkg/config"
	pkgerrors "github.com/torqueline/partsportal-backend/pkg/errors"
	"github.com/torqueline/partsportal-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the dealer
// identity from the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if !claims.Entitlement.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token"))
				return
			}

			actor := dealers.Actor{
				UserID:      claims.DealerUserID,
				AccountID:   claims.DealerAccountID,
				Entitlement: claims.Entitlement,
			}
			ctx := WithActor(r.Context(), actor)

			if logg != nil {
				ctx = logg.WithDealerUserID(ctx, actor.UserID.String())
				ctx = logg.WithDealerAccountID(ctx, actor.AccountID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
