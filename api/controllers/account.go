package controllers

import (
	"net/http"

	"github.com/torqueline/partsportal-backend/api/middleware"
	"github.com/torqueline/partsportal-backend/api/responses"
	"github.com/torqueline/partsportal-backend/internal/dealers"
	pkgerrors "github.com/torqueline/partsportal-backend/pkg/errors"
	"github.com/torqueline/partsportal-backend/pkg/logger"
)

// AccountMe returns the requesting dealer's account profile.
func AccountMe(svc dealers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		dto, err := svc.GetAccount(r.Context(), actor.AccountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// ProfileMe returns the requesting dealer user with its account attached.
func ProfileMe(svc dealers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		dto, err := svc.GetUser(r.Context(), actor.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
