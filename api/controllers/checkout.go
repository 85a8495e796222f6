package controllers

import (
	"net/http"

	"github.com/torqueline/partsportal-backend/api/middleware"
	"github.com/torqueline/partsportal-backend/api/responses"
	"github.com/torqueline/partsportal-backend/api/validators"
	ordersvc "github.com/torqueline/partsportal-backend/internal/orders"
	pkgerrors "github.com/torqueline/partsportal-backend/pkg/errors"
	"github.com/torqueline/partsportal-backend/pkg/logger"
)

type checkoutRequest struct {
	DispatchMethod *string `json:"dispatch_method" validate:"omitempty,max=64"`
	PORef          *string `json:"po_ref" validate:"omitempty,max=64"`
	Notes          *string `json:"notes" validate:"omitempty,max=1024"`
}

// Checkout freezes the dealer's cart into an immutable order.
func Checkout(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		req := checkoutRequest{}
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		dto, err := svc.Checkout(r.Context(), actor, ordersvc.CheckoutInput{
			DispatchMethod: req.DispatchMethod,
			PORef:          req.PORef,
			Notes:          req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}
