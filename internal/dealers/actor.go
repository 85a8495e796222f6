package dealers

import (
	"github.com/google/uuid"

	"github.com/torqueline/partsportal-backend/pkg/enums"
)

// Actor is the authenticated dealer identity threaded through service calls.
// It comes straight from verified JWT claims.
type Actor struct {
	UserID      uuid.UUID
	AccountID   uuid.UUID
	Entitlement enums.Entitlement
}
