package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/torqueline/partsportal-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	DealerUserID    uuid.UUID
	DealerAccountID uuid.UUID
	Entitlement     enums.Entitlement
	JTI             string
}

// AccessTokenClaims represents the typed JWT issued to dealer users.
type AccessTokenClaims struct {
	DealerUserID    uuid.UUID         `json:"dealer_user_id"`
	DealerAccountID uuid.UUID         `json:"dealer_account_id"`
	Entitlement     enums.Entitlement `json:"entitlement"`
	jwt.RegisteredClaims
}
