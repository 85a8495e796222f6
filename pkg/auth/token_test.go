package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/torqueline/partsportal-backend/pkg/config"
	"github.com/torqueline/partsportal-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "partsportal-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{
		DealerUserID:    uuid.New(),
		DealerAccountID: uuid.New(),
		Entitlement:     enums.EntitlementShowAll,
	}

	token, err := MintAccessToken(cfg, time.Now(), payload)
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	require.Equal(t, payload.DealerUserID, claims.DealerUserID)
	require.Equal(t, payload.DealerAccountID, claims.DealerAccountID)
	require.Equal(t, payload.Entitlement, claims.Entitlement)
	require.NotEmpty(t, claims.ID)
}

func TestMintRejectsInvalidPayload(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	_, err := MintAccessToken(cfg, now, AccessTokenPayload{
		DealerAccountID: uuid.New(),
		Entitlement:     enums.EntitlementShowAll,
	})
	require.Error(t, err)

	_, err = MintAccessToken(cfg, now, AccessTokenPayload{
		DealerUserID:    uuid.New(),
		DealerAccountID: uuid.New(),
		Entitlement:     enums.Entitlement("WHATEVER"),
	})
	require.Error(t, err)
}

func TestParseRejectsWrongIssuerAndExpiry(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{
		DealerUserID:    uuid.New(),
		DealerAccountID: uuid.New(),
		Entitlement:     enums.EntitlementGenuineOnly,
	}

	token, err := MintAccessToken(cfg, time.Now(), payload)
	require.NoError(t, err)

	otherIssuer := cfg
	otherIssuer.Issuer = "someone-else"
	_, err = ParseAccessToken(otherIssuer, token)
	require.Error(t, err)

	expired, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), payload)
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, expired)
	require.Error(t, err)
}
