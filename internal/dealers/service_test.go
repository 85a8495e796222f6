package dealers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/torqueline/partsportal-backend/pkg/db/models"
	"github.com/torqueline/partsportal-backend/pkg/enums"
	pkgerrors "github.com/torqueline/partsportal-backend/pkg/errors"
)

type stubLoader struct {
	account *models.DealerAccount
	user    *models.DealerUser
}

func (s *stubLoader) FindAccountByID(ctx context.Context, id uuid.UUID) (*models.DealerAccount, error) {
	if s.account == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.account, nil
}

func (s *stubLoader) FindUserByID(ctx context.Context, id uuid.UUID) (*models.DealerUser, error) {
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func TestGetAccount(t *testing.T) {
	account := &models.DealerAccount{
		ID:          uuid.New(),
		AccountNo:   "ACC-42",
		CompanyName: "Torque Motors Ltd",
		Status:      enums.DealerStatusActive,
		Entitlement: enums.EntitlementShowAll,
	}
	svc, err := NewService(&stubLoader{account: account})
	require.NoError(t, err)

	dto, err := svc.GetAccount(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, "ACC-42", dto.AccountNo)
	require.Equal(t, enums.DealerStatusActive, dto.Status)
}

func TestGetAccountNotFound(t *testing.T) {
	svc, err := NewService(&stubLoader{})
	require.NoError(t, err)

	_, err = svc.GetAccount(context.Background(), uuid.New())
	require.Error(t, err)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestGetUserIncludesAccount(t *testing.T) {
	account := &models.DealerAccount{
		ID:          uuid.New(),
		AccountNo:   "ACC-42",
		CompanyName: "Torque Motors Ltd",
		Status:      enums.DealerStatusActive,
		Entitlement: enums.EntitlementGenuineOnly,
	}
	user := &models.DealerUser{
		ID:              uuid.New(),
		DealerAccountID: account.ID,
		Email:           "parts@torquemotors.example",
		DisplayName:     "Parts Desk",
		IsActive:        true,
		Account:         account,
	}
	svc, err := NewService(&stubLoader{user: user})
	require.NoError(t, err)

	dto, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "Parts Desk", dto.DisplayName)
	require.NotNil(t, dto.Account)
	require.Equal(t, enums.EntitlementGenuineOnly, dto.Account.Entitlement)
}
