package dealers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/torqueline/partsportal-backend/pkg/db/models"
	"github.com/torqueline/partsportal-backend/pkg/enums"
	pkgerrors "github.com/torqueline/partsportal-backend/pkg/errors"
)

// AccountDTO is the dealer account view exposed to other services.
type AccountDTO struct {
	ID          uuid.UUID          `json:"id"`
	AccountNo   string             `json:"account_no"`
	CompanyName string             `json:"company_name"`
	Status      enums.DealerStatus `json:"status"`
	Entitlement enums.Entitlement  `json:"entitlement"`
}

// UserDTO is a dealer user profile with its account attached.
type UserDTO struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	IsActive    bool        `json:"is_active"`
	Account     *AccountDTO `json:"account,omitempty"`
}

// Service exposes dealer account and user lookups.
type Service interface {
	GetAccount(ctx context.Context, accountID uuid.UUID) (*AccountDTO, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
}

type accountLoader interface {
	FindAccountByID(ctx context.Context, id uuid.UUID) (*models.DealerAccount, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.DealerUser, error)
}

type service struct {
	repo accountLoader
}

// NewService constructs a dealer service instance.
func NewService(repo accountLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dealer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetAccount(ctx context.Context, accountID uuid.UUID) (*AccountDTO, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dealer account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading dealer account")
	}
	return &AccountDTO{
		ID:          account.ID,
		AccountNo:   account.AccountNo,
		CompanyName: account.CompanyName,
		Status:      account.Status,
		Entitlement: account.Entitlement,
	}, nil
}

func (s *service) GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dealer user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading dealer user")
	}
	dto := &UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsActive:    user.IsActive,
	}
	if user.Account != nil {
		dto.Account = &AccountDTO{
			ID:          user.Account.ID,
			AccountNo:   user.Account.AccountNo,
			CompanyName: user.Account.CompanyName,
			Status:      user.Account.Status,
			Entitlement: user.Account.Entitlement,
		}
	}
	return dto, nil
}
