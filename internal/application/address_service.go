package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-user-service/internal/domain/entity"
	repo "github.com/oksasatya/restaurant-user-service/internal/domain/repository"
	"github.com/oksasatya/restaurant-user-service/pkg/apperror"
)

// AddressService reads and updates a user's address through its owner.
type AddressService struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger
	Events *Notifier
	Now    func() time.Time
}

func NewAddressService(r repo.UserRepository, logger *logrus.Logger, events *Notifier) *AddressService {
	return &AddressService{
		Repo:   r,
		Logger: logger,
		Events: events,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *AddressService) GetAddressByUserID(ctx context.Context, userID string) (v AddressView, found bool, err error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return AddressView{}, false, err
	}
	if u.Address == nil {
		return AddressView{}, false, nil
	}
	return ToAddressView(u.Address), true, nil
}

func (s *AddressService) UpdateAddressByUserID(ctx context.Context, userID string, in *AddressInput) (AddressView, error) {
	if in == nil {
		return AddressView{}, apperror.InvalidInput("address data is required")
	}
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return AddressView{}, err
	}

	if u.Address == nil {
		u.Address = &entity.Address{}
	}
	in.applyTo(u.Address)
	u.Address.LastUpdate = s.Now()

	if err := s.Repo.UpdateWithAddress(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return AddressView{}, apperror.NotFound("user not found")
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("update address failed")
		}
		return AddressView{}, apperror.Internal("update address", err)
	}

	s.Events.UserChanged(ctx, EventUserUpdated, ToUserView(u))
	return ToAddressView(u.Address), nil
}

func (s *AddressService) loadUser(ctx context.Context, userID string) (*entity.User, error) {
	if isBlank(userID) {
		return nil, apperror.InvalidInput("user id is required")
	}
	u, err := s.Repo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.NotFound("user not found")
	}
	if err != nil {
		return nil, apperror.Internal("load user", err)
	}
	return u, nil
}
