package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-user-service/internal/domain/entity"
	repo "github.com/oksasatya/restaurant-user-service/internal/domain/repository"
	"github.com/oksasatya/restaurant-user-service/pkg/apperror"
)

type CredentialsInput struct {
	Username string
	Password string
}

type CreateUserInput struct {
	Name               string
	UserIdentification string
	Email              string
	Profile            entity.Profile
	Address            *AddressInput
	Credentials        *CredentialsInput
}

type UpdateUserInput struct {
	Name               string
	UserIdentification string
	Email              string
	Profile            entity.Profile
	// Address is optional; when nil the stored address is left untouched.
	Address *AddressInput
}

// UserService manages the lifecycle of the user aggregate.
type UserService struct {
	Repo   repo.UserRepository
	Unique *UniquenessChecker
	Hasher PasswordHasher
	Logger *logrus.Logger
	Events *Notifier
	Now    func() time.Time
}

func NewUserService(r repo.UserRepository, unique *UniquenessChecker, hasher PasswordHasher, logger *logrus.Logger, events *Notifier) *UserService {
	return &UserService{
		Repo:   r,
		Unique: unique,
		Hasher: hasher,
		Logger: logger,
		Events: events,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// CreateUser validates and persists a new user with its address and
// credentials in a single write. Checks run in a fixed order and the first
// failure is returned.
func (s *UserService) CreateUser(ctx context.Context, in *CreateUserInput) (UserView, error) {
	if in == nil {
		return UserView{}, apperror.InvalidInput("user data is required")
	}
	if isBlank(in.Email) {
		return UserView{}, apperror.InvalidInput("email is required")
	}
	if isBlank(in.UserIdentification) {
		return UserView{}, apperror.InvalidInput("user identification is required")
	}
	if isBlank(in.Name) {
		return UserView{}, apperror.InvalidInput("name is required")
	}
	if in.Credentials == nil {
		return UserView{}, apperror.InvalidInput("credentials are required")
	}

	taken, err := s.Unique.EmailTaken(ctx, in.Email)
	if err != nil {
		return UserView{}, err
	}
	if taken {
		return UserView{}, apperror.New(apperror.KindDuplicateEmail, fmt.Sprintf("email %s is already in use", in.Email))
	}
	taken, err = s.Unique.IdentificationTaken(ctx, in.UserIdentification)
	if err != nil {
		return UserView{}, err
	}
	if taken {
		return UserView{}, apperror.New(apperror.KindDuplicateIdentification, fmt.Sprintf("user identification %s is already in use", in.UserIdentification))
	}
	username := strings.TrimSpace(in.Credentials.Username)
	taken, err = s.Unique.UsernameTaken(ctx, username)
	if err != nil {
		return UserView{}, err
	}
	if taken {
		return UserView{}, apperror.New(apperror.KindDuplicateUsername, fmt.Sprintf("username %s is already in use", username))
	}

	if username == "" {
		return UserView{}, apperror.InvalidInput("username is required")
	}
	if isBlank(in.Credentials.Password) {
		return UserView{}, apperror.InvalidInput("password is required")
	}
	if !in.Profile.Valid() {
		return UserView{}, apperror.InvalidInput(fmt.Sprintf("unknown profile %q", in.Profile))
	}

	hash, err := s.Hasher.Hash(in.Credentials.Password)
	if err != nil {
		return UserView{}, apperror.Internal("hash password", err)
	}

	now := s.Now()
	address := &entity.Address{}
	if in.Address != nil {
		in.Address.applyTo(address)
	}
	address.LastUpdate = now

	id := uuid.NewString()
	u := &entity.User{
		ID:                 id,
		Name:               in.Name,
		UserIdentification: in.UserIdentification,
		Email:              in.Email,
		Profile:            in.Profile,
		LastUpdate:         now,
		Address:            address,
		Credentials: &entity.Credentials{
			UserID:       id,
			Username:     username,
			PasswordHash: hash,
			LastUpdate:   now,
		},
	}
	if err := s.Repo.CreateWithOwnedEntities(ctx, u); err != nil {
		return UserView{}, s.writeError("create user", u.ID, err)
	}

	v := ToUserView(u)
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user created")
	}
	s.Events.UserChanged(ctx, EventUserCreated, v)
	return v, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]UserView, error) {
	users, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal("list users", err)
	}
	return toUserViews(users), nil
}

// GetUser returns the user with the given id. found is false when no such
// user exists; that is not an error.
func (s *UserService) GetUser(ctx context.Context, id string) (v UserView, found bool, err error) {
	if isBlank(id) {
		return UserView{}, false, apperror.InvalidInput("user id is required")
	}
	u, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return UserView{}, false, nil
	}
	if err != nil {
		return UserView{}, false, apperror.Internal("load user", err)
	}
	return ToUserView(u), true, nil
}

// SearchByName returns users whose name contains term, ignoring case.
func (s *UserService) SearchByName(ctx context.Context, term string) ([]UserView, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperror.InvalidInput("search term is required")
	}
	users, err := s.Repo.FindByNameContaining(ctx, term)
	if err != nil {
		return nil, apperror.Internal("search users", err)
	}
	return toUserViews(users), nil
}

// SearchDirectory queries the user directory search index. It returns an
// empty result when no index is configured.
func (s *UserService) SearchDirectory(ctx context.Context, q string, size int) ([]UserView, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.InvalidInput("search query is required")
	}
	if s.Events == nil || s.Events.Indexer == nil {
		return []UserView{}, nil
	}
	res, err := s.Events.Indexer.SearchUsers(ctx, q, size)
	if err != nil {
		return nil, apperror.Internal("search user directory", err)
	}
	return res, nil
}

// UpdateUser replaces the user's own fields and, when an address is given,
// the owned address. Credentials are never modified here.
func (s *UserService) UpdateUser(ctx context.Context, id string, in *UpdateUserInput) (UserView, error) {
	if isBlank(id) {
		return UserView{}, apperror.InvalidInput("user id is required")
	}
	if in == nil {
		return UserView{}, apperror.InvalidInput("user data is required")
	}
	if isBlank(in.Email) || isBlank(in.UserIdentification) || isBlank(in.Name) {
		return UserView{}, apperror.InvalidInput("name, email and user identification are required")
	}
	if !in.Profile.Valid() {
		return UserView{}, apperror.InvalidInput(fmt.Sprintf("unknown profile %q", in.Profile))
	}

	u, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return UserView{}, apperror.NotFound("user not found")
	}
	if err != nil {
		return UserView{}, apperror.Internal("load user", err)
	}

	if u.Email != in.Email {
		taken, err := s.Unique.EmailTaken(ctx, in.Email)
		if err != nil {
			return UserView{}, err
		}
		if taken {
			return UserView{}, apperror.New(apperror.KindDuplicateEmail, fmt.Sprintf("email %s is already in use", in.Email))
		}
	}
	if u.UserIdentification != in.UserIdentification {
		taken, err := s.Unique.IdentificationTaken(ctx, in.UserIdentification)
		if err != nil {
			return UserView{}, err
		}
		if taken {
			return UserView{}, apperror.New(apperror.KindDuplicateIdentification, fmt.Sprintf("user identification %s is already in use", in.UserIdentification))
		}
	}
	now := s.Now()
	u.Name = in.Name
	u.UserIdentification = in.UserIdentification
	u.Email = in.Email
	u.Profile = in.Profile
	u.LastUpdate = now
	if in.Address != nil {
		if u.Address == nil {
			u.Address = &entity.Address{}
		}
		in.Address.applyTo(u.Address)
		u.Address.LastUpdate = now
	}

	if err := s.Repo.UpdateWithAddress(ctx, u); err != nil {
		return UserView{}, s.writeError("update user", u.ID, err)
	}

	v := ToUserView(u)
	s.Events.UserChanged(ctx, EventUserUpdated, v)
	return v, nil
}

// DeleteUser removes the user with its address and credentials and returns
// the representation it had just before deletion. found is false when no
// such user exists.
func (s *UserService) DeleteUser(ctx context.Context, id string) (v UserView, found bool, err error) {
	if isBlank(id) {
		return UserView{}, false, apperror.InvalidInput("user id is required")
	}
	u, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return UserView{}, false, nil
	}
	if err != nil {
		return UserView{}, false, apperror.Internal("load user", err)
	}

	v = ToUserView(u)
	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return UserView{}, false, nil
		}
		return UserView{}, false, s.writeError("delete user", id, err)
	}

	if s.Logger != nil {
		s.Logger.WithField("user_id", id).Info("user deleted")
	}
	s.Events.UserDeleted(ctx, v, s.Now())
	return v, true, nil
}

// writeError classifies a failed write. A unique-constraint violation here
// means a concurrent request won the race after our checks passed.
func (s *UserService) writeError(op, userID string, err error) error {
	switch {
	case errors.Is(err, repo.ErrConflict):
		return apperror.Wrap(apperror.KindConflict, op+": conflicting concurrent write", err)
	case errors.Is(err, repo.ErrNotFound):
		return apperror.NotFound("user not found")
	}
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error(op + " failed")
	}
	return apperror.Internal(op, err)
}
