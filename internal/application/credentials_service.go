package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-user-service/internal/domain/entity"
	repo "github.com/oksasatya/restaurant-user-service/internal/domain/repository"
	"github.com/oksasatya/restaurant-user-service/pkg/apperror"
)

// CredentialsService updates usernames and passwords of existing users and
// checks logins. It is the only credential verification path.
type CredentialsService struct {
	Users       repo.UserRepository
	Credentials repo.CredentialsRepository
	Unique      *UniquenessChecker
	Hasher      PasswordHasher
	Logger      *logrus.Logger
	Events      *Notifier
	Now         func() time.Time
}

func NewCredentialsService(users repo.UserRepository, creds repo.CredentialsRepository, unique *UniquenessChecker, hasher PasswordHasher, logger *logrus.Logger, events *Notifier) *CredentialsService {
	return &CredentialsService{
		Users:       users,
		Credentials: creds,
		Unique:      unique,
		Hasher:      hasher,
		Logger:      logger,
		Events:      events,
		Now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *CredentialsService) UpdateUsername(ctx context.Context, userID, newUsername string) error {
	if isBlank(userID) {
		return apperror.InvalidInput("user id is required")
	}
	username := strings.TrimSpace(newUsername)
	if username == "" {
		return apperror.InvalidInput("username is required")
	}

	taken, err := s.Unique.UsernameTaken(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return apperror.New(apperror.KindDuplicateUsername, fmt.Sprintf("username %s is already in use", username))
	}

	creds, err := s.loadCredentials(ctx, userID)
	if err != nil {
		return err
	}
	now := s.Now()
	creds.Username = username
	creds.LastUpdate = now
	if err := s.save(ctx, creds); err != nil {
		return err
	}
	s.Events.CredentialsChanged(ctx, userID, "username", now)
	return nil
}

// UpdatePassword stores a fresh hash of newPassword. Complexity rules belong
// to request validation and are not re-checked here.
func (s *CredentialsService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if isBlank(userID) {
		return apperror.InvalidInput("user id is required")
	}
	if isBlank(newPassword) {
		return apperror.InvalidInput("password is required")
	}

	creds, err := s.loadCredentials(ctx, userID)
	if err != nil {
		return err
	}
	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return apperror.Internal("hash password", err)
	}
	now := s.Now()
	creds.PasswordHash = hash
	creds.LastUpdate = now
	if err := s.save(ctx, creds); err != nil {
		return err
	}
	s.Events.CredentialsChanged(ctx, userID, "password", now)
	return nil
}

// VerifyLogin reports whether password matches the stored hash for username.
// No session or token is issued.
func (s *CredentialsService) VerifyLogin(ctx context.Context, username, password string) (bool, error) {
	if isBlank(username) || password == "" {
		return false, nil
	}
	creds, err := s.Credentials.FindByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperror.Internal("load credentials", err)
	}
	return s.Hasher.Verify(password, creds.PasswordHash), nil
}

func (s *CredentialsService) loadCredentials(ctx context.Context, userID string) (*entity.Credentials, error) {
	u, err := s.Users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.NotFound("user not found")
	}
	if err != nil {
		return nil, apperror.Internal("load user", err)
	}
	if u.Credentials == nil {
		if s.Logger != nil {
			s.Logger.WithField("user_id", userID).Error("user has no credentials record")
		}
		return nil, apperror.New(apperror.KindCredentialsMissing, "credentials not found")
	}
	u.Credentials.UserID = u.ID
	return u.Credentials, nil
}

func (s *CredentialsService) save(ctx context.Context, c *entity.Credentials) error {
	err := s.Credentials.Save(ctx, c)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrConflict):
		return apperror.Wrap(apperror.KindConflict, "save credentials: conflicting concurrent write", err)
	case errors.Is(err, repo.ErrNotFound):
		return apperror.New(apperror.KindCredentialsMissing, "credentials not found")
	}
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", c.UserID).Error("save credentials failed")
	}
	return apperror.Internal("save credentials", err)
}
