package application_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/restaurant-user-service/internal/application"
	"github.com/oksasatya/restaurant-user-service/internal/domain/entity"
	"github.com/oksasatya/restaurant-user-service/internal/domain/repository"
	"github.com/oksasatya/restaurant-user-service/internal/infrastructure/memory"
	handlers "github.com/oksasatya/restaurant-user-service/internal/interface/http"
	"github.com/oksasatya/restaurant-user-service/pkg/apperror"
	"github.com/oksasatya/restaurant-user-service/pkg/helpers"
)

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, eventType string, body any) error {
	return m.Called(ctx, eventType, body).Error(0)
}

// countingStore wraps the memory store, counts writes and can fail them.
type countingStore struct {
	*memory.Store
	creates   int
	updates   int
	saves     int
	existsErr error
	createErr error
	updateErr error
	saveErr   error

	// dropCredentials makes FindByID return users without credentials.
	dropCredentials bool
}

func (s *countingStore) CreateWithOwnedEntities(ctx context.Context, u *entity.User) error {
	s.creates++
	if s.createErr != nil {
		return s.createErr
	}
	return s.Store.CreateWithOwnedEntities(ctx, u)
}

func (s *countingStore) UpdateWithAddress(ctx context.Context, u *entity.User) error {
	s.updates++
	if s.updateErr != nil {
		return s.updateErr
	}
	return s.Store.UpdateWithAddress(ctx, u)
}

func (s *countingStore) Save(ctx context.Context, c *entity.Credentials) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.Store.Save(ctx, c)
}

func (s *countingStore) FindByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Store.FindByID(ctx, id)
	if err == nil && s.dropCredentials {
		u.Credentials = nil
	}
	return u, err
}

func (s *countingStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.Store.ExistsByEmail(ctx, email)
}

type fixture struct {
	store  *countingStore
	hasher *helpers.BcryptHasher
	users  *application.UserService
	creds  *application.CredentialsService
	addrs  *application.AddressService
}

func newFixture(t *testing.T, events *application.Notifier) *fixture {
	t.Helper()
	store := &countingStore{Store: memory.NewStore()}
	hasher := helpers.NewBcryptHasher(bcrypt.MinCost)
	logger := helpers.NewDiscardLogger()
	unique := application.NewUniquenessChecker(store, store)
	now := func() time.Time { return fixedNow }

	users := application.NewUserService(store, unique, hasher, logger, events)
	users.Now = now
	creds := application.NewCredentialsService(store, store, unique, hasher, logger, events)
	creds.Now = now
	addrs := application.NewAddressService(store, logger, events)
	addrs.Now = now

	return &fixture{store: store, hasher: hasher, users: users, creds: creds, addrs: addrs}
}

func validInput(name, email, ident, username string) *application.CreateUserInput {
	return &application.CreateUserInput{
		Name:               name,
		UserIdentification: ident,
		Email:              email,
		Profile:            entity.ProfileClient,
		Address: &application.AddressInput{
			Street:       "Rua das Flores",
			Number:       42,
			Complement:   "Apto 1",
			Neighborhood: "Boa Viagem",
			City:         "Recife",
			State:        "PE",
			Country:      "Brasil",
			PostalCode:   "51020-000",
		},
		Credentials: &application.CredentialsInput{Username: username, Password: "Str0ng!pass"},
	}
}

func (f *fixture) mustCreate(t *testing.T, in *application.CreateUserInput) application.UserView {
	t.Helper()
	v, err := f.users.CreateUser(context.Background(), in)
	require.NoError(t, err)
	return v
}

var errStoreDown = errors.New("store down")

// errRaceLost is what a store returns when a unique constraint fires after
// the application checks passed.
var errRaceLost = fmt.Errorf("insert row: %w", repository.ErrConflict)

// assertConflict checks err is a store conflict, kept apart from the
// application-level duplicate kinds, and that it renders as 409.
func assertConflict(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	for _, k := range []apperror.Kind{apperror.KindDuplicateEmail, apperror.KindDuplicateIdentification, apperror.KindDuplicateUsername} {
		assert.False(t, apperror.Is(err, k), "conflict reported as %s", k)
	}
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, http.StatusConflict, handlers.StatusOf(err))
}
