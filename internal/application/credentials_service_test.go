package application_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/restaurant-user-service/internal/application"
	handlers "github.com/oksasatya/restaurant-user-service/internal/interface/http"
	"github.com/oksasatya/restaurant-user-service/pkg/apperror"
)

func TestUpdatePasswordThenVerify(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	u := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))

	ok, err := f.creds.VerifyLogin(ctx, "john", "Str0ng!pass")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, f.creds.UpdatePassword(ctx, u.ID, "N3w!secret"))

	ok, err = f.creds.VerifyLogin(ctx, "john", "N3w!secret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.creds.VerifyLogin(ctx, "john", "Str0ng!pass")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdatePasswordErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	u := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))

	assert.True(t, apperror.Is(f.creds.UpdatePassword(ctx, "missing", "N3w!secret"), apperror.KindNotFound))
	assert.True(t, apperror.Is(f.creds.UpdatePassword(ctx, "", "N3w!secret"), apperror.KindInvalidInput))
	assert.True(t, apperror.Is(f.creds.UpdatePassword(ctx, u.ID, "  "), apperror.KindInvalidInput))
}

func TestUpdateUsername(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	u := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))

	require.NoError(t, f.creds.UpdateUsername(ctx, u.ID, "  johnny "))

	v, _, err := f.users.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "johnny", v.Username)

	ok, err := f.creds.VerifyLogin(ctx, "johnny", "Str0ng!pass")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.creds.VerifyLogin(ctx, "john", "Str0ng!pass")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateUsernameErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	john := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))
	f.mustCreate(t, validInput("Ana", "ana@example.com", "123456789", "ana"))

	assert.True(t, apperror.Is(f.creds.UpdateUsername(ctx, john.ID, "ana"), apperror.KindDuplicateUsername))
	assert.True(t, apperror.Is(f.creds.UpdateUsername(ctx, john.ID, " "), apperror.KindInvalidInput))
	assert.True(t, apperror.Is(f.creds.UpdateUsername(ctx, "missing", "other"), apperror.KindNotFound))
}

func TestCredentialsMissing(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	u := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))
	f.store.dropCredentials = true

	for name, call := range map[string]func() error{
		"password": func() error { return f.creds.UpdatePassword(ctx, u.ID, "N3w!secret") },
		"username": func() error { return f.creds.UpdateUsername(ctx, u.ID, "johnny") },
	} {
		t.Run(name, func(t *testing.T) {
			err := call()
			assert.True(t, apperror.Is(err, apperror.KindCredentialsMissing), "got %v", err)
			assert.Equal(t, http.StatusNotFound, handlers.StatusOf(err))
		})
	}
	assert.Zero(t, f.store.saves)

	f.store.dropCredentials = false
	ok, err := f.creds.VerifyLogin(ctx, "john", "Str0ng!pass")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCredentialsSaveConflictIsDistinctFromDuplicate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	u := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))
	f.store.saveErr = errRaceLost

	assertConflict(t, f.creds.UpdateUsername(ctx, u.ID, "johnny"))
	assertConflict(t, f.creds.UpdatePassword(ctx, u.ID, "N3w!secret"))
	assert.Equal(t, 2, f.store.saves)

	ok, err := f.creds.VerifyLogin(ctx, "john", "Str0ng!pass")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyLoginUnknownOrBlank(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))

	for _, tc := range []struct{ user, pass string }{
		{"nobody", "Str0ng!pass"},
		{"", "Str0ng!pass"},
		{"john", ""},
	} {
		ok, err := f.creds.VerifyLogin(ctx, tc.user, tc.pass)
		assert.NoError(t, err)
		assert.False(t, ok, "%q/%q", tc.user, tc.pass)
	}
}

func TestCredentialsChangePublishesEvent(t *testing.T) {
	pub := &publisherMock{}
	pub.On("Publish", mock.Anything, application.EventUserCreated, mock.Anything).Return(nil)
	f := newFixture(t, application.NewNotifier(pub, nil, nil))
	u := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))

	pub.On("Publish", mock.Anything, application.EventCredentialsUpdated, mock.MatchedBy(func(ev application.UserEvent) bool {
		return ev.UserID == u.ID && len(ev.Changes) == 1 && ev.Changes[0] == "password" && ev.User == nil
	})).Return(nil).Once()

	require.NoError(t, f.creds.UpdatePassword(context.Background(), u.ID, "N3w!secret"))
	pub.AssertExpectations(t)
}
