package application_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/restaurant-user-service/internal/application"
	"github.com/oksasatya/restaurant-user-service/internal/domain/entity"
	"github.com/oksasatya/restaurant-user-service/pkg/apperror"
)

func TestCreateUser(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	v, err := f.users.CreateUser(ctx, validInput("John Silva", "john@example.com", "12345678901", "john"))
	require.NoError(t, err)

	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "John Silva", v.Name)
	assert.Equal(t, "john", v.Username)
	assert.Equal(t, fixedNow, v.LastUpdate)
	require.NotNil(t, v.Address)
	assert.Equal(t, "51020-000", v.Address.PostalCode)
	assert.Equal(t, fixedNow, v.Address.LastUpdate)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "Str0ng!pass")
	assert.NotContains(t, string(b), "password")

	stored, err := f.store.FindByID(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Credentials)
	assert.NotEqual(t, "Str0ng!pass", stored.Credentials.PasswordHash)
	assert.True(t, f.hasher.Verify("Str0ng!pass", stored.Credentials.PasswordHash))
	assert.Equal(t, fixedNow, stored.Credentials.LastUpdate)
}

func TestCreateUserWithoutAddressGetsEmptyOwnedAddress(t *testing.T) {
	f := newFixture(t, nil)
	in := validInput("John", "john@example.com", "12345678901", "john")
	in.Address = nil

	v := f.mustCreate(t, in)
	require.NotNil(t, v.Address)
	assert.Equal(t, fixedNow, v.Address.LastUpdate)
}

func TestCreateUserValidationOrder(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		desc   string
		mutate func(in *application.CreateUserInput)
		kind   apperror.Kind
	}{
		{desc: "blank email", mutate: func(in *application.CreateUserInput) { in.Email = "  " }, kind: apperror.KindInvalidInput},
		{desc: "blank identification", mutate: func(in *application.CreateUserInput) { in.UserIdentification = "" }, kind: apperror.KindInvalidInput},
		{desc: "blank name", mutate: func(in *application.CreateUserInput) { in.Name = "" }, kind: apperror.KindInvalidInput},
		{desc: "missing credentials and duplicate email", mutate: func(in *application.CreateUserInput) {
			in.Credentials = nil
			in.Email = "taken@example.com"
		}, kind: apperror.KindInvalidInput},
		{desc: "duplicate email", mutate: func(in *application.CreateUserInput) { in.Email = "taken@example.com" }, kind: apperror.KindDuplicateEmail},
		{desc: "duplicate email wins over duplicate identification", mutate: func(in *application.CreateUserInput) {
			in.Email = "taken@example.com"
			in.UserIdentification = "11111111111"
		}, kind: apperror.KindDuplicateEmail},
		{desc: "duplicate identification", mutate: func(in *application.CreateUserInput) { in.UserIdentification = "11111111111" }, kind: apperror.KindDuplicateIdentification},
		{desc: "duplicate username", mutate: func(in *application.CreateUserInput) { in.Credentials.Username = "taken" }, kind: apperror.KindDuplicateUsername},
		{desc: "blank username", mutate: func(in *application.CreateUserInput) { in.Credentials.Username = " " }, kind: apperror.KindInvalidInput},
		{desc: "blank password", mutate: func(in *application.CreateUserInput) { in.Credentials.Password = "" }, kind: apperror.KindInvalidInput},
		{desc: "unknown profile", mutate: func(in *application.CreateUserInput) { in.Profile = "chef" }, kind: apperror.KindInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			f := newFixture(t, nil)
			f.mustCreate(t, validInput("Existing", "taken@example.com", "11111111111", "taken"))
			writes := f.store.creates

			in := validInput("New User", "new@example.com", "22222222222", "newuser")
			tc.mutate(in)
			_, err := f.users.CreateUser(ctx, in)

			require.Error(t, err)
			assert.Equal(t, tc.kind, apperror.KindOf(err), err.Error())
			assert.Equal(t, writes, f.store.creates, "no write may happen on a rejected create")
		})
	}
}

func TestCreateUserNilInput(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.users.CreateUser(context.Background(), nil)
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
}

func TestCreateUserStoreFailureIsInternal(t *testing.T) {
	f := newFixture(t, nil)
	f.store.existsErr = errStoreDown

	_, err := f.users.CreateUser(context.Background(), validInput("John", "john@example.com", "12345678901", "john"))
	assert.True(t, apperror.Is(err, apperror.KindInternal))
	assert.ErrorIs(t, err, errStoreDown)
	assert.Zero(t, f.store.creates)
}

func TestCreateUserStoreConflictIsDistinctFromDuplicate(t *testing.T) {
	f := newFixture(t, nil)
	f.store.createErr = errRaceLost

	_, err := f.users.CreateUser(context.Background(), validInput("John", "john@example.com", "12345678901", "john"))
	assertConflict(t, err)
	assert.Equal(t, 1, f.store.creates)

	users, err := f.users.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestCreateUserPublishesEvent(t *testing.T) {
	pub := &publisherMock{}
	pub.On("Publish", mock.Anything, application.EventUserCreated, mock.MatchedBy(func(ev application.UserEvent) bool {
		return ev.User != nil && ev.User.Username == "john" && ev.UserID == ev.User.ID
	})).Return(nil).Once()

	f := newFixture(t, application.NewNotifier(pub, nil, nil))
	f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))

	pub.AssertExpectations(t)
}

func TestCreateUserSucceedsWhenPublishFails(t *testing.T) {
	pub := &publisherMock{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errStoreDown)

	f := newFixture(t, application.NewNotifier(pub, nil, nil))
	_, err := f.users.CreateUser(context.Background(), validInput("John", "john@example.com", "12345678901", "john"))
	assert.NoError(t, err)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	empty, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))
	f.mustCreate(t, validInput("Ana", "ana@example.com", "123456789", "ana"))

	all, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ana", all[0].Username)
	assert.Equal(t, "john", all[1].Username)
}

func TestGetUser(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	created := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))

	first, found, err := f.users.GetUser(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	second, _, err := f.users.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, created, first)

	_, found, err = f.users.GetUser(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, found)

	_, _, err = f.users.GetUser(ctx, "")
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
}

func TestSearchByName(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))
	f.mustCreate(t, validInput("Joana", "joana@example.com", "123456789", "joana"))
	f.mustCreate(t, validInput("Maria", "maria@example.com", "98765432100", "maria"))

	got, err := f.users.SearchByName(ctx, "jo")
	require.NoError(t, err)
	names := make([]string, 0, len(got))
	for _, v := range got {
		names = append(names, v.Name)
	}
	assert.ElementsMatch(t, []string{"John", "Joana"}, names)

	got, err = f.users.SearchByName(ctx, "  MARIA ")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = f.users.SearchByName(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, term := range []string{"", "   "} {
		_, err := f.users.SearchByName(ctx, term)
		assert.True(t, apperror.Is(err, apperror.KindInvalidInput), "term %q", term)
	}
}

func TestSearchDirectoryWithoutIndex(t *testing.T) {
	f := newFixture(t, nil)
	got, err := f.users.SearchDirectory(context.Background(), "john", 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = f.users.SearchDirectory(context.Background(), " ", 10)
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
}

func updateFrom(v application.UserView) *application.UpdateUserInput {
	return &application.UpdateUserInput{
		Name:               v.Name,
		UserIdentification: v.UserIdentification,
		Email:              v.Email,
		Profile:            v.Profile,
	}
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	created := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))

	in := updateFrom(created)
	in.Name = "John Updated"
	in.Profile = entity.ProfileOwner
	in.Address = &application.AddressInput{Street: "Av. Norte", Number: 7, City: "Olinda", State: "PE", Country: "Brasil", PostalCode: "53000-000"}

	v, err := f.users.UpdateUser(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "John Updated", v.Name)
	assert.Equal(t, entity.ProfileOwner, v.Profile)
	assert.Equal(t, "john", v.Username)
	require.NotNil(t, v.Address)
	assert.Equal(t, "Olinda", v.Address.City)

	stored, err := f.store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, f.hasher.Verify("Str0ng!pass", stored.Credentials.PasswordHash), "credentials must be untouched")
}

func TestUpdateUserWithoutAddressKeepsAddress(t *testing.T) {
	f := newFixture(t, nil)
	created := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))

	v, err := f.users.UpdateUser(context.Background(), created.ID, updateFrom(created))
	require.NoError(t, err)
	assert.Equal(t, created.Address, v.Address)
}

func TestUpdateUserErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	john := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))
	ana := f.mustCreate(t, validInput("Ana", "ana@example.com", "123456789", "ana"))

	_, err := f.users.UpdateUser(ctx, "missing", updateFrom(john))
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.users.UpdateUser(ctx, "", updateFrom(john))
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	_, err = f.users.UpdateUser(ctx, john.ID, nil)
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	in := updateFrom(john)
	in.Email = ana.Email
	_, err = f.users.UpdateUser(ctx, john.ID, in)
	assert.True(t, apperror.Is(err, apperror.KindDuplicateEmail))

	in = updateFrom(john)
	in.UserIdentification = ana.UserIdentification
	_, err = f.users.UpdateUser(ctx, john.ID, in)
	assert.True(t, apperror.Is(err, apperror.KindDuplicateIdentification))
}

func TestUpdateUserStoreConflictIsDistinctFromDuplicate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	u := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))
	f.store.updateErr = errRaceLost

	_, err := f.users.UpdateUser(ctx, u.ID, &application.UpdateUserInput{
		Name:               "John",
		UserIdentification: "12345678901",
		Email:              "new@example.com",
		Profile:            entity.ProfileClient,
	})
	assertConflict(t, err)
	assert.Equal(t, 1, f.store.updates)

	v, _, err := f.users.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", v.Email)
}

func TestUpdateUserInvalidProfileCheckedBeforeUniqueness(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	john := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))
	f.mustCreate(t, validInput("Ana", "ana@example.com", "123456789", "ana"))

	_, err := f.users.UpdateUser(ctx, john.ID, &application.UpdateUserInput{
		Name:               "John",
		UserIdentification: "123456789",
		Email:              "ana@example.com",
		Profile:            entity.Profile("superuser"),
	})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput), "got %v", err)
	assert.Zero(t, f.store.updates)
}

func TestUpdateUserKeepingOwnEmailSkipsUniquenessCheck(t *testing.T) {
	f := newFixture(t, nil)
	created := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))
	// any call to ExistsByEmail would now fail
	f.store.existsErr = errStoreDown

	in := updateFrom(created)
	in.Name = "Johnny"
	v, err := f.users.UpdateUser(context.Background(), created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Johnny", v.Name)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	created := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))

	v, found, err := f.users.DeleteUser(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, created, v)

	_, found, err = f.users.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found)
	taken, err := f.store.ExistsByUsername(ctx, "john")
	require.NoError(t, err)
	assert.False(t, taken, "credentials must be deleted with the user")

	_, found, err = f.users.DeleteUser(ctx, created.ID)
	assert.NoError(t, err)
	assert.False(t, found)

	_, _, err = f.users.DeleteUser(ctx, " ")
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
}

func TestDeleteUserPublishesCapturedView(t *testing.T) {
	pub := &publisherMock{}
	pub.On("Publish", mock.Anything, application.EventUserCreated, mock.Anything).Return(nil)
	f := newFixture(t, application.NewNotifier(pub, nil, nil))
	created := f.mustCreate(t, validInput("John", "john@example.com", "12345678901", "john"))

	pub.On("Publish", mock.Anything, application.EventUserDeleted, mock.MatchedBy(func(ev application.UserEvent) bool {
		return ev.UserID == created.ID && ev.User != nil && ev.User.Email == created.Email
	})).Return(nil).Once()

	_, _, err := f.users.DeleteUser(context.Background(), created.ID)
	require.NoError(t, err)
	pub.AssertExpectations(t)
}
