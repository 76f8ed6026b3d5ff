package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crucial707/highlow/internal/auth"
	"github.com/crucial707/highlow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "service-test-secret"

func newTestService(t *testing.T) (*UserService, *memStore) {
	t.Helper()
	store := newMemStore()
	svc := NewUserService(store, auth.NewHasher(bcrypt.MinCost), auth.NewIssuer([]byte(testSecret), time.Hour))
	return svc, store
}

func requireKind(t *testing.T, err error, kind Kind, msg string) {
	t.Helper()
	e, ok := AsError(err)
	require.True(t, ok, "expected *Error, got %v", err)
	assert.Equal(t, kind, e.Kind)
	assert.Equal(t, msg, e.Message)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestRegister_ThenLogin(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "Abcdef1!")
	require.NoError(t, err)
	assert.Positive(t, user.ID)
	assert.Equal(t, 100, user.Bank)
	assert.False(t, user.Administrator)

	stored, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef1!", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Abcdef1!")))

	res, err := svc.Login(ctx, "alice", "Abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)

	id, err := auth.NewIssuer([]byte(testSecret), time.Hour).Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, "alice", id.Subject)
}

func TestRegister_PolicyViolation(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.Register(context.Background(), "alice", "short")
	requireKind(t, err, KindValidation, auth.MsgPasswordTooShort)

	users, _ := store.List(context.Background())
	assert.Empty(t, users)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "", "Abcdef1!")
	requireKind(t, err, KindValidation, "Missing 'user_name' in request body")

	_, err = svc.Register(context.Background(), "alice", "")
	requireKind(t, err, KindValidation, "Missing 'password' in request body")
}

func TestRegister_UsernameTaken(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "Abcdef1!")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "Zyxwvu9@")
	requireKind(t, err, KindConflict, MsgUsernameTaken)

	users, _ := store.List(ctx)
	assert.Len(t, users, 1)
}

func TestRegister_RaceFallsBackToConstraint(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "Abcdef1!")
	require.NoError(t, err)

	store.skipUniqueOnLookup = true
	_, err = svc.Register(ctx, "alice", "Abcdef1!")
	requireKind(t, err, KindConflict, MsgUsernameTaken)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "Abcdef1!")
	require.NoError(t, err)

	_, wrongPass := svc.Login(ctx, "alice", "Abcdef1?")
	_, unknown := svc.Login(ctx, "mallory", "Abcdef1!")

	requireKind(t, wrongPass, KindAuthentication, MsgBadCredentials)
	requireKind(t, unknown, KindAuthentication, MsgBadCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestGetByID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, "alice", "Abcdef1!")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName)

	_, err = svc.GetByID(ctx, 123456)
	requireKind(t, err, KindNotFound, MsgUserNotFound)
}

func TestUpdate_Rules(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	alice, err := svc.Register(ctx, "alice", "Abcdef1!")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob", "Abcdef1!")
	require.NoError(t, err)

	tests := []struct {
		name  string
		patch UserPatch
		kind  Kind
		msg   string
	}{
		{"missing bank", UserPatch{UserName: strPtr("alice2")}, KindValidation, "Missing 'bank' in request body"},
		{"missing user_name", UserPatch{Bank: intPtr(5)}, KindValidation, "Missing 'user_name' in request body"},
		{"all falsy", UserPatch{UserName: strPtr(""), Bank: intPtr(0)}, KindValidation, MsgUpdateEmpty},
		{"negative bank", UserPatch{UserName: strPtr(""), Bank: intPtr(-1)}, KindValidation, MsgNegativeBank},
		{"rename onto taken", UserPatch{UserName: strPtr("bob"), Bank: intPtr(10)}, KindConflict, MsgUsernameTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireKind(t, svc.Update(ctx, alice.ID, tt.patch), tt.kind, tt.msg)
		})
	}

	got, err := svc.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName)
	assert.Equal(t, 100, got.Bank)
}

func TestUpdate_Applies(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	alice, err := svc.Register(ctx, "alice", "Abcdef1!")
	require.NoError(t, err)

	// empty name keeps the current one; bank is written
	require.NoError(t, svc.Update(ctx, alice.ID, UserPatch{UserName: strPtr(""), Bank: intPtr(250)}))
	got, _ := svc.GetByID(ctx, alice.ID)
	assert.Equal(t, models.User{ID: alice.ID, UserName: "alice", Password: alice.Password, Bank: 250}, *got)

	// keeping your own name is not a conflict; a zero balance is valid
	require.NoError(t, svc.Update(ctx, alice.ID, UserPatch{UserName: strPtr("alice"), Bank: intPtr(0)}))
	got, _ = svc.GetByID(ctx, alice.ID)
	assert.Equal(t, 0, got.Bank)

	require.NoError(t, svc.Update(ctx, alice.ID, UserPatch{UserName: strPtr("alicia"), Bank: intPtr(0)}))
	got, _ = svc.GetByID(ctx, alice.ID)
	assert.Equal(t, "alicia", got.UserName)

	requireKind(t, svc.Update(ctx, 999, UserPatch{UserName: strPtr(""), Bank: intPtr(1)}), KindNotFound, MsgUserNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	alice, err := svc.Register(ctx, "alice", "Abcdef1!")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, alice.ID))
	_, err = svc.GetByID(ctx, alice.ID)
	requireKind(t, err, KindNotFound, MsgUserNotFound)

	requireKind(t, svc.Delete(ctx, alice.ID), KindNotFound, MsgUserNotFound)
}

type failingStore struct {
	*memStore
	err error
}

func (f failingStore) GetByUsername(context.Context, string) (*models.User, error) {
	return nil, f.err
}

func TestInfrastructureErrorsPropagate(t *testing.T) {
	boom := errors.New("db down")
	svc := NewUserService(failingStore{memStore: newMemStore(), err: boom}, auth.NewHasher(bcrypt.MinCost), auth.NewIssuer([]byte("k"), time.Hour))

	_, err := svc.Register(context.Background(), "alice", "Abcdef1!")
	assert.ErrorIs(t, err, boom)
	_, ok := AsError(err)
	assert.False(t, ok)

	_, err = svc.Login(context.Background(), "alice", "Abcdef1!")
	assert.ErrorIs(t, err, boom)
}
