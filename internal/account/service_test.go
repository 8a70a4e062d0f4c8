package account

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tacticalapi/internal/apperr"
	"tacticalapi/internal/auth"
	"tacticalapi/internal/config"
	"tacticalapi/internal/store"
	"tacticalapi/internal/store/storetest"
)

const testSecret = "test-secret"

var hex64 = regexp.MustCompile(`^[0-9a-f]{64}$`)

func newService(t *testing.T) (*Service, *storetest.Users, *auth.Issuer) {
	t.Helper()
	iss, err := auth.NewIssuer(testSecret)
	require.NoError(t, err)
	users := storetest.NewUsers()
	return NewService(users, iss, zap.NewNop().Sugar()), users, iss
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.KindOf(err), "error: %v", err)
}

func TestRegister_DuplicateEmailOrUsername(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ash", "ash@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ash", "other@x.com", "secret1")
	requireKind(t, err, apperr.KindConflict)

	_, err = svc.Register(ctx, "misty", "ASH@x.com", "secret1")
	requireKind(t, err, apperr.KindConflict)
	e, _ := apperr.As(err)
	assert.Equal(t, "User already exists with that email or username", e.Message)

	assert.Equal(t, 1, users.Len())
}

func TestUsernameLengthCountsTrimmedValue(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	for _, name := range []string{"  ab  ", "\tab\n", "   ", "  " + strings.Repeat("x", 21) + "  "} {
		_, err := svc.Register(ctx, name, "short@x.com", "secret1")
		requireKind(t, err, apperr.KindValidation)
		e, _ := apperr.As(err)
		assert.Equal(t, "Username must be between 3 and 20 characters", e.Message, "%q", name)
	}
	assert.Zero(t, users.Len())

	reg, err := svc.Register(ctx, "  ash  ", "ash@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ash", reg.User.Username)

	_, err = svc.UpdateMe(ctx, reg.User.ID, ProfileUpdate{Username: "  ab  "})
	requireKind(t, err, apperr.KindValidation)

	padded := " ab "
	_, err = svc.AdminUpdate(ctx, reg.User.ID, AdminUpdate{Username: &padded})
	requireKind(t, err, apperr.KindValidation)

	u, err := svc.Get(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ash", u.Username)
}

func TestRegister_RacingDuplicateIsConflict(t *testing.T) {
	svc, users, _ := newService(t)
	users.CreateErr = errors.Join(store.ErrDuplicateKey, errors.New("unique_violation"))

	_, err := svc.Register(context.Background(), "ash", "ash@x.com", "secret1")
	requireKind(t, err, apperr.KindConflict)
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, iss := newService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "ash", "ash@x.com", "secret1")
	require.NoError(t, err)
	assert.Regexp(t, hex64, reg.APIKey)
	require.NotNil(t, reg.User.APIKey)
	assert.Equal(t, reg.APIKey, *reg.User.APIKey)
	assert.NotEqual(t, "secret1", reg.User.PasswordHash)

	claims, err := iss.Verify(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)

	// Tokens carry second precision; move the clock so the new token differs.
	svc.now = func() time.Time { return time.Now().Add(2 * time.Second) }
	later, err := auth.NewIssuer(testSecret, auth.WithClock(svc.now))
	require.NoError(t, err)
	svc.issuer = later

	sess, err := svc.Login(ctx, "ash@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, sess.User.ID)
	assert.NotEqual(t, reg.Token, sess.Token)

	claims, err = iss.Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "ash", claims.Username)
	assert.False(t, claims.IsAdmin)
}

func TestLogin_SetsLastLogin(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ash", "ash@x.com", "secret1")
	require.NoError(t, err)

	first := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }
	_, err = svc.Login(ctx, "ash@x.com", "secret1")
	require.NoError(t, err)

	svc.now = func() time.Time { return first.Add(time.Minute) }
	_, err = svc.Login(ctx, "ash@x.com", "secret1")
	require.NoError(t, err)

	u, err := users.FindByEmail(ctx, "ash@x.com")
	require.NoError(t, err)
	require.NotNil(t, u.LastLogin)
	assert.True(t, u.LastLogin.After(first))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "ash", "ash@x.com", "secret1")
	require.NoError(t, err)

	for name, tc := range map[string]struct{ email, password string }{
		"unknown email":  {"nobody@x.com", "secret1"},
		"wrong password": {"ash@x.com", "secret2"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.email, tc.password)
			requireKind(t, err, apperr.KindUnauthenticated)
			e, _ := apperr.As(err)
			assert.Equal(t, "Invalid email or password", e.Message)
		})
	}
}

func TestLogin_StoreFailureIsInternal(t *testing.T) {
	svc, users, _ := newService(t)
	users.FindErr = errors.New("connection refused")

	_, err := svc.Login(context.Background(), "ash@x.com", "secret1")
	requireKind(t, err, apperr.KindInternal)
}

func TestRegenerateAPIKey(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, "ash", "ash@x.com", "secret1")
	require.NoError(t, err)

	key, err := svc.RegenerateAPIKey(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Regexp(t, hex64, key)
	assert.NotEqual(t, reg.APIKey, key)

	got, err := svc.APIKey(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = svc.APIKey(ctx, "missing")
	requireKind(t, err, apperr.KindNotFound)
}

func TestUpdateMe(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	ash, err := svc.Register(ctx, "ash", "ash@x.com", "secret1")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "misty", "misty@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.UpdateMe(ctx, ash.User.ID, ProfileUpdate{Email: "misty@x.com"})
	requireKind(t, err, apperr.KindValidation)

	_, err = svc.UpdateMe(ctx, ash.User.ID, ProfileUpdate{Username: "misty"})
	requireKind(t, err, apperr.KindValidation)

	u, err := svc.UpdateMe(ctx, ash.User.ID, ProfileUpdate{Username: "ashketchum", Email: " Ash@Pallet.com "})
	require.NoError(t, err)
	assert.Equal(t, "ashketchum", u.Username)
	assert.Equal(t, "ash@pallet.com", u.Email)

	// Unchanged values are not reported as taken by the caller itself.
	_, err = svc.UpdateMe(ctx, ash.User.ID, ProfileUpdate{Username: "ashketchum"})
	require.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, "ash", "ash@x.com", "secret1")
	require.NoError(t, err)
	id := reg.User.ID

	requireKind(t, svc.ChangePassword(ctx, id, "", "newsecret"), apperr.KindValidation)
	requireKind(t, svc.ChangePassword(ctx, id, "secret1", "short"), apperr.KindValidation)
	requireKind(t, svc.ChangePassword(ctx, id, "wrong", "newsecret"), apperr.KindUnauthenticated)
	requireKind(t, svc.ChangePassword(ctx, "missing", "secret1", "newsecret"), apperr.KindNotFound)

	require.NoError(t, svc.ChangePassword(ctx, id, "secret1", "newsecret"))

	_, err = svc.Login(ctx, "ash@x.com", "secret1")
	requireKind(t, err, apperr.KindUnauthenticated)
	_, err = svc.Login(ctx, "ash@x.com", "newsecret")
	require.NoError(t, err)
}

func TestLinkDiscord(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	ash, err := svc.Register(ctx, "ash", "ash@x.com", "secret1")
	require.NoError(t, err)
	misty, err := svc.Register(ctx, "misty", "misty@x.com", "secret1")
	require.NoError(t, err)

	requireKind(t, svc.LinkDiscord(ctx, ash.User.ID, "  "), apperr.KindValidation)
	require.NoError(t, svc.LinkDiscord(ctx, ash.User.ID, "1234"))
	// Relinking the same id to the same account is allowed.
	require.NoError(t, svc.LinkDiscord(ctx, ash.User.ID, "1234"))

	err = svc.LinkDiscord(ctx, misty.User.ID, "1234")
	requireKind(t, err, apperr.KindValidation)
	e, _ := apperr.As(err)
	assert.Equal(t, "Discord ID is already linked to another account", e.Message)

	me, err := svc.Me(ctx, ash.User.ID)
	require.NoError(t, err)
	require.NotNil(t, me.DiscordID)
	assert.Equal(t, "1234", *me.DiscordID)
}

func TestList_Pagination(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	for _, name := range []string{"ash", "brock", "misty"} {
		_, err := svc.Register(ctx, name, name+"@x.com", "secret1")
		require.NoError(t, err)
	}

	p, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, int64(3), p.Total)
	assert.Equal(t, 1, p.Pages)
	assert.Len(t, p.Users, 3)

	p, err = svc.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Pages)
	assert.Len(t, p.Users, 1)

	p, err = svc.List(ctx, 5, 2)
	require.NoError(t, err)
	assert.NotNil(t, p.Users)
	assert.Empty(t, p.Users)
}

func TestAdminUpdateAndDelete(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, "ash", "ash@x.com", "secret1")
	require.NoError(t, err)
	id := reg.User.ID

	bad := 4
	_, err = svc.AdminUpdate(ctx, id, AdminUpdate{AccessLevel: &bad})
	requireKind(t, err, apperr.KindValidation)

	yes, premium := true, 2
	u, err := svc.AdminUpdate(ctx, id, AdminUpdate{IsAdmin: &yes, AccessLevel: &premium})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.False(t, u.IsBotOwner)
	assert.Equal(t, 2, u.AccessLevel)
	assert.Equal(t, "ash", u.Username)

	_, err = svc.AdminUpdate(ctx, "missing", AdminUpdate{IsAdmin: &yes})
	requireKind(t, err, apperr.KindNotFound)

	require.NoError(t, svc.Delete(ctx, id))
	requireKind(t, svc.Delete(ctx, id), apperr.KindNotFound)
	_, err = svc.Get(ctx, id)
	requireKind(t, err, apperr.KindNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	svc, users, iss := newService(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, config.AdminSeed{Username: "admin"})
	require.NoError(t, err)
	assert.False(t, created)

	seed := config.AdminSeed{Username: "admin", Email: "admin@tactical.local", Password: "changeme"}
	created, err = svc.EnsureAdmin(ctx, seed)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, seed)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, users.Len())

	sess, err := svc.Login(ctx, seed.Email, seed.Password)
	require.NoError(t, err)
	claims, err := iss.Verify(sess.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	assert.True(t, claims.IsBotOwner)
}
