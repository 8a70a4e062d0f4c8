package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_HashesAndNormalises(t *testing.T) {
	u, err := NewUser("  ash ", "  Ash@X.com ", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "ash", u.Username)
	assert.Equal(t, "ash@x.com", u.Email)
	assert.Equal(t, AccessBasic, u.AccessLevel)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$2"))
	assert.True(t, u.CheckPassword("secret1"))
	assert.False(t, u.CheckPassword("secret2"))
}

func TestSetPassword_OnlyPathThatChangesHash(t *testing.T) {
	u, err := NewUser("ash", "ash@x.com", "secret1")
	require.NoError(t, err)
	before := u.PasswordHash

	u.Username = "ashley"
	assert.Equal(t, before, u.PasswordHash)

	require.NoError(t, u.SetPassword("secret2"))
	assert.NotEqual(t, before, u.PasswordHash)
	assert.True(t, u.CheckPassword("secret2"))
}

func TestCheckPassword_EmptyHash(t *testing.T) {
	u := &User{}
	assert.False(t, u.CheckPassword(""))
}

func TestBeforeCreate_AssignsID(t *testing.T) {
	u := &User{}
	require.NoError(t, u.BeforeCreate(nil))
	assert.Len(t, u.ID, 36)
	assert.Equal(t, AccessBasic, u.AccessLevel)

	u2 := &User{ID: "fixed", AccessLevel: AccessAdmin}
	require.NoError(t, u2.BeforeCreate(nil))
	assert.Equal(t, "fixed", u2.ID)
	assert.Equal(t, AccessAdmin, u2.AccessLevel)
}

func TestIdentity(t *testing.T) {
	u := &User{ID: "id-1", Username: "ash", Email: "ash@x.com", IsAdmin: true}
	id := u.Identity()
	assert.Equal(t, "id-1", id.ID)
	assert.True(t, id.IsAdmin)
	assert.False(t, id.IsBotOwner)
}

func TestCommandUsageList_ValueScan(t *testing.T) {
	var nilList CommandUsageList
	v, err := nilList.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	var got CommandUsageList
	require.NoError(t, got.Scan([]byte(`[{"name":"help","uses":5832},{"name":"play","uses":4281}]`)))
	assert.Equal(t, CommandUsageList{{Name: "help", Uses: 5832}, {Name: "play", Uses: 4281}}, got)

	require.NoError(t, got.Scan(nil))
	assert.Empty(t, got)

	assert.Error(t, got.Scan(42))
	assert.Error(t, got.Scan("not json"))
}

func TestCommandUsageList_Top(t *testing.T) {
	l := CommandUsageList{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	assert.Len(t, l.Top(2), 2)
	assert.Len(t, l.Top(10), 3)
	assert.Len(t, l.Top(0), 3)
}
