package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"max.ks1230/personal-ledger/internal/model/customerr"
)

func Test_OnSessions_ShouldFollowLoginLogoutLifecycle(t *testing.T) {
	sessions := NewSessions()

	_, ok := sessions.Current(42)
	assert.False(t, ok, "clients start unauthenticated")

	sessions.Login(42, Session{userID: 1, username: "alice"})
	current, ok := sessions.Current(42)
	assert.True(t, ok)
	assert.Equal(t, int64(1), current.UserID())

	_, ok = sessions.Current(43)
	assert.False(t, ok, "sessions are per client")

	assert.True(t, sessions.Logout(42))
	_, ok = sessions.Current(42)
	assert.False(t, ok)
	assert.False(t, sessions.Logout(42))
}

func Test_OnRequire_ShouldRejectZeroSession(t *testing.T) {
	assert.True(t, customerr.IsAuth(Session{}.Require()))
	assert.NoError(t, Session{userID: 3}.Require())
}

func Test_OnZeroSession_ShouldCarryNoUser(t *testing.T) {
	var s Session
	assert.Equal(t, int64(0), s.UserID())
	assert.Equal(t, "", s.Username())
	assert.False(t, s.Valid())
}
