package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnlockWrongPIN(t *testing.T) {
	env := newTestEnv(t)
	env.Lock.Lock()

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/unlock", map[string]string{"pin": "0000"})
	require.NoError(t, env.LockH.Unlock(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.True(t, env.Lock.Locked())
}

func TestLockUnlockFlow(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/lock", nil)
	require.NoError(t, env.LockH.EngageLock(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Lock.Locked())

	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/lock", nil)
	require.NoError(t, env.LockH.GetLock(c))
	var state lockState
	decode(t, rec, &state)
	require.True(t, state.Locked)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/unlock", map[string]string{"pin": "1234"})
	require.NoError(t, env.LockH.Unlock(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, env.Lock.Locked())
}

func TestSetPINHandler(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/settings/pin",
		map[string]string{"currentPin": "0000", "newPin": "5678"})
	require.NoError(t, env.LockH.SetPIN(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/settings/pin",
		map[string]string{"currentPin": "1234", "newPin": "56"})
	require.NoError(t, env.LockH.SetPIN(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/settings/pin",
		map[string]string{"currentPin": "1234", "newPin": "5678"})
	require.NoError(t, env.LockH.SetPIN(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireUnlockedGate(t *testing.T) {
	env := newTestEnv(t)
	env.Lock.Lock()

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/sales", nil)
	require.NoError(t, env.LockH.RequireUnlocked()(env.SalesH.GetSales)(c))
	require.Equal(t, http.StatusLocked, rec.Code)
}
