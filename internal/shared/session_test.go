package shared

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionManager(client, "test_session", "secret", time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	sess.Set("theme", "dark")
	sess.SetPrincipal(json.RawMessage(`{"user_id":5,"username":"kim"}`))

	res := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, res, req, sess))

	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sess.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	// Reload through the cookie and observe the persisted state.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sess.ID})
	loaded, err := sm.Load(ctx, req2)
	require.NoError(t, err)
	assert.Equal(t, "dark", loaded.Get("theme"))
	assert.JSONEq(t, `{"user_id":5,"username":"kim"}`, string(loaded.Principal()))
}

func TestSessionDestroy(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.Set("k", "v")
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), req, sess))

	sm.Destroy(sess)
	res := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, res, req, sess))

	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sess.ID})
	loaded, err := sm.Load(ctx, req2)
	require.NoError(t, err)
	assert.Empty(t, loaded.Get("k"))
	assert.Empty(t, loaded.Principal())
}

func TestClearPrincipal(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.SetPrincipal(json.RawMessage(`{"user_id":1}`))
	sess.ClearPrincipal()
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), req, sess))

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sess.ID})
	loaded, err := sm.Load(ctx, req2)
	require.NoError(t, err)
	assert.Empty(t, loaded.Principal())
}

func TestCSRFTokenLifecycle(t *testing.T) {
	sm := newTestManager(t)
	csrf := NewCSRFManager("csrfsecret")
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)

	token, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// EnsureToken is stable within one session.
	again, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	assert.NoError(t, csrf.VerifyToken(ctx, sess, token))
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, "forged"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, ""), ErrCSRFTokenMissing)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, nil, token), ErrCSRFTokenMissing)
}
