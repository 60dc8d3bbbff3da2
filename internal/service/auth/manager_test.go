package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anarmmdv/bazar/pkg/clients/supabase"
)

// newAuthBackend stands in for the hosted auth service: one known
// credential pair, everything else rejected.
func newAuthBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/v1/token":
			_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":3600,"user":{"id":"u1","email":"me@bazar.az"}}`))
		case "/auth/v1/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	srv := newAuthBackend(t)
	return NewManager(supabase.NewClient(srv.URL, "anon-key"), nil)
}

func TestSignInEstablishesSession(t *testing.T) {
	m := newTestManager(t)

	session, err := m.SignIn(context.Background(), "me@bazar.az", "secret")
	require.NoError(t, err)

	assert.Equal(t, "tok-1", session.AccessToken)
	assert.Equal(t, "me@bazar.az", session.Email)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	current := m.Current()
	require.NotNil(t, current)
	assert.Equal(t, session.AccessToken, current.AccessToken)
}

func TestSignInRejectedLeavesNoSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer srv.Close()

	m := NewManager(supabase.NewClient(srv.URL, "anon-key"), nil)

	_, err := m.SignIn(context.Background(), "me@bazar.az", "wrong")
	require.Error(t, err)
	assert.Nil(t, m.Current())
}

func TestCurrentNilAfterExpiry(t *testing.T) {
	m := newTestManager(t)

	_, err := m.SignIn(context.Background(), "me@bazar.az", "secret")
	require.NoError(t, err)
	require.NotNil(t, m.Current())

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Nil(t, m.Current())
}

func TestValidate(t *testing.T) {
	m := newTestManager(t)

	assert.False(t, m.Validate("tok-1"), "no session yet")

	_, err := m.SignIn(context.Background(), "me@bazar.az", "secret")
	require.NoError(t, err)

	assert.True(t, m.Validate("tok-1"))
	assert.False(t, m.Validate("other"))
	assert.False(t, m.Validate(""))
}

func TestSignOutDropsSessionAndNotifies(t *testing.T) {
	m := newTestManager(t)

	var changes []*Session
	m.OnChange(func(s *Session) { changes = append(changes, s) })

	_, err := m.SignIn(context.Background(), "me@bazar.az", "secret")
	require.NoError(t, err)
	require.NoError(t, m.SignOut(context.Background(), "anon-key"))

	assert.Nil(t, m.Current())
	require.Len(t, changes, 2)
	assert.NotNil(t, changes[0])
	assert.Nil(t, changes[1])
}

func TestSignOutWithoutSessionIsNoop(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.SignOut(context.Background(), "anon-key"))
}

func TestSignOutSurvivesRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/auth/v1/token" {
			_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":3600,"user":{"id":"u1","email":"me@bazar.az"}}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"msg":"boom"}`))
	}))
	defer srv.Close()

	m := NewManager(supabase.NewClient(srv.URL, "anon-key"), nil)

	_, err := m.SignIn(context.Background(), "me@bazar.az", "secret")
	require.NoError(t, err)

	// Remote revocation failing must not keep the user signed in locally.
	require.NoError(t, m.SignOut(context.Background(), "anon-key"))
	assert.Nil(t, m.Current())
}
