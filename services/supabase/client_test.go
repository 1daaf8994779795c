package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sahilchouksey/edupath-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	apikey string
	accept string
	prefer string
	body   map[string]interface{}
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)
		calls = append(calls, recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			apikey: r.Header.Get("apikey"),
			accept: r.Header.Get("Accept"),
			prefer: r.Header.Get("Prefer"),
			body:   body,
		})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(Config{URL: srv.URL, AnonKey: "anon"}), &calls
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSignUpSendsMetadata(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":            "u1",
			"email":         "asha@example.com",
			"user_metadata": map[string]interface{}{"name": "Asha"},
		})
	})

	user, err := c.SignUp(context.Background(), "asha@example.com", "secret123", map[string]interface{}{"name": "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Asha", user.MetadataName())

	require.Len(t, *calls, 1)
	got := (*calls)[0]
	assert.Equal(t, "/auth/v1/signup", got.path)
	assert.Equal(t, "anon", got.apikey)
	assert.Equal(t, "Bearer anon", got.auth)
	assert.Equal(t, map[string]interface{}{"name": "Asha"}, got.body["data"])
}

func TestSignUpWithImmediateSession(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token": "tok",
			"user":         map[string]interface{}{"id": "u2", "email": "b@example.com"},
		})
	})

	user, err := c.SignUp(context.Background(), "b@example.com", "pw", nil)
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
}

func TestSignInEmitsEvent(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Session{
			AccessToken:  "access",
			RefreshToken: "refresh",
			ExpiresIn:    3600,
			User:         User{ID: "u1", Email: "asha@example.com"},
		})
	})

	var events []SessionEvent
	unsubscribe := c.Subscribe(func(_ context.Context, ev SessionEvent) {
		events = append(events, ev)
	})

	session, err := c.SignInWithPassword(context.Background(), "asha@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "access", session.AccessToken)
	assert.Equal(t, "grant_type=password", (*calls)[0].query)

	require.Len(t, events, 1)
	assert.Equal(t, EventSignedIn, events[0].Event)
	assert.Equal(t, "u1", events[0].Session.User.ID)

	unsubscribe()
	_, err = c.SignInWithPassword(context.Background(), "asha@example.com", "pw")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestSignInFailureParsesError(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":             "invalid_grant",
			"error_description": "Invalid login credentials",
		})
	})

	fired := false
	c.Subscribe(func(context.Context, SessionEvent) { fired = true })

	_, err := c.SignInWithPassword(context.Background(), "x@example.com", "bad")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid_grant", apiErr.Code)
	assert.Equal(t, "Invalid login credentials", apiErr.Message)
	assert.False(t, fired)
}

func TestSignOutNeedsSession(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	assert.ErrorIs(t, c.SignOut(context.Background()), ErrNoSession)
	assert.Empty(t, *calls)

	var events []SessionEvent
	c.Subscribe(func(_ context.Context, ev SessionEvent) { events = append(events, ev) })

	require.NoError(t, c.SignOut(WithAccessToken(context.Background(), "access")))
	assert.Equal(t, "Bearer access", (*calls)[0].auth)
	require.Len(t, events, 1)
	assert.Equal(t, EventSignedOut, events[0].Event)
	assert.Nil(t, events[0].Session)
}

func TestGetUser(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, User{ID: "u1", Email: "asha@example.com"})
	})

	_, err := c.GetUser(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)

	user, err := c.GetUser(WithAccessToken(context.Background(), "access"))
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestGetProfile(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, model.UserProfile{ID: "u1", Name: "Asha", Class: "12th", Interests: []string{"AI"}})
	})

	profile, err := c.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", profile.Name)

	got := (*calls)[0]
	assert.Equal(t, "/rest/v1/user_profiles", got.path)
	assert.Contains(t, got.query, "id=eq.u1")
	assert.Equal(t, "application/vnd.pgrst.object+json", got.accept)
}

func TestGetProfileMissingRow(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotAcceptable, map[string]interface{}{
			"code":    "PGRST116",
			"message": "JSON object requested, multiple (or no) rows returned",
		})
	})

	_, err := c.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestUpdateProfileIsPartial(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, model.UserProfile{ID: "u1", Name: "Asha", Class: "11th"})
	})

	class := "11th"
	profile, err := c.UpdateProfile(WithAccessToken(context.Background(), "access"), "u1", model.ProfileUpdate{Class: &class})
	require.NoError(t, err)
	assert.Equal(t, "11th", profile.Class)

	got := (*calls)[0]
	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, "return=representation", got.prefer)
	assert.Equal(t, "Bearer access", got.auth)
	assert.Equal(t, "11th", got.body["class"])
	assert.Contains(t, got.body, "updated_at")
	assert.NotContains(t, got.body, "name")
}

func TestPlaceholdersApply(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, PlaceholderURL, c.baseURL)
	assert.Equal(t, PlaceholderAnonKey, c.anonKey)
}
