package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/authbridge"
	"github.com/sahilchouksey/edupath-api/model"
	"github.com/sahilchouksey/edupath-api/utils/cache"
	"github.com/sahilchouksey/edupath-api/utils/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBridge struct {
	signUp      authbridge.Result
	signIn      authbridge.Result
	signOut     authbridge.Result
	profile     *model.UserProfile
	update      authbridge.Result
	gotName     string
	gotUpdate   model.ProfileUpdate
	signOutHits int
}

func (f *fakeBridge) SignUp(_ context.Context, _, _, name string) authbridge.Result {
	f.gotName = name
	return f.signUp
}

func (f *fakeBridge) SignIn(context.Context, string, string) authbridge.Result { return f.signIn }

func (f *fakeBridge) SignOut(context.Context) authbridge.Result {
	f.signOutHits++
	return f.signOut
}

func (f *fakeBridge) GetUserProfile(context.Context, string) *model.UserProfile { return f.profile }

func (f *fakeBridge) UpdateUserProfile(_ context.Context, _ string, update model.ProfileUpdate) authbridge.Result {
	f.gotUpdate = update
	return f.update
}

type fakeRevoker struct{ tokens []string }

func (f *fakeRevoker) Revoke(_ context.Context, token string) error {
	f.tokens = append(f.tokens, token)
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

// asUser stands in for the auth middleware
func asUser(c *fiber.Ctx) error {
	if id := c.Get("X-Test-User"); id != "" {
		c.Locals("user", &model.AuthUser{ID: id, Email: id + "@example.com", Name: "Asha"})
		c.Locals("user_id", id)
		c.Locals("access_token", "token-"+id)
	}
	return c.Next()
}

func newApp(h *AuthHandler) *fiber.App {
	app := fiber.New()
	app.Use(asUser)
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/logout", h.Logout)
	app.Get("/me", h.Me)
	app.Get("/profile", h.GetProfile)
	app.Put("/profile", h.UpdateProfile)
	return app
}

func call(t *testing.T, app *fiber.App, method, target, user, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestRegister(t *testing.T) {
	bridge := &fakeBridge{signUp: authbridge.Result{
		Success: true,
		User:    &model.AuthUser{ID: "u1", Email: "a@example.com", Name: "Asha"},
		Message: authbridge.MsgSignUpSuccess,
	}}
	app := newApp(NewAuthHandler(bridge, nil, nil, nil))

	status, env := call(t, app, http.MethodPost, "/register", "", `{"email":"a@example.com","password":"secret123","name":"  Asha "}`)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)
	assert.Equal(t, authbridge.MsgSignUpSuccess, env.Message)
	assert.Equal(t, "Asha", bridge.gotName)
}

func TestRegisterValidation(t *testing.T) {
	app := newApp(NewAuthHandler(&fakeBridge{}, nil, nil, nil))

	status, env := call(t, app, http.MethodPost, "/register", "", `{"email":"nope","password":"secret123","name":"Asha"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Fields, "email")

	status, env = call(t, app, http.MethodPost, "/register", "", `{"email":"a@example.com","password":"12345678","name":"Asha"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Fields, "password")
}

func TestRegisterProviderFailure(t *testing.T) {
	bridge := &fakeBridge{signUp: authbridge.Result{Error: "User already registered", Message: authbridge.MsgSignUpFailure}}
	app := newApp(NewAuthHandler(bridge, nil, nil, nil))

	status, env := call(t, app, http.MethodPost, "/register", "", `{"email":"a@example.com","password":"secret123","name":"Asha"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, authbridge.MsgSignUpFailure, env.Error.Message)
}

func TestLogin(t *testing.T) {
	guard := middleware.NewBruteForceProtection(cache.NewMemoryCache(), nil)
	bridge := &fakeBridge{signIn: authbridge.Result{Message: authbridge.MsgSignInFailure}}
	app := newApp(NewAuthHandler(bridge, nil, guard, nil))

	status, env := call(t, app, http.MethodPost, "/login", "", `{"email":"a@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, authbridge.MsgSignInFailure, env.Error.Message)

	bridge.signIn = authbridge.Result{
		Success: true,
		User:    &model.AuthUser{ID: "u1", Name: "Asha"},
		Session: &authbridge.Tokens{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 3600},
		Message: authbridge.MsgSignInSuccess,
	}
	status, env = call(t, app, http.MethodPost, "/login", "", `{"email":"a@example.com","password":"right"}`)
	require.Equal(t, http.StatusOK, status)

	var result authbridge.Result
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "at", result.Session.AccessToken)
	assert.Equal(t, "Asha", result.User.Name)
}

func TestLogoutRevokesToken(t *testing.T) {
	bridge := &fakeBridge{signOut: authbridge.Result{Success: true, Message: authbridge.MsgSignOutSuccess}}
	revoker := &fakeRevoker{}
	app := newApp(NewAuthHandler(bridge, revoker, nil, nil))

	status, _ := call(t, app, http.MethodPost, "/logout", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := call(t, app, http.MethodPost, "/logout", "u1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, authbridge.MsgSignOutSuccess, env.Message)
	assert.Equal(t, []string{"token-u1"}, revoker.tokens)

	bridge.signOut = authbridge.Result{Error: "boom", Message: authbridge.MsgSignOutFailure}
	status, _ = call(t, app, http.MethodPost, "/logout", "u1", "")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Len(t, revoker.tokens, 2)
}

func TestMe(t *testing.T) {
	app := newApp(NewAuthHandler(&fakeBridge{}, nil, nil, nil))

	status, env := call(t, app, http.MethodGet, "/me", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"authenticated":false,"user":null}`, string(env.Data))

	_, env = call(t, app, http.MethodGet, "/me", "u1", "")
	assert.JSONEq(t, `{"authenticated":true,"user":{"id":"u1","email":"u1@example.com","name":"Asha"}}`, string(env.Data))
}

func TestGetProfile(t *testing.T) {
	bridge := &fakeBridge{}
	app := newApp(NewAuthHandler(bridge, nil, nil, nil))

	status, _ := call(t, app, http.MethodGet, "/profile", "u1", "")
	assert.Equal(t, http.StatusNotFound, status)

	bridge.profile = &model.UserProfile{ID: "u1", Name: "Asha", Class: "12th"}
	status, env := call(t, app, http.MethodGet, "/profile", "u1", "")
	require.Equal(t, http.StatusOK, status)
	var profile model.UserProfile
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "12th", profile.Class)
}

func TestUpdateProfileIsPartial(t *testing.T) {
	bridge := &fakeBridge{update: authbridge.Result{
		Success: true,
		Data:    &model.UserProfile{ID: "u1", Class: "11th"},
		Message: authbridge.MsgUpdateSuccess,
	}}
	app := newApp(NewAuthHandler(bridge, nil, nil, nil))

	status, env := call(t, app, http.MethodPut, "/profile", "u1", `{"class":"11th","completed_quiz":true}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, authbridge.MsgUpdateSuccess, env.Message)

	require.NotNil(t, bridge.gotUpdate.Class)
	assert.Equal(t, "11th", *bridge.gotUpdate.Class)
	require.NotNil(t, bridge.gotUpdate.CompletedQuiz)
	assert.True(t, *bridge.gotUpdate.CompletedQuiz)
	assert.Nil(t, bridge.gotUpdate.Name)
	assert.Nil(t, bridge.gotUpdate.Interests)
}

func TestUpdateProfileErrors(t *testing.T) {
	bridge := &fakeBridge{update: authbridge.Result{Error: "permission denied", Message: authbridge.MsgUpdateFailure}}
	app := newApp(NewAuthHandler(bridge, nil, nil, nil))

	status, _ := call(t, app, http.MethodPut, "/profile", "u1", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodPut, "/profile", "u1", `{"interests":[""]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, env := call(t, app, http.MethodPut, "/profile", "u1", `{"name":"Asha"}`)
	assert.Equal(t, http.StatusBadGateway, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, authbridge.MsgUpdateFailure, env.Error.Message)

	status, _ = call(t, app, http.MethodPut, "/profile", "", `{"name":"Asha"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
}
