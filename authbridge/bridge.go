package authbridge

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sahilchouksey/edupath-api/model"
	"github.com/sahilchouksey/edupath-api/services/supabase"
	"github.com/sahilchouksey/edupath-api/utils/logger"
)

// FallbackName is used whenever the profile row cannot supply a name
const FallbackName = "User"

const (
	MsgSignUpSuccess  = "Account created successfully! Please check your email to verify your account."
	MsgSignUpFailure  = "Failed to create account. Please try again."
	MsgSignInSuccess  = "Signed in successfully!"
	MsgSignInFailure  = "Invalid email or password. Please try again."
	MsgSignOutSuccess = "Signed out successfully."
	MsgSignOutFailure = "Failed to sign out. Please try again."
	MsgUpdateSuccess  = "Profile updated successfully."
	MsgUpdateFailure  = "Failed to update profile. Please try again."
)

// Provider is the remote auth and profile backend
type Provider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*supabase.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	SignOut(ctx context.Context) error
	GetUser(ctx context.Context) (*supabase.User, error)
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, update model.ProfileUpdate) (*model.UserProfile, error)
	Subscribe(l supabase.Listener) func()
}

// Tokens is the session handed back to the client after sign-in
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Result is the uniform envelope of every bridge operation
type Result struct {
	Success bool               `json:"success"`
	User    *model.AuthUser    `json:"user,omitempty"`
	Session *Tokens            `json:"session,omitempty"`
	Data    *model.UserProfile `json:"data,omitempty"`
	Error   string             `json:"error,omitempty"`
	Message string             `json:"message,omitempty"`
}

// Bridge maps provider calls onto AuthUser identities. Apart from its
// subscriber registrations it holds no state.
type Bridge struct {
	provider Provider
	log      *logger.Logger
	now      func() time.Time
}

func New(provider Provider, log *logger.Logger) *Bridge {
	if log == nil {
		log = logger.Nop()
	}
	return &Bridge{provider: provider, log: log, now: time.Now}
}

// SignUp registers an account with name stored as metadata
func (b *Bridge) SignUp(ctx context.Context, email, password, name string) Result {
	user, err := b.provider.SignUp(ctx, email, password, map[string]interface{}{"name": name})
	if err != nil {
		b.log.Warn("sign up failed", "email", email, "error", err)
		return Result{Success: false, Error: errorText(err), Message: MsgSignUpFailure}
	}

	display := user.MetadataName()
	if display == "" {
		display = name
	}
	return Result{
		Success: true,
		User:    &model.AuthUser{ID: user.ID, Email: user.Email, Name: display},
		Message: MsgSignUpSuccess,
	}
}

// SignIn authenticates and enriches the identity with the profile name.
// A missing profile is not a failure; the name falls back to "User".
func (b *Bridge) SignIn(ctx context.Context, email, password string) Result {
	session, err := b.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		b.log.Info("sign in rejected", "email", email, "error", err)
		return Result{Success: false, Error: errorText(err), Message: MsgSignInFailure}
	}

	authed := supabase.WithAccessToken(ctx, session.AccessToken)
	return Result{
		Success: true,
		User:    b.identity(authed, &session.User),
		Session: &Tokens{
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
			ExpiresIn:    session.ExpiresIn,
		},
		Message: MsgSignInSuccess,
	}
}

// SignOut ends the session carried by ctx
func (b *Bridge) SignOut(ctx context.Context) Result {
	if err := b.provider.SignOut(ctx); err != nil {
		b.log.Warn("sign out failed", "error", err)
		return Result{Success: false, Error: errorText(err), Message: MsgSignOutFailure}
	}
	return Result{Success: true, Message: MsgSignOutSuccess}
}

// GetCurrentUser resolves the identity behind ctx's access token.
// It returns nil when there is no session or the lookup fails.
func (b *Bridge) GetCurrentUser(ctx context.Context) *model.AuthUser {
	user, err := b.provider.GetUser(ctx)
	if err != nil {
		if !errors.Is(err, supabase.ErrNoSession) {
			b.log.Warn("get current user failed", "error", err)
		}
		return nil
	}
	return b.identity(ctx, user)
}

// GetUserProfile returns nil when the profile cannot be read
func (b *Bridge) GetUserProfile(ctx context.Context, userID string) *model.UserProfile {
	profile, err := b.provider.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, supabase.ErrProfileNotFound) {
			b.log.Debug("no profile row", "user_id", userID)
		} else {
			b.log.Warn("get profile failed", "user_id", userID, "error", err)
		}
		return nil
	}
	return profile
}

// UpdateUserProfile applies a partial update and stamps updated_at.
// Field values are passed through unchecked; the remote schema enforces them.
func (b *Bridge) UpdateUserProfile(ctx context.Context, userID string, update model.ProfileUpdate) Result {
	update.UpdatedAt = b.now().UTC()

	profile, err := b.provider.UpdateProfile(ctx, userID, update)
	if err != nil {
		b.log.Warn("update profile failed", "user_id", userID, "error", err)
		return Result{Success: false, Error: errorText(err), Message: MsgUpdateFailure}
	}
	return Result{Success: true, Data: profile, Message: MsgUpdateSuccess}
}

// Subscription is returned by OnAuthStateChange
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe stops further callbacks. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// OnAuthStateChange calls cb on every session transition: with the
// profile-enriched identity when a session exists, with nil otherwise.
func (b *Bridge) OnAuthStateChange(cb func(ctx context.Context, user *model.AuthUser)) *Subscription {
	cancel := b.provider.Subscribe(func(ctx context.Context, ev supabase.SessionEvent) {
		if ev.Session == nil || ev.Session.User.ID == "" {
			cb(ctx, nil)
			return
		}
		authed := supabase.WithAccessToken(ctx, ev.Session.AccessToken)
		cb(ctx, b.identity(authed, &ev.Session.User))
	})
	return &Subscription{cancel: cancel}
}

func (b *Bridge) identity(ctx context.Context, user *supabase.User) *model.AuthUser {
	name := FallbackName
	if profile := b.GetUserProfile(ctx, user.ID); profile != nil && profile.Name != "" {
		name = profile.Name
	}
	return &model.AuthUser{ID: user.ID, Email: user.Email, Name: name}
}

func errorText(err error) string {
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
