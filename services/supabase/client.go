package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sahilchouksey/edupath-api/model"
)

const (
	// PlaceholderURL is used when SUPABASE_URL is unset. Calls against it fail.
	PlaceholderURL = "https://your-project.supabase.co"
	// PlaceholderAnonKey is used when SUPABASE_ANON_KEY is unset
	PlaceholderAnonKey = "your-anon-key"
	// DefaultTimeout bounds every provider call
	DefaultTimeout = 15 * time.Second

	profilesTable = "user_profiles"
)

var (
	// ErrNoSession means the call needs an access token and the context carries none
	ErrNoSession = errors.New("supabase: no active session")
	// ErrProfileNotFound means the profile table has no row for the user
	ErrProfileNotFound = errors.New("supabase: profile not found")
)

// APIError is a non-2xx answer from GoTrue or PostgREST
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase API error (status %d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase API error (status %d): %s", e.StatusCode, e.Message)
}

// User is the GoTrue user object
type User struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// MetadataName returns the display name stored at sign-up, if any
func (u *User) MetadataName() string {
	if u == nil || u.UserMetadata == nil {
		return ""
	}
	name, _ := u.UserMetadata["name"].(string)
	return name
}

// Session is a GoTrue password grant result
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Config holds configuration for the client
type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// Client is a thin REST client for Supabase auth and the profile table
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client

	mu        sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

// NewClient creates a Supabase client, falling back to the inert placeholders
func NewClient(config Config) *Client {
	if config.URL == "" {
		config.URL = PlaceholderURL
	}
	if config.AnonKey == "" {
		config.AnonKey = PlaceholderAnonKey
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(config.URL, "/"),
		anonKey: config.AnonKey,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		listeners: make(map[int]Listener),
	}
}

type tokenKey struct{}

// WithAccessToken attaches the caller's access token to ctx
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// AccessToken returns the token stored by WithAccessToken
func AccessToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// SignUp registers a user. metadata is stored as user_metadata.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*User, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		body["data"] = metadata
	}

	// GoTrue answers with a bare user when confirmation is pending and with a session otherwise
	var raw struct {
		User
		Session *struct {
			User User `json:"user"`
		} `json:"session,omitempty"`
		Nested *User `json:"user,omitempty"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, body, "", &raw); err != nil {
		return nil, err
	}

	switch {
	case raw.ID != "":
		return &raw.User, nil
	case raw.Nested != nil:
		return raw.Nested, nil
	case raw.Session != nil:
		return &raw.Session.User, nil
	default:
		return nil, errors.New("supabase: sign-up returned no user")
	}
}

// SignInWithPassword exchanges credentials for a session and emits SIGNED_IN
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	q := url.Values{"grant_type": []string{"password"}}
	body := map[string]string{"email": email, "password": password}

	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token", q, body, "", &session); err != nil {
		return nil, err
	}

	c.emit(ctx, SessionEvent{Event: EventSignedIn, Session: &session})
	return &session, nil
}

// SignOut revokes the session in ctx and emits SIGNED_OUT
func (c *Client) SignOut(ctx context.Context) error {
	token, ok := AccessToken(ctx)
	if !ok {
		return ErrNoSession
	}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, token, nil); err != nil {
		return err
	}

	c.emit(ctx, SessionEvent{Event: EventSignedOut})
	return nil
}

// GetUser returns the user owning the access token in ctx
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	token, ok := AccessToken(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", nil, nil, token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile reads the single profile row for userID
func (c *Client) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	q := url.Values{
		"id":     []string{"eq." + userID},
		"select": []string{"*"},
	}
	token, _ := AccessToken(ctx)

	var profile model.UserProfile
	err := c.do(ctx, http.MethodGet, "/rest/v1/"+profilesTable, q, nil, token, &profile, singleObject)
	if err != nil {
		return nil, mapProfileError(err)
	}
	return &profile, nil
}

// UpdateProfile applies a partial update to the profile row and returns the new row
func (c *Client) UpdateProfile(ctx context.Context, userID string, update model.ProfileUpdate) (*model.UserProfile, error) {
	q := url.Values{"id": []string{"eq." + userID}}
	token, _ := AccessToken(ctx)

	var profile model.UserProfile
	err := c.do(ctx, http.MethodPatch, "/rest/v1/"+profilesTable, q, update, token, &profile, singleObject, returnRepresentation)
	if err != nil {
		return nil, mapProfileError(err)
	}
	return &profile, nil
}

// PostgREST answers 406 when a single-object request matches no row
func mapProfileError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusNotAcceptable || apiErr.Code == "PGRST116") {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, apiErr.Message)
	}
	return err
}

type requestOption func(*http.Request)

func singleObject(r *http.Request) {
	r.Header.Set("Accept", "application/vnd.pgrst.object+json")
}

func returnRepresentation(r *http.Request) {
	r.Header.Set("Prefer", "return=representation")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, token string, out interface{}, opts ...requestOption) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseAPIError(status int, body []byte) *APIError {
	var payload struct {
		Code             interface{} `json:"code"`
		ErrorCode        string      `json:"error_code"`
		Error            string      `json:"error"`
		ErrorDescription string      `json:"error_description"`
		Msg              string      `json:"msg"`
		Message          string      `json:"message"`
	}
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	for _, m := range []string{payload.Msg, payload.ErrorDescription, payload.Message, payload.Error} {
		if m != "" {
			apiErr.Message = m
			break
		}
	}
	// PostgREST codes are strings, GoTrue sometimes sends a numeric status
	if code, ok := payload.Code.(string); ok {
		apiErr.Code = code
	}
	if apiErr.Code == "" {
		apiErr.Code = payload.ErrorCode
	}
	if apiErr.Code == "" {
		apiErr.Code = payload.Error
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
