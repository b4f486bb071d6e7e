// Package api exposes one facade per entity family. Each operation performs
// a fixed number of HTTP calls through the shared transport, unwraps the
// server envelope, and returns the canonical shape or an error.
package api

import (
	"context"
	"encoding/json"
	"strings"

	"firstlog/internal/models"
	"firstlog/internal/normalize"
	"firstlog/internal/observability"
	"firstlog/internal/tokens"
	"firstlog/internal/transport"
)

// Auth is the authentication facade.
type Auth struct {
	client *transport.Client
	tokens *tokens.Manager
	log    *observability.Logger
}

// NewAuth creates the auth facade.
func NewAuth(client *transport.Client, tm *tokens.Manager) *Auth {
	return &Auth{
		client: client,
		tokens: tm,
		log:    observability.GlobalLogger,
	}
}

// SignupInput is the payload for Signup.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func firstOf(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Login authenticates with credentials, persists the returned token pair,
// and fetches the profile to build the canonical user. When the profile
// response is incomplete the submitted email and a derived display name
// fill the gaps.
func (a *Auth) Login(ctx context.Context, email, password string) (*models.User, error) {
	body, err := a.client.Post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	access, refresh := tokenFromBody(body)
	if access == "" {
		return nil, models.NewAuthError("login response contained no access token")
	}

	a.tokens.Save(ctx, access)
	if refresh != "" {
		// opportunistic; a missing refresh token is not an error
		a.tokens.SaveRefresh(ctx, refresh)
	}

	user, err := a.fetchProfile(ctx)
	if err != nil {
		// token is valid but the profile endpoint is flaky; build a
		// usable user record from what we already know
		a.log.Warn("profile fetch after login failed", "error", err)
		return fallbackUser(email), nil
	}
	if user.Email == "" {
		user.Email = email
	}
	if user.Name == "" {
		user.Name = displayNameFromEmail(email)
	}
	return user, nil
}

// Signup registers a new account and persists the returned token pair.
// It does not fetch the profile; the coordinator follows up with a login.
func (a *Auth) Signup(ctx context.Context, in SignupInput) error {
	body, err := a.client.Post(ctx, "/auth/signup", in)
	if err != nil {
		return err
	}

	access, refresh := tokenFromBody(body)
	if access == "" {
		return models.NewAuthError("signup response contained no access token")
	}
	a.tokens.Save(ctx, access)
	if refresh != "" {
		a.tokens.SaveRefresh(ctx, refresh)
	}
	return nil
}

// Logout notifies the server best-effort, then unconditionally clears the
// local token pair. The local session is cleared even when the network
// call fails.
func (a *Auth) Logout(ctx context.Context) {
	payload := map[string]string{}
	if refresh := a.tokens.Refresh(); refresh != "" {
		payload["refreshToken"] = refresh
	}
	if _, err := a.client.Post(ctx, "/auth/logout", payload); err != nil {
		a.log.Warn("server logout failed, clearing local session anyway", "error", err)
	}
	a.tokens.Clear(ctx)
}

// ValidateToken fetches the current profile with whatever token is already
// attached. Failure here is expected at startup with no session; callers
// treat it as "not logged in", never as an error to display.
func (a *Auth) ValidateToken(ctx context.Context) (*models.User, error) {
	return a.fetchProfile(ctx)
}

func (a *Auth) fetchProfile(ctx context.Context) (*models.User, error) {
	body, err := a.client.Get(ctx, "/users/me", nil)
	if err != nil {
		return nil, err
	}
	raw := normalize.UnwrapObject(body)

	id, _ := rawInt64(raw, "id", "userId")
	return &models.User{
		ID:     id,
		Email:  firstOf(raw, "email"),
		Name:   firstOf(raw, "name", "nickname", "username"),
		Avatar: firstOf(raw, "avatar", "profileImage"),
	}, nil
}

// tokenFromBody resolves the access/refresh pair across every envelope
// location the backend uses: token, data.token, data.accessToken, accessToken.
func tokenFromBody(body []byte) (access, refresh string) {
	var top map[string]any
	_ = json.Unmarshal(body, &top)
	unwrapped := normalize.UnwrapObject(body)

	access = firstOf(top, "token")
	if access == "" {
		access = firstOf(unwrapped, "token", "accessToken")
	}
	if access == "" {
		access = firstOf(top, "accessToken")
	}

	refresh = firstOf(unwrapped, "refreshToken")
	if refresh == "" {
		refresh = firstOf(top, "refreshToken")
	}
	return access, refresh
}

func fallbackUser(email string) *models.User {
	return &models.User{
		Email: email,
		Name:  displayNameFromEmail(email),
	}
}

func displayNameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

func rawInt64(raw map[string]any, keys ...string) (int64, bool) {
	for _, k := range keys {
		if f, ok := raw[k].(float64); ok {
			return int64(f), true
		}
	}
	return 0, false
}
