package auth

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	protocols "github.com/paltalabs/protocols-sdk-go"
	"github.com/paltalabs/protocols-sdk-go/core/net"
	"github.com/paltalabs/protocols-sdk-go/errors"
)

// defaultTokenLifetime is assumed when the server issues an access token
// whose expiry cannot be determined. The auth endpoints do not return an
// expires_in field; when the access token is a JWT its exp claim is used
// instead of this fallback.
const defaultTokenLifetime = time.Hour

// Credentials identify one API account.
type Credentials struct {
	Email    string
	Password string
}

// State describes where the manager currently stands in the token
// lifecycle. It is derived from the cache on demand, never stored.
type State int

const (
	// StateNoCredentialsTriedYet means no token record exists.
	StateNoCredentialsTriedYet State = iota

	// StateHaveValidToken means a fresh access token is cached.
	StateHaveValidToken

	// StateTokenExpiredRefreshable means the access token is stale but a
	// refresh token is available.
	StateTokenExpiredRefreshable

	// StateTokenExpiredNotRefreshable means the access token is stale and
	// no refresh token is available; only a full login can recover.
	StateTokenExpiredNotRefreshable
)

func (s State) String() string {
	switch s {
	case StateNoCredentialsTriedYet:
		return "no_credentials_tried_yet"
	case StateHaveValidToken:
		return "have_valid_token"
	case StateTokenExpiredRefreshable:
		return "token_expired_refreshable"
	case StateTokenExpiredNotRefreshable:
		return "token_expired_not_refreshable"
	default:
		return "unknown"
	}
}

// Manager orchestrates login, token refresh, and "get a currently valid
// token" logic on top of a TokenCache and the shared transport. Each SDK
// client owns exactly one Manager; token state is never shared across
// client instances and never persisted across process restarts.
//
// Refresh is attempted opportunistically but never blocks authentication: a
// corrupted or revoked refresh token degrades to a full re-login rather
// than surfacing an error to the caller, at the cost of an extra round
// trip. All auth failures leave the cache cleared, never partially valid.
type Manager struct {
	transport *net.Client
	cache     *TokenCache
	log       logrus.FieldLogger
	now       func() time.Time

	// acquireMu makes token acquisition a critical section: the first
	// caller performs the refresh/login, concurrent callers wait and reuse
	// its result instead of triggering duplicate network calls.
	acquireMu sync.Mutex

	credsMu sync.Mutex
	creds   Credentials

	tokenLifetime time.Duration
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for auth-flow debug logging. Token values
// are never logged.
func WithLogger(log logrus.FieldLogger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// WithTokenLifetime overrides the assumed access-token lifetime used when
// the token carries no parseable expiry (default: 1h).
func WithTokenLifetime(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.tokenLifetime = d
	}
}

// NewManager creates a Manager that authenticates against the given
// transport with the given credentials.
func NewManager(transport *net.Client, creds Credentials, opts ...ManagerOption) *Manager {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	m := &Manager{
		transport:     transport,
		cache:         NewTokenCache(),
		log:           discard,
		now:           time.Now,
		creds:         creds,
		tokenLifetime: defaultTokenLifetime,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}

// ValidAccessToken returns a currently-usable access token, logging in or
// refreshing as needed. The fallback ordering is strict:
//
//  1. A fresh cached token is returned immediately.
//  2. A stale token with a refresh token available triggers a refresh;
//     refresh failure is swallowed and falls through to login.
//  3. Otherwise a full login with the stored credentials is performed.
//
// If login also fails, or succeeds without yielding an access token, an
// AUTHENTICATION_FAILED error is returned and the cache is left cleared.
func (m *Manager) ValidAccessToken(ctx context.Context) (string, error) {
	m.acquireMu.Lock()
	defer m.acquireMu.Unlock()

	if token, ok := m.cache.AccessToken(); ok {
		return token, nil
	}

	if m.cache.NeedsRefresh() {
		if _, ok := m.cache.RefreshToken(); ok {
			if err := m.RefreshTokens(ctx); err != nil {
				// A dead refresh token must not prevent a fresh login.
				m.log.WithError(err).Debug("token refresh failed, falling back to login")
			} else if token, ok := m.cache.AccessToken(); ok {
				return token, nil
			}
		}
	}

	if err := m.Login(ctx); err != nil {
		return "", errors.NewAuthError(errors.AUTHENTICATION_FAILED, "authentication failed after login fallback", err)
	}

	token, ok := m.cache.AccessToken()
	if !ok {
		return "", errors.NewAuthError(errors.AUTHENTICATION_FAILED, "login succeeded but returned no usable access token", nil)
	}
	return token, nil
}

// Login sends the stored credentials to the login endpoint and stores the
// resulting token record. On any failure the cache is cleared before the
// error propagates, so a half-updated cache is never queried as valid.
func (m *Manager) Login(ctx context.Context) error {
	m.credsMu.Lock()
	body := loginRequest{Email: m.creds.Email, Password: m.creds.Password}
	m.credsMu.Unlock()

	var session sessionResponse
	if err := m.transport.Post(ctx, "/login", nil, body, &session); err != nil {
		m.cache.Clear()
		return err
	}

	m.storeSession(session)
	m.log.WithField("username", session.Username).Debug("login succeeded")
	return nil
}

// RefreshTokens exchanges the stored refresh token for a new token record.
// It fails fast with NO_REFRESH_TOKEN when nothing is there to refresh. On
// any other failure the cache is cleared before the error propagates.
func (m *Manager) RefreshTokens(ctx context.Context) error {
	refreshToken, ok := m.cache.RefreshToken()
	if !ok {
		return errors.NewAuthError(errors.NO_REFRESH_TOKEN, "no refresh token available", nil)
	}

	var session sessionResponse
	if err := m.transport.Post(ctx, "/refresh", nil, nil, &session, net.WithBearer(refreshToken)); err != nil {
		m.cache.Clear()
		return err
	}

	m.storeSession(session)
	m.log.Debug("token refresh succeeded")
	return nil
}

// storeSession replaces the cached record wholesale.
func (m *Manager) storeSession(session sessionResponse) {
	m.cache.SetTokens(TokenRecord{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    m.expiryFor(session.AccessToken),
		Username:     session.Username,
		Role:         session.Role,
	})
}

// expiryFor determines the absolute expiry of an access token. The auth
// endpoints do not communicate expiry, so when the token is a JWT its exp
// claim is trusted (unverified parse; the token is otherwise opaque to the
// client); anything else gets the fixed fallback lifetime.
func (m *Manager) expiryFor(accessToken string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	return m.now().Add(m.tokenLifetime)
}

// TokenProvider returns an accessor suitable for injection into the
// transport's request interceptor. It converts any acquisition error into
// "no token available": a request proceeds unauthenticated rather than
// failing inside request construction, and the remote server stays the
// authority on auth failure.
func (m *Manager) TokenProvider() protocols.TokenProvider {
	return func(ctx context.Context) (string, bool) {
		token, err := m.ValidAccessToken(ctx)
		if err != nil {
			m.log.WithError(err).Debug("no token available, sending request unauthenticated")
			return "", false
		}
		return token, true
	}
}

// UpdateCredentials replaces the stored credentials and clears the cache:
// tokens are never shared across credential sets.
func (m *Manager) UpdateCredentials(creds Credentials) {
	m.credsMu.Lock()
	m.creds = creds
	m.credsMu.Unlock()
	m.cache.Clear()
}

// State reports the manager's position in the token lifecycle.
func (m *Manager) State() State {
	switch {
	case m.cache.HasValidTokens():
		return StateHaveValidToken
	case !m.cache.HasTokens():
		return StateNoCredentialsTriedYet
	default:
		if _, ok := m.cache.RefreshToken(); ok {
			return StateTokenExpiredRefreshable
		}
		return StateTokenExpiredNotRefreshable
	}
}

// IsAuthenticated reports whether a fresh access token is cached.
func (m *Manager) IsAuthenticated() bool {
	return m.cache.HasValidTokens()
}

// UserInfo returns the identity stored with the current token record.
func (m *Manager) UserInfo() (UserInfo, bool) {
	return m.cache.UserInfo()
}

// Logout discards the cached token record.
func (m *Manager) Logout() {
	m.cache.Clear()
}
