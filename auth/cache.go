// Package auth manages the credential lifecycle for token-gated protocol
// APIs: an in-memory token cache with expiry bookkeeping, and a manager
// that transparently logs in or refreshes to keep a usable access token
// available for the transport's request interceptor.
package auth

import (
	"sync"
	"time"
)

// bufferWindow is the safety margin subtracted from a token's expiry before
// it is handed out. It guards against requests racing with server-side
// expiry checks during network latency.
const bufferWindow = 5 * time.Minute

// TokenRecord holds one set of issued credentials. ExpiresAt is computed at
// issuance time and never recomputed later. A record with an empty
// AccessToken is treated as absent.
type TokenRecord struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Username     string
	Role         string
}

// UserInfo is the denormalized identity returned alongside tokens, exposed
// to callers without re-parsing the token.
type UserInfo struct {
	Username string
	Role     string
}

// TokenCache holds at most one TokenRecord and answers expiry-aware queries
// without making network calls. It is safe for concurrent use; callers on
// preemptive threads must not assume check-then-act sequences across
// multiple calls are atomic (the Manager serializes those).
type TokenCache struct {
	mu     sync.Mutex
	record TokenRecord
	now    func() time.Time
}

// NewTokenCache returns an empty cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{now: time.Now}
}

// SetTokens unconditionally replaces the held record. No validation of
// field presence is performed; the caller supplies well-formed data.
func (c *TokenCache) SetTokens(record TokenRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record = record
}

// AccessToken returns the access token only while it is fresh: strictly
// before ExpiresAt minus the buffer window. A stale-but-present record
// yields ok=false.
func (c *TokenCache) AccessToken() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.freshLocked() {
		return "", false
	}
	return c.record.AccessToken, true
}

// RefreshToken returns the stored refresh token regardless of access-token
// freshness; refresh tokens are assumed longer-lived.
func (c *TokenCache) RefreshToken() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.record.RefreshToken == "" {
		return "", false
	}
	return c.record.RefreshToken, true
}

// NeedsRefresh reports whether a record exists but its access token is no
// longer fresh.
func (c *TokenCache) NeedsRefresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record.AccessToken != "" && !c.freshLocked()
}

// HasValidTokens reports whether AccessToken would currently succeed.
func (c *TokenCache) HasValidTokens() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.freshLocked()
}

// HasTokens reports whether any record exists, regardless of freshness.
// It distinguishes "never logged in" from "token just expired".
func (c *TokenCache) HasTokens() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record.AccessToken != ""
}

// UserInfo returns the identity claims stored with the record, if any.
func (c *TokenCache) UserInfo() (UserInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.record.AccessToken == "" {
		return UserInfo{}, false
	}
	return UserInfo{Username: c.record.Username, Role: c.record.Role}, true
}

// Clear discards the held record entirely.
func (c *TokenCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record = TokenRecord{}
}

func (c *TokenCache) freshLocked() bool {
	if c.record.AccessToken == "" {
		return false
	}
	return c.now().Before(c.record.ExpiresAt.Add(-bufferWindow))
}
