package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCacheAt(now time.Time) (*TokenCache, *time.Time) {
	current := now
	cache := NewTokenCache()
	cache.now = func() time.Time { return current }
	return cache, &current
}

func TestTokenCacheFreshness(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		elapsed      time.Duration
		wantToken    bool
		needsRefresh bool
	}{
		{"immediately after issuance", 0, true, false},
		{"well before expiry", 50 * time.Minute, true, false},
		{"inside the buffer window", 56 * time.Minute, false, true},
		{"exactly at buffered expiry", 55 * time.Minute, false, true},
		{"after nominal expiry", 61 * time.Minute, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cache, now := newCacheAt(t0)
			cache.SetTokens(TokenRecord{
				AccessToken:  "A1",
				RefreshToken: "R1",
				ExpiresAt:    t0.Add(time.Hour),
				Username:     "u",
				Role:         "ADMIN",
			})

			*now = t0.Add(tc.elapsed)

			token, ok := cache.AccessToken()
			assert.Equal(t, tc.wantToken, ok)
			if tc.wantToken {
				assert.Equal(t, "A1", token)
			} else {
				assert.Empty(t, token)
			}

			// A stale record is still a record.
			assert.True(t, cache.HasTokens())
			assert.Equal(t, tc.needsRefresh, cache.NeedsRefresh())
			assert.Equal(t, tc.wantToken, cache.HasValidTokens())

			// NeedsRefresh must agree with HasTokens && !HasValidTokens.
			assert.Equal(t, cache.HasTokens() && !cache.HasValidTokens(), cache.NeedsRefresh())
		})
	}
}

func TestTokenCacheRefreshTokenIgnoresFreshness(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache, now := newCacheAt(t0)
	cache.SetTokens(TokenRecord{
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    t0.Add(time.Hour),
	})

	*now = t0.Add(2 * time.Hour)

	_, ok := cache.AccessToken()
	require.False(t, ok)

	refresh, ok := cache.RefreshToken()
	require.True(t, ok)
	assert.Equal(t, "R1", refresh)
}

func TestTokenCacheClear(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache, _ := newCacheAt(t0)
	cache.SetTokens(TokenRecord{
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    t0.Add(time.Hour),
		Username:     "u",
		Role:         "ADMIN",
	})

	cache.Clear()

	_, ok := cache.AccessToken()
	assert.False(t, ok)
	assert.False(t, cache.HasTokens())
	assert.False(t, cache.HasValidTokens())
	assert.False(t, cache.NeedsRefresh())
	_, ok = cache.UserInfo()
	assert.False(t, ok)
	_, ok = cache.RefreshToken()
	assert.False(t, ok)
}

func TestTokenCacheEmptyAccessTokenIsAbsent(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache, _ := newCacheAt(t0)
	cache.SetTokens(TokenRecord{
		AccessToken: "",
		ExpiresAt:   t0.Add(time.Hour),
	})

	assert.False(t, cache.HasTokens())
	assert.False(t, cache.HasValidTokens())
	assert.False(t, cache.NeedsRefresh())
}

func TestTokenCacheUserInfo(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache, now := newCacheAt(t0)
	cache.SetTokens(TokenRecord{
		AccessToken: "A1",
		ExpiresAt:   t0.Add(time.Hour),
		Username:    "u",
		Role:        "ADMIN",
	})

	info, ok := cache.UserInfo()
	require.True(t, ok)
	assert.Equal(t, UserInfo{Username: "u", Role: "ADMIN"}, info)

	// Identity stays readable even after the access token goes stale.
	*now = t0.Add(2 * time.Hour)
	_, ok = cache.UserInfo()
	assert.True(t, ok)
}

func TestTokenCacheReplacementIsWholesale(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache, _ := newCacheAt(t0)
	cache.SetTokens(TokenRecord{
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    t0.Add(time.Hour),
		Username:     "u",
	})
	cache.SetTokens(TokenRecord{
		AccessToken: "A2",
		ExpiresAt:   t0.Add(time.Hour),
	})

	token, ok := cache.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "A2", token)

	// The old refresh token and identity do not survive the replacement.
	_, ok = cache.RefreshToken()
	assert.False(t, ok)
	info, _ := cache.UserInfo()
	assert.Empty(t, info.Username)
}
