package utils_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicease/complaint-service/internal/utils"
)

var tokenRe = regexp.MustCompile(`^CMP-\d+-[A-Z0-9]{6}$`)

// TestNewComplaintTokenFormat pins the public token format citizens use
// to reference their complaints.
func TestNewComplaintTokenFormat(t *testing.T) {
	tok, err := utils.NewComplaintToken()
	require.NoError(t, err)
	assert.Regexp(t, tokenRe, tok)
}

// TestNewComplaintTokenUniqueness generates a batch of tokens and makes
// sure the random suffix actually varies.
func TestNewComplaintTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		tok, err := utils.NewComplaintToken()
		require.NoError(t, err)
		assert.False(t, seen[tok], "duplicate token %s", tok)
		seen[tok] = true
	}
}

// TestHashRefreshRawStable verifies the refresh hash is deterministic
// and does not leak the raw token.
func TestHashRefreshRawStable(t *testing.T) {
	h1 := utils.HashRefreshRaw("some-raw-token")
	h2 := utils.HashRefreshRaw("some-raw-token")
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, "some-raw-token", h1)
	assert.Len(t, h1, 64) // sha256 hex
}

// TestPasswordRoundTrip checks bcrypt hash/verify with a modest cost.
func TestPasswordRoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(hash, "s3cret"))
	assert.False(t, utils.VerifyPassword(hash, "wrong"))
}

// TestPasswordCostFallback verifies an out-of-range cost still produces a
// usable hash instead of failing the signup path.
func TestPasswordCostFallback(t *testing.T) {
	hash, err := utils.HashPassword("s3cret", 99)
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(hash, "s3cret"))
}
