package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicease/complaint-service/internal/repository"
)

// TestValidateRefreshRejectsMalformedHash makes sure a value that is not
// a hex SHA-256 digest is refused before any query runs. The nil DB
// would panic if the guard ever let one through.
func TestValidateRefreshRejectsMalformedHash(t *testing.T) {
	repo := repository.NewTokenRepo(nil)

	for _, bad := range []string{"", "short", "raw-refresh-token-not-a-hash"} {
		_, err := repo.ValidateRefresh(context.Background(), bad)
		assert.ErrorIs(t, err, sql.ErrNoRows, "hash %q", bad)
	}
}
