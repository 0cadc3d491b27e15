//go:build integration

package kv

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := ConnectPostgres(ctx, url)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.pool.Exec(ctx, `DELETE FROM kv_store WHERE key IN ('state', 'missing')`)
	require.NoError(t, err)

	exerciseStore(t, s)
}
