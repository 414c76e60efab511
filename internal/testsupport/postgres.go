// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testsupport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/migration"
	"github.com/taibuivan/vidtube/internal/platform/postgres"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// TestDatabaseEnv names the variable holding a disposable PostgreSQL URL.
const TestDatabaseEnv = "VIDTUBE_TEST_DATABASE_URL"

// PostgresPool migrates the database named by [TestDatabaseEnv] and returns a
// pool on it, with every vidtube table emptied before and after the test.
// The test is skipped when the variable is unset.
func PostgresPool(t testing.TB) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(TestDatabaseEnv)
	if dsn == "" {
		t.Skipf("%s not set", TestDatabaseEnv)
	}

	ctx := context.Background()
	require.NoError(t, migration.RunUp(ctx, dsn, migrationsPath(t), DiscardLogger()))

	pool, err := postgres.NewPool(ctx, dsn, DiscardLogger())
	require.NoError(t, err)

	truncate := func() {
		_, err := pool.Exec(ctx, fmt.Sprintf("TRUNCATE %s, %s, %s, %s CASCADE",
			schema.WatchHistory.Table, schema.Subscription.Table, schema.Video.Table, schema.User.Table))
		require.NoError(t, err)
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		pool.Close()
	})
	return pool
}

// SeedVideo inserts a published video owned by ownerID and returns its id.
func SeedVideo(t testing.TB, pool *pgxpool.Pool, ownerID, title string) string {
	t.Helper()

	id := uuid.New()
	v := schema.Video
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		v.Table, v.ID, v.OwnerID, v.Title, v.VideoFile, v.Thumbnail)

	_, err := pool.Exec(context.Background(), query, id, ownerID, title,
		"https://media.test/video/"+id+".mp4", "https://media.test/thumb/"+id+".png")
	require.NoError(t, err)
	return id
}

func migrationsPath(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "data", "migrations")
}
