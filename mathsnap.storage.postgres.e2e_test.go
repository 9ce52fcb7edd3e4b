//go:build integration

package mathsnap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer creates an ephemeral PostgreSQL container for testing.
func setupPostgresContainer(t *testing.T) (*PostgresStore, string, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("mathsnap_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	store, err := NewPostgresStore(PostgresConfig{
		ConnectionString: connStr,
		AutoMigrate:      true,
		QueryTimeout:     30 * time.Second,
	})
	require.NoError(t, err, "failed to create postgres store")

	cleanup := func() {
		if store != nil {
			_ = store.Close()
		}
		if container != nil {
			_ = container.Terminate(ctx)
		}
	}
	return store, connStr, cleanup
}

func TestPostgres_E2E_Store(t *testing.T) {
	store, _, cleanup := setupPostgresContainer(t)
	defer cleanup()

	testEquationStore(t, store)
}

func TestPostgres_E2E_Migrations(t *testing.T) {
	store, _, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	version, err := store.CurrentSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	// Running again is a no-op
	require.NoError(t, store.RunMigrations(ctx))
	version, err = store.CurrentSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestPostgres_E2E_Driver(t *testing.T) {
	store, connStr, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	opened, err := OpenStore(StoreDriverNamePostgres, connStr)
	require.NoError(t, err)
	defer opened.Close()

	require.NoError(t, SeedEquations(ctx, opened))

	got, err := store.Get(ctx, EquationQuadratic)
	require.NoError(t, err)
	assert.Equal(t, `x = \frac{-b \pm \sqrt{b^2 - 4ac}}{2a}`, got.Source)

	list, err := store.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list, len(Equations()))
}

func TestPostgres_E2E_Closed(t *testing.T) {
	store, _, cleanup := setupPostgresContainer(t)
	defer cleanup()

	require.NoError(t, store.Close())
	_, err := store.Get(context.Background(), "x")
	assert.Error(t, err)
	assert.Error(t, store.Close())
}
