package mathsnap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEquationStore runs the behaviour every EquationStore must share.
// The store must be empty.
func testEquationStore(t *testing.T, store EquationStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("save assigns id and timestamps", func(t *testing.T) {
		eq := &StoredEquation{Name: "einstein", Source: "E = mc^2", Tags: []string{"physics"}}
		require.NoError(t, store.Save(ctx, eq))

		assert.True(t, strings.HasPrefix(string(eq.ID), EquationIDPrefix))
		assert.False(t, eq.CreatedAt.IsZero())
		assert.False(t, eq.UpdatedAt.IsZero())
	})

	t.Run("get round trips", func(t *testing.T) {
		got, err := store.Get(ctx, "einstein")
		require.NoError(t, err)
		assert.Equal(t, "einstein", got.Name)
		assert.Equal(t, "E = mc^2", got.Source)
		assert.Equal(t, []string{"physics"}, got.Tags)
	})

	t.Run("save replaces and keeps id", func(t *testing.T) {
		before, err := store.Get(ctx, "einstein")
		require.NoError(t, err)

		eq := &StoredEquation{Name: "einstein", Source: `E = mc^{2}`, DisplayMode: true, Description: "mass-energy"}
		require.NoError(t, store.Save(ctx, eq))
		assert.Equal(t, before.ID, eq.ID)

		after, err := store.Get(ctx, "einstein")
		require.NoError(t, err)
		assert.Equal(t, before.ID, after.ID)
		assert.Equal(t, `E = mc^{2}`, after.Source)
		assert.True(t, after.DisplayMode)
		assert.Equal(t, "mass-energy", after.Description)
		assert.Empty(t, after.Tags)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))

		exists, err := store.Exists(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, exists)

		assert.True(t, IsNotFound(store.Delete(ctx, "nope")))
	})

	t.Run("invalid name", func(t *testing.T) {
		assert.True(t, IsInvalidEquationName(store.Save(ctx, &StoredEquation{Name: "", Source: "x"})))
		assert.True(t, IsInvalidEquationName(store.Save(ctx, &StoredEquation{Name: "../escape", Source: "x"})))
	})

	t.Run("list filters", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &StoredEquation{Name: "euler", Source: `e^{i\pi} + 1 = 0`, Tags: []string{"math", "identity"}}))
		require.NoError(t, store.Save(ctx, &StoredEquation{Name: "euler-product", Source: `\zeta(s)`, Tags: []string{"math"}}))

		all, err := store.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"einstein", "euler", "euler-product"}, storedNames(all))

		byPrefix, err := store.List(ctx, &EquationQuery{NamePrefix: "euler"})
		require.NoError(t, err)
		assert.Equal(t, []string{"euler", "euler-product"}, storedNames(byPrefix))

		byContains, err := store.List(ctx, &EquationQuery{NameContains: "product"})
		require.NoError(t, err)
		assert.Equal(t, []string{"euler-product"}, storedNames(byContains))

		byTags, err := store.List(ctx, &EquationQuery{Tags: []string{"math", "identity"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"euler"}, storedNames(byTags))

		paged, err := store.List(ctx, &EquationQuery{Offset: 1, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"euler"}, storedNames(paged))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "euler-product"))
		exists, err := store.Exists(ctx, "euler-product")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Get(cancelled, "einstein")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func storedNames(list []*StoredEquation) []string {
	names := make([]string, len(list))
	for i, eq := range list {
		names[i] = eq.Name
	}
	return names
}

// ==== Registry ====

func TestOpenStore(t *testing.T) {
	t.Run("registered drivers", func(t *testing.T) {
		drivers := ListStoreDrivers()
		assert.Contains(t, drivers, StoreDriverNameMemory)
		assert.Contains(t, drivers, StoreDriverNameFilesystem)
		assert.Contains(t, drivers, StoreDriverNamePostgres)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := OpenStore("redis", "")
		assert.Error(t, err)
	})

	t.Run("memory seeded", func(t *testing.T) {
		store, err := OpenStore(StoreDriverNameMemory, "seed")
		require.NoError(t, err)
		defer store.Close()

		list, err := store.List(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, EquationNames(), storedNames(list))
	})

	t.Run("filesystem", func(t *testing.T) {
		store, err := OpenStore(StoreDriverNameFilesystem, t.TempDir())
		require.NoError(t, err)
		assert.NoError(t, store.Close())
	})

	t.Run("postgres needs a dsn", func(t *testing.T) {
		_, err := OpenStore(StoreDriverNamePostgres, "")
		assert.Error(t, err)
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		assert.Panics(t, func() {
			RegisterStoreDriver(StoreDriverNameMemory, &MemoryStoreDriver{})
		})
		assert.Panics(t, func() {
			RegisterStoreDriver("nil-driver", nil)
		})
	})
}

// ==== Memory ====

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	testEquationStore(t, store)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	eq := &StoredEquation{Name: "a", Source: "x", Tags: []string{"t"}}
	require.NoError(t, store.Save(ctx, eq))
	eq.Tags[0] = "mutated"

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"t"}, got.Tags)
}

func TestMemoryStore_Closed(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())

	_, err := store.Get(context.Background(), "a")
	assert.Error(t, err)
	assert.Error(t, store.Save(context.Background(), &StoredEquation{Name: "a"}))
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Save(ctx, &StoredEquation{Name: "shared", Source: "x"})
			_, _ = store.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	list, err := store.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// ==== Filesystem ====

func TestFilesystemStore(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	testEquationStore(t, store)
}

func TestFilesystemStore_Files(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Root())

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &StoredEquation{Name: "circle", Source: `A = \pi r^2`}))

	data, err := os.ReadFile(filepath.Join(dir, "circle.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `pi r^2`)

	t.Run("ignores unrelated files", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [unclosed"), 0o644))

		list, err := store.List(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"circle"}, storedNames(list))
	})

	t.Run("reopen", func(t *testing.T) {
		reopened, err := NewFilesystemStore(dir)
		require.NoError(t, err)
		got, err := reopened.Get(ctx, "circle")
		require.NoError(t, err)
		assert.Equal(t, `A = \pi r^2`, got.Source)
	})
}

func TestFilesystemStore_KeepsCreatedAt(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &StoredEquation{Name: "a", Source: "1"}))
	now = now.Add(time.Hour)
	eq := &StoredEquation{Name: "a", Source: "2"}
	require.NoError(t, store.Save(ctx, eq))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.True(t, got.UpdatedAt.Equal(now))
}

func TestNewFilesystemStore_EmptyRoot(t *testing.T) {
	_, err := NewFilesystemStore("")
	assert.Error(t, err)
}

// ==== Seeding ====

func TestSeedEquations(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &StoredEquation{Name: EquationEinstein, Source: "custom"}))

	require.NoError(t, SeedEquations(ctx, store))

	got, err := store.Get(ctx, EquationEinstein)
	require.NoError(t, err)
	assert.Equal(t, "custom", got.Source)

	list, err := store.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list, len(Equations()))
}

func TestStoredEquation_Request(t *testing.T) {
	eq := &StoredEquation{Source: "x", DisplayMode: true}
	assert.Equal(t, RenderRequest{Source: "x", DisplayMode: true}, eq.Request())
}
