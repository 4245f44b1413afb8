package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseBackend runs the contract every backend must satisfy.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()
	key := "ws:" + t.Name() + ":token"

	_, ok, err := b.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(ctx, key, "abc"))
	v, ok, err := b.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, b.Set(ctx, key, "def"))
	v, _, _ = b.Get(ctx, key)
	assert.Equal(t, "def", v)

	require.NoError(t, b.Delete(ctx, key))
	_, ok, err = b.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Delete(ctx, key), "deleting a missing key is not an error")
}

func TestMemory(t *testing.T) {
	exerciseBackend(t, NewMemory())
}

func TestScoped(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	a := NewScoped(mem, "A")
	b := NewScoped(mem, "B")

	require.NoError(t, a.Save(ctx, "tok-a"))

	got, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-a", got)

	got, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "workspaces must not share tokens")

	v, ok, _ := mem.Get(ctx, "ws:A:token")
	assert.True(t, ok)
	assert.Equal(t, "tok-a", v)

	require.NoError(t, a.Save(ctx, ""))
	assert.Equal(t, 0, mem.Len())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	f, err := NewFile(path, "s3cret")
	require.NoError(t, err)

	exerciseBackend(t, f)
}

func TestFile_SealsAndPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "tokens.json")

	f, err := NewFile(path, "s3cret")
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "ws:A:token", "eyJhbGciOi.bearer"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "eyJhbGciOi.bearer")

	reopened, err := NewFile(path, "s3cret")
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, "ws:A:token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "eyJhbGciOi.bearer", v)

	wrong, err := NewFile(path, "other")
	require.NoError(t, err)
	_, _, err = wrong.Get(ctx, "ws:A:token")
	assert.Error(t, err)
}

func TestFile_RequiresSecret(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "t.json"), "")
	assert.Error(t, err)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	exerciseBackend(t, NewRedis(client, "storefront-test:", time.Minute))
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store, err := NewPostgres(ctx, pool)
	require.NoError(t, err)

	exerciseBackend(t, store)
}
