package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrek82/oramap/reader"
)

func TestTTLFrom(t *testing.T) {
	ctx := context.Background()

	_, ok := TTLFrom(ctx)
	assert.False(t, ok)

	ttl, ok := TTLFrom(WithTTL(ctx, time.Minute))
	assert.True(t, ok)
	assert.Equal(t, time.Minute, ttl)

	ttl, ok = TTLFrom(WithTTL(ctx, Forever))
	assert.True(t, ok)
	assert.Zero(t, ttl)

	_, ok = TTLFrom(WithTTL(WithTTL(ctx, time.Minute), 0))
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	a := Key("N_USER", "SELECT 1 FROM N_USER WHERE A=:0", []any{int64(1)})
	b := Key("N_USER", "SELECT 1 FROM N_USER WHERE A=:0", []any{"1"})
	c := Key("N_USER", "SELECT 1 FROM N_USER WHERE A=:0", []any{int64(1)})

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
	assert.True(t, len(a) > len(TablePrefix("N_USER")))
	assert.Equal(t, TablePrefix("N_USER"), a[:len(TablePrefix("N_USER"))])
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(time.Hour)
	defer m.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "short", []byte("a"), time.Second))
	require.NoError(t, m.Set(ctx, "forever", []byte("b"), 0))

	got, err := m.Get(ctx, "short")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)

	now = now.Add(2 * time.Second)

	got, err = m.Get(ctx, "short")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = m.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got)
	assert.Equal(t, 1, m.Len())
}

func TestMemoryCleanup(t *testing.T) {
	m := NewMemory(time.Hour)
	defer m.Close()

	now := time.Now()
	m.now = func() time.Time { return now }
	ctx := context.Background()
	m.Set(ctx, "a", []byte("1"), time.Millisecond)
	m.Set(ctx, "b", []byte("2"), time.Hour)

	now = now.Add(time.Second)
	m.cleanup()
	assert.Equal(t, 1, m.Len())
}

func TestMemoryDeletePrefix(t *testing.T) {
	m := NewMemory(0)
	defer m.Close()
	ctx := context.Background()

	m.Set(ctx, TablePrefix("A")+"1", []byte("x"), 0)
	m.Set(ctx, TablePrefix("A")+"2", []byte("x"), 0)
	m.Set(ctx, TablePrefix("AB")+"1", []byte("x"), 0)

	require.NoError(t, m.DeletePrefix(ctx, TablePrefix("A")))
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(ctx, TablePrefix("AB")+"1"))
	assert.Equal(t, 0, m.Len())
	assert.NoError(t, m.Close())
}

func TestMemorySetCopiesValue(t *testing.T) {
	m := NewMemory(0)
	defer m.Close()
	ctx := context.Background()

	buf := []byte("abc")
	m.Set(ctx, "k", buf, 0)
	buf[0] = 'z'

	got, _ := m.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), got)
}

func TestRowCodec(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	rows := []reader.Values{
		{int64(-7), uint64(1 << 63), 1.5, true, []byte{0, 1}, "name", ts, nil},
		{int64(0), nil, 0.0, false, []byte{}, "", ts, nil},
	}

	b, err := EncodeRows(rows)
	require.NoError(t, err)

	got, err := DecodeRows(b)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(-7), got[0][0])
	assert.Equal(t, uint64(1<<63), got[0][1])
	assert.Equal(t, 1.5, got[0][2])
	assert.Equal(t, true, got[0][3])
	assert.Equal(t, []byte{0, 1}, got[0][4])
	assert.Equal(t, "name", got[0][5])
	assert.True(t, ts.Equal(got[0][6].(time.Time)))
	assert.Nil(t, got[0][7])
	assert.Equal(t, int64(0), got[1][0])
}

func TestRowCodecRejectsUnknown(t *testing.T) {
	_, err := EncodeRows([]reader.Values{{struct{}{}}})
	assert.Error(t, err)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("ORAMAP_REDIS_ADDR")
	if addr == "" {
		t.Skip("ORAMAP_REDIS_ADDR not set")
	}
	ctx := context.Background()
	r, err := NewRedis(ctx, &redis.Options{Addr: addr})
	require.NoError(t, err)
	defer r.Close()

	prefix := TablePrefix("ORAMAP_TEST")
	require.NoError(t, r.Set(ctx, prefix+"1", []byte("v"), time.Minute))

	got, err := r.Get(ctx, prefix+"1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, r.DeletePrefix(ctx, prefix))
	got, err = r.Get(ctx, prefix+"1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
