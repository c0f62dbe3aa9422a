package dispatch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDedupe_MarkProcessed(t *testing.T) {
	d := NewMemoryDedupe(10*time.Minute, 100)

	fresh, err := d.MarkProcessed(context.Background(), "wamid.1")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = d.MarkProcessed(context.Background(), "wamid.1")
	require.NoError(t, err)
	assert.False(t, fresh)

	fresh, err = d.MarkProcessed(context.Background(), "wamid.2")
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestMemoryDedupe_EmptyIDAlwaysFresh(t *testing.T) {
	d := NewMemoryDedupe(10*time.Minute, 100)

	for i := 0; i < 2; i++ {
		fresh, err := d.MarkProcessed(context.Background(), "")
		require.NoError(t, err)
		assert.True(t, fresh)
	}
}

func TestMemoryDedupe_TTLExpiry(t *testing.T) {
	now := time.Now()
	d := NewMemoryDedupe(time.Minute, 100)
	d.now = func() time.Time { return now }

	fresh, _ := d.MarkProcessed(context.Background(), "wamid.ttl")
	assert.True(t, fresh)

	now = now.Add(30 * time.Second)
	fresh, _ = d.MarkProcessed(context.Background(), "wamid.ttl")
	assert.False(t, fresh)

	now = now.Add(31 * time.Second)
	fresh, _ = d.MarkProcessed(context.Background(), "wamid.ttl")
	assert.True(t, fresh)
}

func TestMemoryDedupe_EvictsOldestWhenFull(t *testing.T) {
	now := time.Now()
	d := NewMemoryDedupe(time.Hour, 3)
	d.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		now = now.Add(time.Second)
		fresh, _ := d.MarkProcessed(context.Background(), fmt.Sprintf("wamid.%d", i))
		assert.True(t, fresh)
	}

	// Inserting a fourth id evicts wamid.0, the oldest entry.
	now = now.Add(time.Second)
	fresh, _ := d.MarkProcessed(context.Background(), "wamid.3")
	assert.True(t, fresh)

	fresh, _ = d.MarkProcessed(context.Background(), "wamid.0")
	assert.True(t, fresh, "evicted id should read as fresh again")

	fresh, _ = d.MarkProcessed(context.Background(), "wamid.2")
	assert.False(t, fresh, "recent id should still be suppressed")
}

func TestMemoryDedupe_CapacitySweepPrefersExpired(t *testing.T) {
	now := time.Now()
	d := NewMemoryDedupe(time.Minute, 3)
	d.now = func() time.Time { return now }

	d.MarkProcessed(context.Background(), "wamid.old-a")
	d.MarkProcessed(context.Background(), "wamid.old-b")

	// Below capacity nothing is swept, expired or not.
	now = now.Add(2 * time.Minute)
	fresh, _ := d.MarkProcessed(context.Background(), "wamid.live")
	assert.True(t, fresh)
	assert.Len(t, d.seen, 3)

	// At capacity the sweep drops the two expired entries, so the live
	// one survives instead of being evicted.
	fresh, _ = d.MarkProcessed(context.Background(), "wamid.next")
	assert.True(t, fresh)

	fresh, _ = d.MarkProcessed(context.Background(), "wamid.live")
	assert.False(t, fresh, "live entry must survive the capacity sweep")
}

func TestRedisDedupe_MarkProcessed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	d := NewRedisDedupe(client, time.Minute)

	fresh, err := d.MarkProcessed(context.Background(), "wamid.r1")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = d.MarkProcessed(context.Background(), "wamid.r1")
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestRedisDedupe_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	d := NewRedisDedupe(client, time.Minute)

	fresh, err := d.MarkProcessed(context.Background(), "wamid.r2")
	require.NoError(t, err)
	assert.True(t, fresh)

	mr.FastForward(2 * time.Minute)

	fresh, err = d.MarkProcessed(context.Background(), "wamid.r2")
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestRedisDedupe_StoreDownReturnsError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	d := NewRedisDedupe(client, time.Minute)
	mr.Close()

	_, err := d.MarkProcessed(context.Background(), "wamid.r3")
	assert.Error(t, err)
}
