package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_CachesSuccessfulLoads(t *testing.T) {
	c := New(8, time.Minute)
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(context.Background(), c, "patients", load)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)
	}
	assert.Equal(t, 1, calls)
}

func TestFetch_DoesNotCacheErrors(t *testing.T) {
	c := New(8, time.Minute)
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return 0, errors.New("offline")
	}

	_, err := Fetch(context.Background(), c, "k", load)
	require.Error(t, err)
	_, err = Fetch(context.Background(), c, "k", load)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Zero(t, c.Len())
}

func TestPurge_DiscardsInFlightResult(t *testing.T) {
	c := New(8, time.Minute)

	got, err := Fetch(context.Background(), c, "me", func(context.Context) (string, error) {
		c.Purge()
		return "previous user", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "previous user", got)
	assert.Zero(t, c.Len())
}

func TestStore_RejectsEpochFromBeforePurge(t *testing.T) {
	c := New(8, time.Minute)
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	c.Purge()

	assert.False(t, c.store(epoch, "me", "previous user"))
	assert.Zero(t, c.Len())
	assert.True(t, c.store(epoch+1, "me", "current user"))
	assert.Equal(t, 1, c.Len())
}

func TestPurge_ConcurrentWithFetch(t *testing.T) {
	c := New(64, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = Fetch(context.Background(), c, fmt.Sprintf("k%d", i), func(context.Context) (int, error) { return i, nil })
		}(i)
		go func() {
			defer wg.Done()
			c.Purge()
		}()
	}
	wg.Wait()

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestInvalidate_ByPrefix(t *testing.T) {
	c := New(8, time.Minute)
	for _, key := range []string{"prescriptions/doctor/1", "prescriptions/doctor/2", "patients"} {
		_, err := Fetch(context.Background(), c, key, func(context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)
	}

	c.Invalidate("prescriptions/")
	assert.Equal(t, 1, c.Len())
}
