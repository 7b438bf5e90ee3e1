package easyapi_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	easyapi "github.com/probablyarth/easyapi-go"
)

func TestStoreLookup(t *testing.T) {
	s := easyapi.NewStore()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, res := s.Lookup("k", 0, t0)
	assert.Equal(t, easyapi.LookupMiss, res)

	s.Set("k", "v", t0)
	ent, res := s.Lookup("k", 0, t0.Add(24*time.Hour))
	assert.Equal(t, easyapi.LookupHit, res, "zero ttl never expires")
	assert.Equal(t, "v", ent.Value)
	assert.Equal(t, t0, ent.StoredAt)

	_, res = s.Lookup("k", 100*time.Millisecond, t0.Add(99*time.Millisecond))
	assert.Equal(t, easyapi.LookupHit, res)

	_, res = s.Lookup("k", 100*time.Millisecond, t0.Add(100*time.Millisecond))
	assert.Equal(t, easyapi.LookupExpired, res)
	assert.Zero(t, s.Len(), "expired entry is removed on read")

	_, res = s.Lookup("k", 100*time.Millisecond, t0)
	assert.Equal(t, easyapi.LookupMiss, res)
}

func TestStoreSetOverwrites(t *testing.T) {
	s := easyapi.NewStore()
	t0 := time.Now()
	s.Set("k", 1, t0)
	s.Set("k", 2, t0.Add(time.Second))

	ent, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, ent.Value)
	assert.Equal(t, t0.Add(time.Second), ent.StoredAt)
}

func TestStoreDeleteClearKeys(t *testing.T) {
	s := easyapi.NewStore()
	now := time.Now()
	s.Set("b", 1, now)
	s.Set("a", 2, now)
	s.Set("c", 3, now)

	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())

	s.Delete("b")
	s.Delete("missing")
	assert.Equal(t, []string{"a", "c"}, s.Keys())

	s.Clear()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Keys())
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := easyapi.NewStore()
	now := time.Now()

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := string(rune('a' + i%4))
			s.Set(key, i, now)
			s.Lookup(key, time.Millisecond, now.Add(time.Duration(i%3)*time.Millisecond))
			s.Get(key)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, s.Len(), 4)
}

func TestLookupResultString(t *testing.T) {
	assert.Equal(t, "hit", easyapi.LookupHit.String())
	assert.Equal(t, "miss", easyapi.LookupMiss.String())
	assert.Equal(t, "expired", easyapi.LookupExpired.String())
}
