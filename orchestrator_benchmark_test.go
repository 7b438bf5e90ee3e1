package easyapi_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	easyapi "github.com/probablyarth/easyapi-go"
)

func benchOp(ctx context.Context, arg string) (string, error) { return "v", nil }

// ---------------------------------------------------------------------------
// Single-goroutine benchmarks: measure per-call latency.
// ---------------------------------------------------------------------------

// How fast is a cache hit (key derivation + locked map lookup + publish)?
func BenchmarkCacheHit(b *testing.B) {
	o, _ := easyapi.New(context.Background(), benchOp, easyapi.WithCache(easyapi.NewStore()))
	o.Call(context.Background(), "1")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.Call(context.Background(), "1")
	}
}

// How fast is a cache miss (operation + two state publishes + store write)?
func BenchmarkCacheMiss(b *testing.B) {
	ids := make([]string, b.N)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i)
	}

	o, _ := easyapi.New(context.Background(), benchOp, easyapi.WithCache(easyapi.NewStore()))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.Call(context.Background(), ids[i])
	}
}

// Overhead of the orchestrator when caching is off.
func BenchmarkNoCache(b *testing.B) {
	o, _ := easyapi.New(context.Background(), benchOp)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		o.Call(context.Background(), "1")
	}
}

// Each call issues a fresh token and supersedes the previous one.
func BenchmarkWithCancellation(b *testing.B) {
	o, _ := easyapi.New(context.Background(), benchOp, easyapi.WithCancellation())
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		o.Call(context.Background(), "1")
	}
}

// Errors are not cached. Measure the failure path.
func BenchmarkErrorNotCached(b *testing.B) {
	fail := errors.New("fail")
	o, _ := easyapi.New(context.Background(), func(ctx context.Context, arg string) (string, error) {
		return "", fail
	}, easyapi.WithCache(easyapi.NewStore()))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		o.Call(context.Background(), "1")
	}
}

// ---------------------------------------------------------------------------
// Concurrent benchmarks: measure throughput under contention.
// ---------------------------------------------------------------------------

// 1000 goroutines sharing 100 keys through one orchestrator and store.
func BenchmarkConcurrent_MixedKeys(b *testing.B) {
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		o, _ := easyapi.New(context.Background(), benchOp, easyapi.WithCache(easyapi.NewStore()))
		var wg sync.WaitGroup
		wg.Add(1000)
		for j := 0; j < 1000; j++ {
			go func(j int) {
				defer wg.Done()
				o.Call(context.Background(), ids[j%100])
			}(j)
		}
		wg.Wait()
	}
}

// b.RunParallel: cache hits from many orchestrators sharing one store.
func BenchmarkParallel_SharedStoreHit(b *testing.B) {
	store := easyapi.NewStore()
	seed, _ := easyapi.New(context.Background(), benchOp, easyapi.WithCache(store))
	seed.Call(context.Background(), "1")

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		o, _ := easyapi.New(context.Background(), benchOp, easyapi.WithCache(store))
		for pb.Next() {
			o.Call(context.Background(), "1")
		}
	})
}
