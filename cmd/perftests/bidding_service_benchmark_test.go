package perftests

import (
	"context"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"
)

// Benchmark 1: PlaceBid - Isolated Items (Low Contention - Micro Benchmark)
func Benchmark_PlaceBid_Isolated(b *testing.B) {
	ctx := context.Background()
	svc, _ := setupService(b, b.N)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		amount := int64(50 + rand.Intn(100))
		if _, err := svc.PlaceBid(ctx, itemName(i), bidderID(i%numBidders), amount); err != nil {
			b.Fatalf("failed to place bid: %v", err)
		}
	}
}

// Benchmark 2: PlaceBid - Shared Item (High Contention - Concurrency Benchmark)
func Benchmark_PlaceBid_ConcurrentSharedItem(b *testing.B) {
	ctx := context.Background()
	svc, _ := setupService(b, 1)
	shared := itemName(0)

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 50

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			nextBid := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1))
			// out-of-order arrivals are rejected as not high enough
			_, _ = svc.PlaceBid(ctx, shared, bidderID(rnd.Intn(numBidders)), nextBid)
		}
	})
}

// Benchmark 3: CurrentBid - Single - Threaded (Low Contention)
func Benchmark_CurrentBid_SingleThreaded(b *testing.B) {
	ctx := context.Background()
	items := 1000
	svc, _ := setupService(b, items)

	for i := 0; i < items; i++ {
		for j := 0; j < 10; j++ {
			_, _ = svc.PlaceBid(ctx, itemName(i), bidderID(j), int64(50+j*10))
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := svc.CurrentBid(ctx, itemName(i%items)); err != nil {
			b.Fatalf("failed to get current bid: %v", err)
		}
	}
}

// Benchmark 4: Mixed Workload (Readers + Writers concurrently)
func Benchmark_MixedWorkload_SharedItem(b *testing.B) {
	ctx := context.Background()
	svc, _ := setupService(b, 1)
	shared := itemName(0)

	for j := 0; j < 50; j++ {
		_, _ = svc.PlaceBid(ctx, shared, bidderID(j), int64(50+j*2))
	}

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 150

	// Ratio: 70% readers, 30% writers
	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			if rnd.Intn(10) < 3 {
				nextBid := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1))
				_, _ = svc.PlaceBid(ctx, shared, bidderID(rnd.Intn(numBidders)), nextBid)
				continue
			}
			if _, err := svc.CurrentBid(ctx, shared); err != nil {
				b.Errorf("read error: %v", err)
			}
		}
	})
}

// Benchmark 5: Finalization sweep over many expired items
func Benchmark_Sweep(b *testing.B) {
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		svc, clk := setupService(b, 200)
		for j := 0; j < 200; j++ {
			_, _ = svc.PlaceBid(ctx, itemName(j), bidderID(j), 100)
		}
		clk.Advance(time.Hour)
		b.StartTimer()

		result, err := svc.Finalize.Sweep(ctx)
		if err != nil {
			b.Fatalf("sweep failed: %v", err)
		}
		if result.Finalized != 200 {
			b.Fatalf("finalized %d items, want 200", result.Finalized)
		}
	}
}
