// Package poolgo provides a concurrent, non-relocating object pool: an
// arena that hands out individually owned, independently reclaimable slots
// of a fixed type, recycling freed slots instead of returning memory to the
// runtime.
//
// It targets workloads that allocate and free many same-typed objects at
// high frequency across goroutines (per-frame or per-message objects in
// latency-sensitive systems) where general-purpose allocation and garbage
// collection pressure would be too costly.
//
// # Quick Start
//
//	pool, _ := poolgo.New[Message]()
//	defer pool.Close()
//
//	h, err := pool.Insert(Message{ID: 42})
//	if err != nil {
//	    return err
//	}
//	h.Value().Payload = append(h.Value().Payload, data...)
//
//	msg := h.Recover() // move the value out; slot is recycled
//
// Or discard the value instead of recovering it:
//
//	h, _ := pool.Insert(Message{ID: 43})
//	defer h.Release()
//
// # How It Works
//
// Storage grows in fixed-size segments that are never resized or relocated,
// so a slot address stays valid for the pool's whole lifetime. Freed slots
// are pushed onto a lock-free registry; Insert pops from it without locking
// and only takes the growth lock when the registry is empty, allocating
// exactly one new segment per exhaustion even when many goroutines race.
//
// # Configuration
//
//	pool, err := poolgo.New[Item](
//	    poolgo.WithBatchSize(256),          // slots per segment
//	    poolgo.WithCacheLineAlignment(),    // one slot per cache line
//	    poolgo.WithController(ctrl),        // shared memory/growth budget
//	    poolgo.WithOccupancyTracking(),     // leak diagnostics
//	    poolgo.WithLogger(logger),
//	)
//
// # Lifetime Rules
//
//   - A Handle owns exactly one occupied slot; release it (or recover the
//     value) exactly once.
//   - Close refuses to tear the pool down while handles are outstanding and
//     returns ErrHandlesOutstanding.
//   - Using a Handle after release panics: that is a programming error, not
//     a recoverable condition.
//
// # Non-Goals
//
// poolgo is not a general-purpose heap replacement. It does not garbage
// collect, compact, or pool across element types, and it never returns
// segment memory to the runtime before Close.
package poolgo
