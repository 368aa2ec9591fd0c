package poolgo

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestPool_ConcurrentInsertRelease(t *testing.T) {
	const (
		workers = 8
		perW    = 500
	)

	p, err := New[int](WithBatchSize(32))
	require.NoError(t, err)
	defer p.Close()

	var addrs sync.Map // slot address -> struct{}
	var dup sync.Map

	var g errgroup.Group
	handlesByWorker := make([][]*Handle[int], workers)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			handles := make([]*Handle[int], 0, perW)
			for i := 0; i < perW; i++ {
				h, err := p.Insert(w*perW + i)
				if err != nil {
					return err
				}
				addr := unsafe.Pointer(h.Value())
				if _, loaded := addrs.LoadOrStore(addr, struct{}{}); loaded {
					dup.Store(addr, struct{}{})
				}
				handles = append(handles, h)
			}
			handlesByWorker[w] = handles
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// No two simultaneously outstanding handles may share a slot.
	dup.Range(func(k, _ any) bool {
		t.Errorf("slot %v handed out twice while outstanding", k)
		return true
	})
	assert.Equal(t, int64(workers*perW), p.Live())

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for _, h := range handlesByWorker[w] {
				h.Release()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	s := p.Stats()
	assert.Equal(t, int64(0), s.Live)
	assert.Equal(t, s.Capacity, s.Free, "all slots must be back in the registry")
	assert.Equal(t, s.Inserts, s.Releases)
}

func TestPool_ConcurrentChurn(t *testing.T) {
	const (
		workers = 8
		rounds  = 2000
	)

	p, err := New[[2]int64](WithBatchSize(16), WithCacheLineAlignment())
	require.NoError(t, err)
	defer p.Close()

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < rounds; i++ {
				h, err := p.Insert([2]int64{int64(w), int64(i)})
				if err != nil {
					return err
				}
				v := h.Recover()
				if v != [2]int64{int64(w), int64(i)} {
					t.Errorf("round trip mismatch: %v", v)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	s := p.Stats()
	assert.Equal(t, int64(0), s.Live)
	assert.Equal(t, uint64(workers*rounds), s.Inserts)

	// Churn with immediate release keeps the pool small: every worker
	// holds at most one slot, so capacity stays bounded by the worker
	// count, not the round count.
	assert.LessOrEqual(t, s.Capacity, workers*16)
}

func TestPool_CloseInsertRace(t *testing.T) {
	// An insert and a Close race; whichever wins, the pool must never
	// report a successful Close while a handle from that race is live.
	for i := 0; i < 500; i++ {
		p, err := New[int](WithBatchSize(2))
		require.NoError(t, err)

		seed, err := p.Insert(1)
		require.NoError(t, err)
		seed.Release() // leave recycled slots for the racing insert

		var (
			wg       sync.WaitGroup
			h        *Handle[int]
			insErr   error
			closeErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			h, insErr = p.Insert(2)
		}()
		go func() {
			defer wg.Done()
			closeErr = p.Close()
		}()
		wg.Wait()

		if insErr == nil {
			// The insert won; Close must have refused and the handle must
			// be fully usable.
			assert.ErrorIs(t, closeErr, ErrHandlesOutstanding)
			assert.Equal(t, 2, *h.Value())
			h.Release()
			require.NoError(t, p.Close())
		} else {
			assert.ErrorIs(t, insErr, ErrClosed)
			if closeErr != nil {
				// Both backed off; the pool is still open.
				assert.ErrorIs(t, closeErr, ErrHandlesOutstanding)
				require.NoError(t, p.Close())
			}
		}
	}
}

func TestPool_ConcurrentGrowthRace(t *testing.T) {
	const workers = 16

	p, err := New[int](WithBatchSize(workers))
	require.NoError(t, err)
	defer p.Close()

	// All workers race on an empty registry at once; the double-checked
	// growth lock must produce one segment, not one per worker.
	start := make(chan struct{})
	var g errgroup.Group
	handles := make([]*Handle[int], workers)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			<-start
			h, err := p.Insert(w)
			if err != nil {
				return err
			}
			handles[w] = h
			return nil
		})
	}
	close(start)
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, p.Stats().Segments)

	for _, h := range handles {
		h.Release()
	}
}
