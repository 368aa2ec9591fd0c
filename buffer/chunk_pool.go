package buffer

import (
	"github.com/hupe1980/poolgo"
)

// ChunkPool is a factory for buffers that share one pool of chunk storage.
// Buffers created from the same ChunkPool recycle each other's overflow
// chunks: a drained buffer's chunks become available to whichever buffer
// bursts next.
//
// The ChunkPool must outlive every buffer created from it, and Close only
// succeeds once all buffers have been drained or reset (a chunk still held
// by a buffer is a live handle in the underlying pool).
type ChunkPool[T any] struct {
	pool *poolgo.Pool[chunk[T]]
}

// NewChunkPool creates a chunk pool. The options configure the underlying
// poolgo.Pool; note that a batch size there counts chunks, each holding
// ChunkSize elements.
func NewChunkPool[T any](opts ...poolgo.Option) (*ChunkPool[T], error) {
	p, err := poolgo.New[chunk[T]](opts...)
	if err != nil {
		return nil, err
	}
	return &ChunkPool[T]{pool: p}, nil
}

// Create returns an empty buffer whose overflow chunks come from this pool.
func (cp *ChunkPool[T]) Create() *Buffer[T] {
	return &Buffer[T]{pool: cp.pool}
}

// Stats returns the underlying pool's statistics. Live counts chunks
// currently linked into buffers.
func (cp *ChunkPool[T]) Stats() poolgo.Stats {
	return cp.pool.Stats()
}

// Close tears down the shared chunk storage. It fails with
// poolgo.ErrHandlesOutstanding while any buffer still holds chunks.
func (cp *ChunkPool[T]) Close() error {
	return cp.pool.Close()
}
