package poolgo

import "fmt"

// Stats is a point-in-time snapshot of pool usage. Counters are gathered
// from independent atomics, so a snapshot taken under concurrent load may
// be internally inconsistent by a few operations; it exists for diagnostics
// and logging, not correctness.
type Stats struct {
	Segments        int    // segments allocated
	SlotsPerSegment int    // configured batch size
	Capacity        int    // total slots across all segments
	Live            int64  // outstanding handles
	Free            int    // slots in the free registry (approximate)
	Inserts         uint64 // historical: total insertions
	Releases        uint64 // historical: total releases
	Growths         uint64 // historical: segment allocations
	BytesReserved   uint64 // bytes reserved for segment storage
}

// Stats returns a snapshot of pool statistics.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Segments:        p.store.Segments(),
		SlotsPerSegment: p.store.SlotsPerSegment(),
		Capacity:        p.store.Capacity(),
		Live:            p.live.Load(),
		Free:            p.free.Len(),
		Inserts:         p.inserts.Load(),
		Releases:        p.releases.Load(),
		Growths:         p.growths.Load(),
		BytesReserved:   uint64(p.store.BytesReserved()),
	}
}

func (p *Pool[T]) String() string {
	s := p.Stats()
	return fmt.Sprintf(
		"Pool{segments: %d, slots/segment: %d, capacity: %d, live: %d, free: %d, reserved: %.2f KB, grows: %d}",
		s.Segments,
		s.SlotsPerSegment,
		s.Capacity,
		s.Live,
		s.Free,
		float64(s.BytesReserved)/1024,
		s.Growths,
	)
}
