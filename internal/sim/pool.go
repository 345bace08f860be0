package sim

import "sync"

// FramePool recycles fixed-size position snapshots. The live view keeps
// a bounded history of frames; evicted frames come back here instead of
// churning the allocator at 60 ticks per second.
type FramePool struct {
	pool sync.Pool
	size int
}

func NewFramePool(frameSize int) *FramePool {
	return &FramePool{
		size: frameSize,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float64, frameSize)
			},
		},
	}
}

func (p *FramePool) Get() []float64 {
	return p.pool.Get().([]float64)
}

// Put returns a frame for reuse. Frames of the wrong size are dropped.
func (p *FramePool) Put(f []float64) {
	if len(f) != p.size {
		return
	}
	for i := range f {
		f[i] = 0
	}
	p.pool.Put(f)
}

// GetAndCopy hands out a pooled frame filled from src.
func (p *FramePool) GetAndCopy(src []float64) []float64 {
	dst := p.Get()
	copy(dst, src)
	return dst
}
