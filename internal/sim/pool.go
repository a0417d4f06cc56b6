package sim

import (
	"sync"

	"github.com/san-kum/cylsim/internal/physics"
)

// FramePool recycles particle buffers used for frame snapshots.
type FramePool struct {
	pool sync.Pool
	size int
}

func NewFramePool(size int) *FramePool {
	return &FramePool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]physics.Particle, size)
			},
		},
	}
}

func (p *FramePool) Get() []physics.Particle {
	return p.pool.Get().([]physics.Particle)
}

func (p *FramePool) Put(buf []physics.Particle) {
	if len(buf) == p.size {
		for i := range buf {
			buf[i] = physics.Particle{}
		}
		p.pool.Put(buf)
	}
}
