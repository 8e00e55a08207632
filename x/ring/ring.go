// Package ring is a single-producer, single-consumer byte FIFO with a
// coalesced "became readable" signal, sized like a UART receive FIFO.
package ring

import "sync/atomic"

type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32 // consumer index (monotonic)
	wr   atomic.Uint32 // producer index (monotonic)

	readable chan struct{} // empty -> non-empty edge
}

// New panics unless size is a power of two >= 2.
func New(size int) *Ring {
	if size < 2 || (size&(size-1)) != 0 {
		panic("ring: size must be power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
	}
}

func (r *Ring) Cap() int { return len(r.buf) }

// Len is the number of unread bytes.
func (r *Ring) Len() int { return int(r.wr.Load() - r.rd.Load()) }

// Free is the room left for Put.
func (r *Ring) Free() int { return len(r.buf) - r.Len() }

// Put copies as much of src as fits and returns the count. Producer only.
func (r *Ring) Put(src []byte) int {
	rd := r.rd.Load()
	wr := r.wr.Load()
	used := wr - rd
	n := len(r.buf) - int(used)
	if n > len(src) {
		n = len(src)
	}
	if n <= 0 {
		return 0
	}
	at := wr & r.mask
	first := copy(r.buf[at:], src[:n])
	copy(r.buf, src[first:n])
	r.wr.Store(wr + uint32(n))

	if used == 0 {
		select {
		case r.readable <- struct{}{}:
		default:
		}
	}
	return n
}

// Get moves up to len(dst) bytes out and returns the count. Consumer only.
func (r *Ring) Get(dst []byte) int {
	rd := r.rd.Load()
	wr := r.wr.Load()
	n := int(wr - rd)
	if n > len(dst) {
		n = len(dst)
	}
	if n <= 0 {
		return 0
	}
	at := rd & r.mask
	first := copy(dst[:n], r.buf[at:])
	copy(dst[first:n], r.buf)
	r.rd.Store(rd + uint32(n))
	return n
}

// Readable receives a token whenever the ring goes from empty to non-empty.
// A token may be stale; callers re-check with Get.
func (r *Ring) Readable() <-chan struct{} { return r.readable }
