package ringbuf

// Ring is the generic flavour of Buffer: the same index arithmetic over a
// caller-owned []T, with the cell stride carried by the type system instead
// of an explicit cell size. It shares the Buffer contract: no internal
// synchronization (single producer, single consumer), head == tail for both
// empty and completely full, and transfers checked against total capacity
// only, so unread elements may be silently overwritten.
type Ring[T any] struct {
	buf  []T
	head int
	tail int
}

// NewRing binds a ring to the caller-allocated storage slice. The slice
// length is the ring capacity. Returns ErrParams on a nil or empty slice.
func NewRing[T any](storage []T) (*Ring[T], error) {
	if len(storage) == 0 {
		return nil, ErrParams
	}
	return &Ring[T]{buf: storage}, nil
}

func (r *Ring[T]) Capacity() int {
	if r == nil {
		return 0
	}
	return len(r.buf)
}

// Clear resets head and tail to zero, leaving the storage contents alone.
func (r *Ring[T]) Clear() error {
	if r == nil || r.buf == nil {
		return ErrParams
	}
	r.head = 0
	r.tail = 0
	return nil
}

// Available returns the number of occupied elements.
func (r *Ring[T]) Available() (int, error) {
	if r == nil || r.buf == nil {
		return 0, ErrParams
	}
	if r.head < r.tail {
		return len(r.buf) - r.tail + r.head, nil
	}
	return r.head - r.tail, nil
}

// PutOne writes a single element.
func (r *Ring[T]) PutOne(v T) error {
	if r == nil || r.buf == nil {
		return ErrParams
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
	return nil
}

// Put writes all of src starting at head, advancing head modulo the
// capacity. Rejected with ErrOverflow when len(src) exceeds the capacity.
func (r *Ring[T]) Put(src []T) error {
	if r == nil || r.buf == nil || src == nil {
		return ErrParams
	}
	n := len(src)
	if n > len(r.buf) {
		return ErrOverflow
	}

	space := len(r.buf) - r.head
	if n <= space {
		copy(r.buf[r.head:], src)
		r.head = (r.head + n) % len(r.buf)
	} else {
		copy(r.buf[r.head:], src[:space])
		copy(r.buf, src[space:])
		r.head = n - space
	}
	return nil
}

// ReadOne returns the next element and advances tail.
func (r *Ring[T]) ReadOne() (T, error) {
	v, err := r.WatchOne()
	if err != nil {
		return v, err
	}
	r.tail = (r.tail + 1) % len(r.buf)
	return v, nil
}

// Read fills dst with len(dst) elements starting at tail and advances tail
// modulo the capacity. A rejected read mutates nothing.
func (r *Ring[T]) Read(dst []T) error {
	if err := r.Watch(dst); err != nil {
		return err
	}
	r.tail = (r.tail + len(dst)) % len(r.buf)
	return nil
}

// WatchOne returns the next element without advancing tail.
func (r *Ring[T]) WatchOne() (T, error) {
	var zero T
	if r == nil || r.buf == nil {
		return zero, ErrParams
	}
	return r.buf[r.tail], nil
}

// Watch fills dst with len(dst) elements starting at tail without mutating
// any index.
func (r *Ring[T]) Watch(dst []T) error {
	if r == nil || r.buf == nil || dst == nil {
		return ErrParams
	}
	n := len(dst)
	if n > len(r.buf) {
		return ErrOverflow
	}

	cur := r.tail
	space := len(r.buf) - cur
	if n <= space {
		copy(dst, r.buf[cur:cur+n])
	} else {
		copy(dst, r.buf[cur:])
		copy(dst[space:], r.buf[:n-space])
	}
	return nil
}
