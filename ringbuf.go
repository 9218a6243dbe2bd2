// Package ringbuf implements a fixed-capacity circular buffer of fixed-size
// cells over a caller-owned storage region. The buffer never allocates: it is
// bound to a pre-allocated block at creation time and only moves two cell
// indexes (head for writes, tail for reads) modulo the capacity.
//
// The buffer performs no internal synchronization. It is meant for the
// classic single-producer/single-consumer pattern: one actor calls the Put
// family, the other calls the Read/Watch family, and any critical-section
// discipline beyond that (e.g. around Clear) is the caller's responsibility.
//
// head == tail means both "empty" and "completely full": after exactly
// Capacity cells are written with no reads Available reports 0, same as a
// freshly cleared buffer. Writes are checked against total capacity only, so
// overwriting occupied-but-unread cells is allowed and silent.
package ringbuf

import (
	"context"
	"time"

	otel "go.opentelemetry.io/otel"
	otelattr "go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const RingBufVersion = "v1.2.0"

// Buffer is the ring buffer state. The zero value is unbound and every
// operation on it returns ErrParams.
type Buffer struct {
	buf      []byte
	capacity int
	cellSize int
	head     int
	tail     int

	promMetrics *ringbufPrometheusMetrics

	otelTracer           oteltrace.Tracer
	otelCommonTraceAttrs []otelattr.KeyValue
}

// NewBuffer binds a buffer of 'capacity' cells of 'cellSize' bytes each to
// the caller-allocated storage region. The region stays owned by the caller
// and must hold at least capacity*cellSize bytes. Returns ErrParams on nil or
// undersized storage and on non-positive capacity or cell size.
//
// Available options: OptionName, OptionPrometheusMetrics, OptionOpenTelemetry
func NewBuffer(storage []byte, capacity int, cellSize int, options ...interface{}) (*Buffer, error) {
	if storage == nil || capacity <= 0 || cellSize <= 0 || len(storage) < capacity*cellSize {
		return nil, ErrParams
	}

	b := &Buffer{
		buf:      storage,
		capacity: capacity,
		cellSize: cellSize,
	}

	name := "default"
	for _, opt := range options {
		if v, ok := opt.(OptionName); ok && v.Name != "" {
			name = v.Name
		}
	}

	for _, opt := range options {
		switch v := opt.(type) {
		case OptionPrometheusMetrics:
			if v.EnablePrometheusMetrics {
				b.promMetrics = newPrometheusMetrics(name)
			}
		case OptionOpenTelemetry:
			if v.EnableTracing {
				b.otelTracer = otel.Tracer(
					"ringbuf",
					oteltrace.WithInstrumentationVersion(RingBufVersion),
				)
				b.otelCommonTraceAttrs = []otelattr.KeyValue{
					otelattr.String("rb.buffer", name),
				}
			}
		}
	}

	return b, nil
}

// Capacity returns the total number of cells the buffer holds.
func (b *Buffer) Capacity() int {
	if b == nil {
		return 0
	}
	return b.capacity
}

// CellSize returns the size of one cell in bytes.
func (b *Buffer) CellSize() int {
	if b == nil {
		return 0
	}
	return b.cellSize
}

// Clear resets head and tail to zero. The storage contents are left
// untouched. The caller must make sure no producer or consumer is active
// while clearing.
func (b *Buffer) Clear() error {
	if b == nil || b.buf == nil {
		return ErrParams
	}
	b.head = 0
	b.tail = 0
	if b.promMetrics != nil {
		b.promMetrics.cellsOccupied.Set(0)
	}
	return nil
}

// Available returns the number of occupied cells, derived from the head and
// tail indexes. A buffer holding exactly Capacity unread cells reports 0,
// indistinguishable from an empty one.
func (b *Buffer) Available() (int, error) {
	if b == nil || b.buf == nil {
		return 0, ErrParams
	}
	return b.available(), nil
}

func (b *Buffer) available() int {
	if b.head < b.tail {
		return b.capacity - b.tail + b.head
	}
	return b.head - b.tail
}

// PutOne writes a single cell. len(cell) must equal CellSize.
func (b *Buffer) PutOne(cell []byte) error {
	return b.PutOneCtx(context.Background(), cell)
}

// PutOneCtx writes a single cell. len(cell) must equal CellSize.
func (b *Buffer) PutOneCtx(ctx context.Context, cell []byte) error {
	if b == nil || b.buf == nil {
		return ErrParams
	}
	if len(cell) != b.cellSize {
		return ErrParams
	}
	return b.PutCtx(ctx, cell)
}

// Put writes len(src)/CellSize cells starting at head, advancing head modulo
// the capacity. len(src) must be a multiple of CellSize. The transfer is
// rejected with ErrOverflow when it is longer than the total capacity; it is
// NOT checked against currently free space, so unread cells may be silently
// overwritten.
func (b *Buffer) Put(src []byte) error {
	return b.PutCtx(context.Background(), src)
}

// PutCtx is Put with a context for tracing.
func (b *Buffer) PutCtx(ctx context.Context, src []byte) error {
	if b == nil {
		return ErrParams
	}
	if b.otelTracer != nil {
		defer b.startTracingSpan(ctx, "RingBuf.Put").End()
	}
	if b.promMetrics != nil {
		defer b.promMetrics.observeLatency("put", time.Now())
	}
	return b.put(src)
}

func (b *Buffer) put(src []byte) error {
	if b.buf == nil || src == nil {
		return ErrParams
	}
	if len(src)%b.cellSize != 0 {
		return ErrParams
	}
	n := len(src) / b.cellSize
	if n > b.capacity {
		return ErrOverflow
	}

	// contiguous cells left before the end of the region
	space := b.capacity - b.head
	if n <= space {
		copy(b.buf[b.head*b.cellSize:], src)
		b.head = (b.head + n) % b.capacity
	} else {
		copy(b.buf[b.head*b.cellSize:], src[:space*b.cellSize])
		copy(b.buf, src[space*b.cellSize:])
		b.head = n - space
	}

	if b.promMetrics != nil {
		b.promMetrics.cellsOccupied.Set(float64(b.available()))
	}
	return nil
}

// ReadOne reads a single cell into out and advances tail. len(out) must
// equal CellSize.
func (b *Buffer) ReadOne(out []byte) error {
	return b.ReadOneCtx(context.Background(), out)
}

// ReadOneCtx reads a single cell into out and advances tail.
func (b *Buffer) ReadOneCtx(ctx context.Context, out []byte) error {
	if b == nil || b.buf == nil {
		return ErrParams
	}
	if len(out) != b.cellSize {
		return ErrParams
	}
	return b.ReadCtx(ctx, out)
}

// Read copies len(dst)/CellSize cells starting at tail into dst and advances
// tail modulo the capacity. Equivalent to Watch followed by the tail
// advance; a rejected read mutates nothing.
func (b *Buffer) Read(dst []byte) error {
	return b.ReadCtx(context.Background(), dst)
}

// ReadCtx is Read with a context for tracing.
func (b *Buffer) ReadCtx(ctx context.Context, dst []byte) error {
	if b == nil {
		return ErrParams
	}
	if b.otelTracer != nil {
		defer b.startTracingSpan(ctx, "RingBuf.Read").End()
	}
	if b.promMetrics != nil {
		defer b.promMetrics.observeLatency("read", time.Now())
	}

	if err := b.watch(dst); err != nil {
		return err
	}
	b.tail = (b.tail + len(dst)/b.cellSize) % b.capacity

	if b.promMetrics != nil {
		b.promMetrics.cellsOccupied.Set(float64(b.available()))
	}
	return nil
}

// WatchOne copies a single cell into out without advancing tail.
func (b *Buffer) WatchOne(out []byte) error {
	return b.WatchOneCtx(context.Background(), out)
}

// WatchOneCtx copies a single cell into out without advancing tail.
func (b *Buffer) WatchOneCtx(ctx context.Context, out []byte) error {
	if b == nil || b.buf == nil {
		return ErrParams
	}
	if len(out) != b.cellSize {
		return ErrParams
	}
	return b.WatchCtx(ctx, out)
}

// Watch copies len(dst)/CellSize cells starting at tail into dst without
// mutating any index (non-destructive peek).
func (b *Buffer) Watch(dst []byte) error {
	return b.WatchCtx(context.Background(), dst)
}

// WatchCtx is Watch with a context for tracing.
func (b *Buffer) WatchCtx(ctx context.Context, dst []byte) error {
	if b == nil {
		return ErrParams
	}
	if b.otelTracer != nil {
		defer b.startTracingSpan(ctx, "RingBuf.Watch").End()
	}
	if b.promMetrics != nil {
		defer b.promMetrics.observeLatency("watch", time.Now())
	}
	return b.watch(dst)
}

func (b *Buffer) watch(dst []byte) error {
	if b.buf == nil || dst == nil {
		return ErrParams
	}
	if len(dst)%b.cellSize != 0 {
		return ErrParams
	}
	n := len(dst) / b.cellSize
	if n > b.capacity {
		return ErrOverflow
	}

	// local cursor keeps tail untouched
	cur := b.tail
	space := b.capacity - cur
	if n <= space {
		copy(dst, b.buf[cur*b.cellSize:(cur+n)*b.cellSize])
	} else {
		copy(dst, b.buf[cur*b.cellSize:b.capacity*b.cellSize])
		copy(dst[space*b.cellSize:], b.buf[:(n-space)*b.cellSize])
	}
	return nil
}

// PutByte writes a single byte. Only valid for buffers with a 1-byte cell
// size; returns ErrParams otherwise.
func (b *Buffer) PutByte(data byte) error {
	if b == nil || b.buf == nil || b.cellSize != 1 {
		return ErrParams
	}
	return b.put([]byte{data})
}

// ReadByte reads the next byte and advances tail. Only valid for buffers
// with a 1-byte cell size.
func (b *Buffer) ReadByte() (byte, error) {
	if b == nil || b.buf == nil || b.cellSize != 1 {
		return 0, ErrParams
	}
	var out [1]byte
	if err := b.Read(out[:]); err != nil {
		return 0, err
	}
	return out[0], nil
}

// WatchByte returns the next byte without advancing tail. Only valid for
// buffers with a 1-byte cell size.
func (b *Buffer) WatchByte() (byte, error) {
	if b == nil || b.buf == nil || b.cellSize != 1 {
		return 0, ErrParams
	}
	var out [1]byte
	if err := b.Watch(out[:]); err != nil {
		return 0, err
	}
	return out[0], nil
}
