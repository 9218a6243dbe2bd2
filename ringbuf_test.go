package ringbuf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newByteBuffer(t *testing.T, capacity int) *Buffer {
	b, err := NewBuffer(make([]byte, capacity), capacity, 1)
	require.NoError(t, err)
	return b
}

func TestNewBufferRejectsBadParams(t *testing.T) {
	_, err := NewBuffer(nil, 10, 1)
	assert.ErrorIs(t, err, ErrParams)

	_, err = NewBuffer(make([]byte, 10), 0, 1)
	assert.ErrorIs(t, err, ErrParams)

	_, err = NewBuffer(make([]byte, 10), 10, 0)
	assert.ErrorIs(t, err, ErrParams)

	// storage shorter than capacity*cellSize
	_, err = NewBuffer(make([]byte, 10), 10, 2)
	assert.ErrorIs(t, err, ErrParams)
}

func TestUnboundBufferRejected(t *testing.T) {
	var b Buffer

	assert.ErrorIs(t, b.Clear(), ErrParams)
	_, err := b.Available()
	assert.ErrorIs(t, err, ErrParams)
	assert.ErrorIs(t, b.Put([]byte{1}), ErrParams)
	assert.ErrorIs(t, b.PutOne([]byte{1}), ErrParams)
	assert.ErrorIs(t, b.Read(make([]byte, 1)), ErrParams)
	assert.ErrorIs(t, b.Watch(make([]byte, 1)), ErrParams)
	assert.ErrorIs(t, b.PutByte(1), ErrParams)
	_, err = b.ReadByte()
	assert.ErrorIs(t, err, ErrParams)

	var nb *Buffer
	assert.ErrorIs(t, nb.Put([]byte{1}), ErrParams)
	assert.ErrorIs(t, nb.Clear(), ErrParams)
}

func TestFIFOOrderAndWatch(t *testing.T) {
	b := newByteBuffer(t, 10)

	require.NoError(t, b.PutOne([]byte{10}))
	require.NoError(t, b.Put([]byte{24, 255, 8}))

	cnt, err := b.Available()
	require.NoError(t, err)
	assert.Equal(t, 4, cnt)

	out := make([]byte, 1)
	require.NoError(t, b.ReadOne(out))
	assert.Equal(t, byte(10), out[0])
	cnt, _ = b.Available()
	assert.Equal(t, 3, cnt)

	require.NoError(t, b.WatchOne(out))
	assert.Equal(t, byte(24), out[0])
	cnt, _ = b.Available()
	assert.Equal(t, 3, cnt, "watch must not consume")

	rest := make([]byte, 3)
	require.NoError(t, b.Read(rest))
	assert.Equal(t, []byte{24, 255, 8}, rest)
	cnt, _ = b.Available()
	assert.Equal(t, 0, cnt)
}

func TestAvailableAccounting(t *testing.T) {
	b := newByteBuffer(t, 16)

	for i := 0; i < 9; i++ {
		require.NoError(t, b.PutByte(byte(i)))
	}
	cnt, err := b.Available()
	require.NoError(t, err)
	assert.Equal(t, 9, cnt)

	require.NoError(t, b.Read(make([]byte, 4)))
	cnt, _ = b.Available()
	assert.Equal(t, 5, cnt)
}

func TestWatchIsNonDestructive(t *testing.T) {
	b := newByteBuffer(t, 8)
	require.NoError(t, b.Put([]byte{1, 2, 3, 4, 5}))

	before, _ := b.Available()
	watched := make([]byte, 3)
	require.NoError(t, b.Watch(watched))
	after, _ := b.Available()
	assert.Equal(t, before, after)

	read := make([]byte, 3)
	require.NoError(t, b.Read(read))
	assert.Equal(t, watched, read, "read must return what watch returned")
}

func TestWraparound(t *testing.T) {
	b := newByteBuffer(t, 10)

	require.NoError(t, b.Put([]byte{0, 1, 2, 3, 4, 5, 6, 7}))
	require.NoError(t, b.Read(make([]byte, 6)))

	// this span crosses the end of the region
	require.NoError(t, b.Put([]byte{8, 9, 10, 11, 12, 13}))
	cnt, err := b.Available()
	require.NoError(t, err)
	assert.Equal(t, 8, cnt)

	// watch over the wrap first, then read the same span
	watched := make([]byte, 8)
	require.NoError(t, b.Watch(watched))
	assert.Equal(t, []byte{6, 7, 8, 9, 10, 11, 12, 13}, watched)

	read := make([]byte, 8)
	require.NoError(t, b.Read(read))
	assert.Equal(t, watched, read)
	cnt, _ = b.Available()
	assert.Equal(t, 0, cnt)
}

func TestOverflowRejection(t *testing.T) {
	b := newByteBuffer(t, 10)
	require.NoError(t, b.Put([]byte{1, 2, 3}))

	assert.ErrorIs(t, b.Put(make([]byte, 11)), ErrOverflow)
	assert.ErrorIs(t, b.Read(make([]byte, 11)), ErrOverflow)
	assert.ErrorIs(t, b.Watch(make([]byte, 11)), ErrOverflow)

	// a rejected call must not move the indexes
	cnt, err := b.Available()
	require.NoError(t, err)
	assert.Equal(t, 3, cnt)
	out := make([]byte, 3)
	require.NoError(t, b.Read(out))
	assert.Equal(t, []byte{1, 2, 3}, out)
}

func TestFullEmptyAmbiguity(t *testing.T) {
	b := newByteBuffer(t, 10)

	require.NoError(t, b.Put([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
	cnt, err := b.Available()
	require.NoError(t, err)
	assert.Equal(t, 0, cnt, "a completely full buffer reports 0, same as an empty one")

	require.NoError(t, b.Clear())
	cnt, _ = b.Available()
	assert.Equal(t, 0, cnt)
}

func TestOverwriteUnreadCells(t *testing.T) {
	b := newByteBuffer(t, 4)

	require.NoError(t, b.Put([]byte{1, 2, 3, 4}))
	// overwriting occupied-but-unread cells is the caller contract, not an
	// error
	require.NoError(t, b.Put([]byte{5, 6}))

	cnt, err := b.Available()
	require.NoError(t, err)
	assert.Equal(t, 2, cnt)

	out := make([]byte, 2)
	require.NoError(t, b.Read(out))
	assert.Equal(t, []byte{5, 6}, out)
}

// Capacity 3 with 4-byte cells: put one, read one, then a spanning put of
// three recovers the original sequence.
func TestCellSizeIndependence(t *testing.T) {
	b, err := NewBuffer(make([]byte, 12), 3, 4)
	require.NoError(t, err)

	require.NoError(t, b.PutOne([]byte{0xDE, 0xAD, 0xBE, 0xEF}))
	out := make([]byte, 4)
	require.NoError(t, b.ReadOne(out))
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, out)

	cells := []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	}
	require.NoError(t, b.Put(cells))
	cnt, err := b.Available()
	require.NoError(t, err)
	assert.Equal(t, 0, cnt, "exactly full, ambiguous with empty")

	got := make([]byte, 12)
	require.NoError(t, b.Read(got))
	assert.Equal(t, cells, got)
}

func TestStrideMismatchRejected(t *testing.T) {
	b, err := NewBuffer(make([]byte, 12), 3, 4)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Put(make([]byte, 6)), ErrParams)
	assert.ErrorIs(t, b.Read(make([]byte, 5)), ErrParams)
	assert.ErrorIs(t, b.Watch(make([]byte, 3)), ErrParams)
	assert.ErrorIs(t, b.PutOne(make([]byte, 3)), ErrParams)
	assert.ErrorIs(t, b.ReadOne(make([]byte, 8)), ErrParams)
	assert.ErrorIs(t, b.Put(nil), ErrParams)
	assert.ErrorIs(t, b.Watch(nil), ErrParams)
}

func TestByteOps(t *testing.T) {
	b := newByteBuffer(t, 8)

	require.NoError(t, b.PutByte(42))
	require.NoError(t, b.PutByte(43))

	v, err := b.WatchByte()
	require.NoError(t, err)
	assert.Equal(t, byte(42), v)
	cnt, _ := b.Available()
	assert.Equal(t, 2, cnt)

	v, err = b.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(42), v)
	v, err = b.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(43), v)

	// byte ops require a 1-byte cell size
	mb, err := NewBuffer(make([]byte, 12), 3, 4)
	require.NoError(t, err)
	assert.ErrorIs(t, mb.PutByte(1), ErrParams)
	_, err = mb.ReadByte()
	assert.ErrorIs(t, err, ErrParams)
	_, err = mb.WatchByte()
	assert.ErrorIs(t, err, ErrParams)
}

func TestClearKeepsStorage(t *testing.T) {
	b := newByteBuffer(t, 8)
	require.NoError(t, b.Put([]byte{1, 2, 3}))
	require.NoError(t, b.Clear())

	cnt, err := b.Available()
	require.NoError(t, err)
	assert.Equal(t, 0, cnt)

	// buffer stays usable after clear
	require.NoError(t, b.Put([]byte{7, 8}))
	out := make([]byte, 2)
	require.NoError(t, b.Read(out))
	assert.Equal(t, []byte{7, 8}, out)
}

func TestCtxVariantsWithObservability(t *testing.T) {
	b, err := NewBuffer(make([]byte, 16), 16, 1,
		OptionName{Name: "uart_rx"},
		OptionPrometheusMetrics{EnablePrometheusMetrics: true},
		OptionOpenTelemetry{EnableTracing: true},
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, b.PutCtx(ctx, []byte{1, 2, 3, 4}))
	require.NoError(t, b.PutOneCtx(ctx, []byte{5}))

	out := make([]byte, 2)
	require.NoError(t, b.WatchCtx(ctx, out))
	assert.Equal(t, []byte{1, 2}, out)
	require.NoError(t, b.ReadCtx(ctx, out))
	assert.Equal(t, []byte{1, 2}, out)

	one := make([]byte, 1)
	require.NoError(t, b.WatchOneCtx(ctx, one))
	assert.Equal(t, byte(3), one[0])
	require.NoError(t, b.ReadOneCtx(ctx, one))
	assert.Equal(t, byte(3), one[0])

	cnt, err := b.Available()
	require.NoError(t, err)
	assert.Equal(t, 2, cnt)
	require.NoError(t, b.Clear())
}

func TestBufferUsableAfterError(t *testing.T) {
	b := newByteBuffer(t, 4)
	require.NoError(t, b.Put([]byte{1, 2}))

	require.ErrorIs(t, b.Put(make([]byte, 5)), ErrOverflow)
	require.ErrorIs(t, b.Watch(nil), ErrParams)

	out := make([]byte, 2)
	require.NoError(t, b.Read(out))
	assert.Equal(t, []byte{1, 2}, out)
}
