package ringbuf

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/golang/snappy"
)

// Snapshot wire layout: magic, header length, JSON header, payload length,
// snappy-compressed storage bytes. All integers are little-endian uint32.
const snapshotMagic = uint32(0x52425546) // "RBUF"

type snapshotHeader struct {
	Version  string `json:"version"`
	Capacity int    `json:"capacity"`
	CellSize int    `json:"cell_size"`
	Head     int    `json:"head"`
	Tail     int    `json:"tail"`
}

// WriteSnapshot dumps the buffer state to w: indexes plus the raw storage
// region, compressed. The head/tail pair is reproduced exactly on restore,
// so a completely full (ambiguous, Available == 0) buffer stays that way.
func (b *Buffer) WriteSnapshot(w io.Writer) error {
	if b == nil || b.buf == nil {
		return ErrParams
	}

	hdr, err := json.Marshal(snapshotHeader{
		Version:  RingBufVersion,
		Capacity: b.capacity,
		CellSize: b.cellSize,
		Head:     b.head,
		Tail:     b.tail,
	})
	if err != nil {
		return err
	}
	payload := snappy.Encode(nil, b.buf[:b.capacity*b.cellSize])

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], snapshotMagic)
	if _, err := w.Write(u32[:]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(u32[:], uint32(len(hdr)))
	if _, err := w.Write(u32[:]); err != nil {
		return err
	}
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(u32[:], uint32(len(payload)))
	if _, err := w.Write(u32[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// ReadSnapshot restores a buffer from a snapshot written by WriteSnapshot.
// The backing storage is allocated here; options are passed through to
// NewBuffer.
func ReadSnapshot(r io.Reader, options ...interface{}) (*Buffer, error) {
	var u32 [4]byte
	if _, err := io.ReadFull(r, u32[:]); err != nil {
		return nil, err
	}
	if binary.LittleEndian.Uint32(u32[:]) != snapshotMagic {
		return nil, fmt.Errorf("ringbuf: bad snapshot magic")
	}

	if _, err := io.ReadFull(r, u32[:]); err != nil {
		return nil, err
	}
	hdrBuf := make([]byte, binary.LittleEndian.Uint32(u32[:]))
	if _, err := io.ReadFull(r, hdrBuf); err != nil {
		return nil, err
	}
	var hdr snapshotHeader
	if err := json.Unmarshal(hdrBuf, &hdr); err != nil {
		return nil, err
	}
	if hdr.Capacity <= 0 || hdr.CellSize <= 0 ||
		hdr.Head < 0 || hdr.Head >= hdr.Capacity ||
		hdr.Tail < 0 || hdr.Tail >= hdr.Capacity {
		return nil, fmt.Errorf("ringbuf: bad snapshot header")
	}

	if _, err := io.ReadFull(r, u32[:]); err != nil {
		return nil, err
	}
	payload := make([]byte, binary.LittleEndian.Uint32(u32[:]))
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	storage, err := snappy.Decode(nil, payload)
	if err != nil {
		return nil, err
	}
	if len(storage) != hdr.Capacity*hdr.CellSize {
		return nil, fmt.Errorf("ringbuf: snapshot payload size mismatch: got %d, want %d",
			len(storage), hdr.Capacity*hdr.CellSize)
	}

	b, err := NewBuffer(storage, hdr.Capacity, hdr.CellSize, options...)
	if err != nil {
		return nil, err
	}
	b.head = hdr.Head
	b.tail = hdr.Tail
	return b, nil
}
