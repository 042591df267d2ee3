package seqmatch

import (
	"encoding/binary"
	"io"
	"sort"
	"unsafe"

	"github.com/google/uuid"

	"github.com/coregx/seqmatch/events"
	"github.com/coregx/seqmatch/seqerr"
)

// State is the per-group mutable event buffer (spec.md §4.C1): an
// append-only list of (timestamp, event-mask) rows plus the
// cumulative-OR of every mask ever added, used as the cheap guard
// before running a matcher.
//
// State carries no mutex. Per spec.md §5, a State has a single owner at
// a time; Merge transfers ownership of the source's rows into the
// destination. This is the same single-owner-by-convention contract the
// teacher gives its NFA thread lists and backtrack stacks: internal
// mutable scratch state, not safe for concurrent use, and not defended
// with locks because the contract is "don't".
type State[T events.Unsigned] struct {
	rows          []events.Row[T]
	sorted        bool
	conditionsMet uint32

	// GroupID is an optional caller-assigned correlation ID, surfaced on
	// log lines emitted while matching this state. It has no effect on
	// matcher semantics.
	GroupID uuid.UUID
}

// Add appends one row, setting bit i (0-based) for every true value in
// eventBits.
func (s *State[T]) Add(t T, eventBits ...bool) {
	var mask uint32
	for i, b := range eventBits {
		if b {
			mask |= 1 << uint(i)
		}
	}
	s.Add32(t, mask)
}

// Add32 appends one row using a pre-built mask directly. Per spec.md
// §4.C1 ("if e ≠ 0, append") and §3's "empty rows are never stored"
// invariant, a row whose mask is all-zero is dropped rather than
// appended, mirroring original_source's `if (events.any())` guard.
func (s *State[T]) Add32(t T, mask uint32) {
	if mask == 0 {
		return
	}
	s.rows = append(s.rows, events.Row[T]{Timestamp: t, Mask: mask})
	s.conditionsMet |= mask
	s.sorted = false
}

// AddColumns ingests columnar data: flags[k] is the boolean column for
// event k+1, one entry per timestamp. Shorter columns are treated as
// all-false past their length. This mirrors the column-array ingestion
// the original ClickHouse operator performs row by row.
func (s *State[T]) AddColumns(timestamps []T, flags [][]bool) {
	for i, t := range timestamps {
		var mask uint32
		for k, col := range flags {
			if i < len(col) && col[i] {
				mask |= 1 << uint(k)
			}
		}
		s.Add32(t, mask)
	}
}

// Merge folds other's rows into s, taking ownership of them. other must
// not be used afterward.
func (s *State[T]) Merge(other *State[T]) {
	s.rows = append(s.rows, other.rows...)
	s.conditionsMet |= other.conditionsMet
	s.sorted = false
}

// sortRows stable-sorts rows by timestamp, lazily and at most once per
// batch of adds.
func (s *State[T]) sortRows() {
	if s.sorted {
		return
	}
	sort.SliceStable(s.rows, func(i, j int) bool {
		return s.rows[i].Timestamp < s.rows[j].Timestamp
	})
	s.sorted = true
}

// timestampWidth returns the on-wire byte width of T: 2, 4, or 8, per
// spec.md §3's "16/32/64-bit for date, datetime, or generic counter".
// unsafe.Sizeof is a compile-time constant for any type instantiating
// the Unsigned constraint (fixed-width integers, including named types
// built on them), so this carries no runtime cost and needs no type
// switch over every possible named timestamp type.
func timestampWidth[T events.Unsigned]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// putTimestamp writes v into buf (which must be exactly width bytes)
// little-endian, at the width spec.md §6 requires for T's actual size —
// "raw little-endian of the timestamp type", not a fixed 8 bytes
// regardless of T.
func putTimestamp(buf []byte, v uint64, width int) {
	switch width {
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	default:
		binary.LittleEndian.PutUint64(buf, v)
	}
}

// getTimestamp reads a width-byte little-endian timestamp from buf.
func getTimestamp(buf []byte, width int) uint64 {
	switch width {
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf))
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf))
	default:
		return binary.LittleEndian.Uint64(buf)
	}
}

// WriteTo serializes the state per spec.md §6's wire format: a sorted
// flag byte, a varuint row count, then that many (timestamp, mask)
// pairs — the timestamp as a raw little-endian value sized to T (2, 4,
// or 8 bytes), the mask as a little-endian uint64 of which only the low
// 32 bits are significant.
func (s *State[T]) WriteTo(w io.Writer) (int64, error) {
	var n int64

	sortedByte := byte(0)
	if s.sorted {
		sortedByte = 1
	}
	if _, err := w.Write([]byte{sortedByte}); err != nil {
		return n, err
	}
	n++

	var varintBuf [binary.MaxVarintLen64]byte
	m := binary.PutUvarint(varintBuf[:], uint64(len(s.rows)))
	if _, err := w.Write(varintBuf[:m]); err != nil {
		return n, err
	}
	n += int64(m)

	tsWidth := timestampWidth[T]()
	rowBuf := make([]byte, tsWidth+8)
	for _, r := range s.rows {
		putTimestamp(rowBuf[0:tsWidth], uint64(r.Timestamp), tsWidth)
		binary.LittleEndian.PutUint64(rowBuf[tsWidth:tsWidth+8], uint64(r.Mask))
		if _, err := w.Write(rowBuf); err != nil {
			return n, err
		}
		n += int64(len(rowBuf))
	}

	return n, nil
}

// countingByteReader adapts an io.Reader into the io.ByteReader
// binary.ReadUvarint needs, while tracking bytes consumed for WriteTo's
// ReaderFrom counterpart.
type countingByteReader struct {
	io.Reader
	n int64
}

func (c *countingByteReader) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(c.Reader, b[:]); err != nil {
		return 0, err
	}
	c.n++
	return b[0], nil
}

// ReadFrom deserializes a state written by WriteTo. Per spec.md §6's
// deliberate over-approximation, conditionsMet is reset to all-ones
// rather than recomputed from the decoded rows: a deserialized state
// always takes the "might match" branch of the cheap guard, trading a
// few wasted full matcher runs for never needing to re-scan every row's
// mask just to restore an OR-accumulator.
func (s *State[T]) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingByteReader{Reader: r}

	sortedByte, err := cr.ReadByte()
	if err != nil {
		return cr.n, err
	}
	if sortedByte != 0 && sortedByte != 1 {
		return cr.n, seqerr.ErrMalformedState
	}

	count, err := binary.ReadUvarint(cr)
	if err != nil {
		return cr.n, seqerr.ErrShortRead
	}

	tsWidth := timestampWidth[T]()
	rowBuf := make([]byte, tsWidth+8)
	rows := make([]events.Row[T], 0, count)
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(cr.Reader, rowBuf); err != nil {
			return cr.n, seqerr.ErrShortRead
		}
		cr.n += int64(len(rowBuf))

		ts := getTimestamp(rowBuf[0:tsWidth], tsWidth)
		mask := binary.LittleEndian.Uint64(rowBuf[tsWidth : tsWidth+8])
		rows = append(rows, events.Row[T]{Timestamp: T(ts), Mask: uint32(mask)})
	}

	s.rows = rows
	s.sorted = sortedByte == 1
	s.conditionsMet = ^uint32(0)

	return cr.n, nil
}
