// Package persist stores trained classifiers in a small checked binary
// format.
//
// Layout, all integers little-endian:
//
//	magic "GRV1" | version u8 | payload length u64 | payload | crc32c(payload)
//
// The payload is the classifier snapshot: feature count, outcome labels in
// enumeration order, the L2 coefficient, hidden widths, and each parametric
// layer's weights and bias verbatim.
package persist

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/grove-ml/grove/internal/classifier"
)

const formatVersion = 1

var magic = [4]byte{'G', 'R', 'V', '1'}

// Common errors.
var (
	ErrBadMagic           = errors.New("persist: invalid magic bytes")
	ErrUnsupportedVersion = errors.New("persist: unsupported format version")
	ErrChecksumMismatch   = errors.New("persist: checksum mismatch: file may be corrupted")
	ErrMalformedSnapshot  = errors.New("persist: malformed snapshot")
)

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// Save writes a trained classifier to w. Saving an untrained classifier
// fails with the *nn.StateError from Snapshot.
func Save(w io.Writer, c *classifier.Classifier) error {
	snap, err := c.Snapshot()
	if err != nil {
		return err
	}

	payload := encodeSnapshot(snap)

	var header bytes.Buffer
	header.Write(magic[:])
	header.WriteByte(formatVersion)
	binary.Write(&header, binary.LittleEndian, uint64(len(payload)))

	if _, err := w.Write(header.Bytes()); err != nil {
		return fmt.Errorf("persist: write header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("persist: write payload: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, crc32.Checksum(payload, crcTable)); err != nil {
		return fmt.Errorf("persist: write checksum: %w", err)
	}
	return nil
}

// Load reads a classifier written by Save and reconstructs it, ready for
// inference.
func Load(r io.Reader) (*classifier.Classifier, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, fmt.Errorf("persist: read magic: %w", err)
	}
	if m != magic {
		return nil, ErrBadMagic
	}

	var version [1]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return nil, fmt.Errorf("persist: read version: %w", err)
	}
	if version[0] != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version[0])
	}

	var length uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, fmt.Errorf("persist: read payload length: %w", err)
	}
	if length > math.MaxInt64 {
		return nil, fmt.Errorf("persist: payload length %d: %w", length, io.ErrUnexpectedEOF)
	}

	// The declared length is untrusted input: read through a limit so a
	// crafted header cannot force an allocation larger than the data that
	// actually follows it.
	var body bytes.Buffer
	n, err := io.Copy(&body, io.LimitReader(r, int64(length)))
	if err != nil {
		return nil, fmt.Errorf("persist: read payload: %w", err)
	}
	if uint64(n) != length {
		return nil, fmt.Errorf("persist: read payload: %w", io.ErrUnexpectedEOF)
	}
	payload := body.Bytes()

	var sum uint32
	if err := binary.Read(r, binary.LittleEndian, &sum); err != nil {
		return nil, fmt.Errorf("persist: read checksum: %w", err)
	}
	if crc32.Checksum(payload, crcTable) != sum {
		return nil, ErrChecksumMismatch
	}

	snap, err := decodeSnapshot(payload)
	if err != nil {
		return nil, err
	}
	return classifier.FromSnapshot(snap)
}

func encodeSnapshot(s *classifier.Snapshot) []byte {
	var buf bytes.Buffer
	putUint32 := func(v int) {
		binary.Write(&buf, binary.LittleEndian, uint32(v))
	}
	putFloats := func(fs []float64) {
		putUint32(len(fs))
		for _, f := range fs {
			binary.Write(&buf, binary.LittleEndian, math.Float64bits(f))
		}
	}

	putUint32(s.Features)
	putUint32(len(s.Outcomes))
	for _, o := range s.Outcomes {
		putUint32(len(o))
		buf.WriteString(o)
	}
	binary.Write(&buf, binary.LittleEndian, math.Float64bits(s.Alpha))
	putUint32(len(s.Hidden))
	for _, h := range s.Hidden {
		putUint32(h)
	}
	putUint32(len(s.Layers))
	for _, l := range s.Layers {
		putUint32(l.In)
		putUint32(l.Out)
		putFloats(l.Weights)
		putFloats(l.Bias)
	}
	return buf.Bytes()
}

func decodeSnapshot(payload []byte) (*classifier.Snapshot, error) {
	r := &payloadReader{data: payload}

	s := &classifier.Snapshot{}
	s.Features = r.uint32()

	outcomes := r.uint32()
	for i := 0; i < outcomes && r.err == nil; i++ {
		s.Outcomes = append(s.Outcomes, r.str())
	}

	s.Alpha = r.float64()

	hidden := r.uint32()
	for i := 0; i < hidden && r.err == nil; i++ {
		s.Hidden = append(s.Hidden, r.uint32())
	}

	layers := r.uint32()
	for i := 0; i < layers && r.err == nil; i++ {
		l := classifier.LayerSnapshot{
			In:  r.uint32(),
			Out: r.uint32(),
		}
		l.Weights = r.floats()
		l.Bias = r.floats()
		s.Layers = append(s.Layers, l)
	}

	if r.err != nil {
		return nil, r.err
	}
	if len(r.data) != r.off {
		return nil, fmt.Errorf("persist: %d trailing payload bytes", len(r.data)-r.off)
	}
	if err := validateSnapshot(s); err != nil {
		return nil, err
	}
	return s, nil
}

// validateSnapshot rejects decoded payloads that are structurally valid but
// describe an impossible network. A checksum only proves the bytes arrived
// intact, not that the declared dimensions are sane.
func validateSnapshot(s *classifier.Snapshot) error {
	if s.Features < 1 {
		return fmt.Errorf("%w: %d features", ErrMalformedSnapshot, s.Features)
	}
	if len(s.Outcomes) == 0 {
		return fmt.Errorf("%w: no outcome labels", ErrMalformedSnapshot)
	}
	if len(s.Layers) == 0 {
		return fmt.Errorf("%w: no layers", ErrMalformedSnapshot)
	}
	for i, h := range s.Hidden {
		if h < 1 {
			return fmt.Errorf("%w: hidden width %d at position %d", ErrMalformedSnapshot, h, i)
		}
	}
	for i, l := range s.Layers {
		if l.In < 1 || l.Out < 1 {
			return fmt.Errorf("%w: layer %d is %dx%d", ErrMalformedSnapshot, i, l.Out, l.In)
		}
	}
	return nil
}

// payloadReader decodes the payload sequentially, latching the first error.
type payloadReader struct {
	data []byte
	off  int
	err  error
}

func (r *payloadReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = fmt.Errorf("persist: truncated payload")
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *payloadReader) uint32() int {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int(binary.LittleEndian.Uint32(b))
}

func (r *payloadReader) float64() float64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func (r *payloadReader) str() string {
	n := r.uint32()
	b := r.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

func (r *payloadReader) floats() []float64 {
	n := r.uint32()
	if r.err != nil {
		return nil
	}
	// Bound the declared count by the bytes left before allocating.
	if n > (len(r.data)-r.off)/8 {
		r.err = fmt.Errorf("persist: truncated payload")
		return nil
	}
	fs := make([]float64, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		fs = append(fs, r.float64())
	}
	return fs
}
