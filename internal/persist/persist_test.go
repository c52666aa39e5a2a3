package persist_test

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grove-ml/grove/internal/classifier"
	"github.com/grove-ml/grove/internal/dataset"
	"github.com/grove-ml/grove/internal/nn"
	"github.com/grove-ml/grove/internal/optim"
	"github.com/grove-ml/grove/internal/persist"
)

func trained(t *testing.T) *classifier.Classifier {
	t.Helper()

	rng := rand.New(rand.NewSource(21))
	var samples [][]float64
	var labels []string
	for i := 0; i < 30; i++ {
		samples = append(samples, []float64{rng.NormFloat64(), rng.NormFloat64()})
		labels = append(labels, "low")
		samples = append(samples, []float64{8 + rng.NormFloat64(), 8 + rng.NormFloat64()})
		labels = append(labels, "high")
	}
	ds, err := dataset.New(samples, labels)
	require.NoError(t, err)

	cfg := classifier.DefaultConfig()
	cfg.BatchSize = 10
	cfg.Threshold = 0
	cfg.Epochs = 40
	cfg.Seed = 3
	cfg.Optimizer = func() optim.Optimizer { return optim.NewAdam(optim.AdamConfig{LR: 0.05}) }

	c, err := classifier.New(cfg)
	require.NoError(t, err)
	require.NoError(t, c.Fit(ds))
	return c
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	c := trained(t)

	var buf bytes.Buffer
	require.NoError(t, persist.Save(&buf, c))

	loaded, err := persist.Load(&buf)
	require.NoError(t, err)
	require.True(t, loaded.Trained())
	assert.Equal(t, c.Outcomes(), loaded.Outcomes())

	inputs := [][]float64{{0, 0}, {8, 8}, {4, 4}}

	want, err := c.Proba(inputs)
	require.NoError(t, err)
	got, err := loaded.Proba(inputs)
	require.NoError(t, err)

	for i := range want {
		for class, p := range want[i] {
			assert.Equal(t, p, got[i][class], "sample %d class %s", i, class)
		}
	}
}

func TestSave_UntrainedFails(t *testing.T) {
	c, err := classifier.New(classifier.DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	err = persist.Save(&buf, c)

	var stateErr *nn.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Zero(t, buf.Len())
}

func TestLoad_BadMagic(t *testing.T) {
	_, err := persist.Load(bytes.NewReader([]byte("NOPEnope")))
	require.ErrorIs(t, err, persist.ErrBadMagic)
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	c := trained(t)

	var buf bytes.Buffer
	require.NoError(t, persist.Save(&buf, c))

	data := buf.Bytes()
	data[4] = 99 // version byte follows the magic

	_, err := persist.Load(bytes.NewReader(data))
	require.ErrorIs(t, err, persist.ErrUnsupportedVersion)
}

func TestLoad_CorruptedPayload(t *testing.T) {
	c := trained(t)

	var buf bytes.Buffer
	require.NoError(t, persist.Save(&buf, c))

	data := buf.Bytes()
	data[len(data)-20] ^= 0xFF // flip a payload byte, checksum must catch it

	_, err := persist.Load(bytes.NewReader(data))
	require.ErrorIs(t, err, persist.ErrChecksumMismatch)
}

// payloadBuilder assembles raw snapshot payloads for crafted-file tests.
type payloadBuilder struct{ buf bytes.Buffer }

func (b *payloadBuilder) u32(v uint32)  { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *payloadBuilder) f64(v float64) { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *payloadBuilder) str(s string)  { b.u32(uint32(len(s))); b.buf.WriteString(s) }
func (b *payloadBuilder) floats(fs ...float64) {
	b.u32(uint32(len(fs)))
	for _, f := range fs {
		b.f64(f)
	}
}

// packFile wraps a payload in a well-formed header and matching checksum.
func packFile(payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("GRV1")
	buf.WriteByte(1)
	binary.Write(&buf, binary.LittleEndian, uint64(len(payload)))
	buf.Write(payload)
	binary.Write(&buf, binary.LittleEndian, crc32.Checksum(payload, crc32.MakeTable(crc32.Castagnoli)))
	return buf.Bytes()
}

func TestLoad_MalformedSnapshot(t *testing.T) {
	// Each payload decodes cleanly and carries a correct checksum, but
	// declares a network no classifier could have produced. Load must
	// return an error, never panic in layer construction.
	cases := []struct {
		name  string
		build func(b *payloadBuilder)
	}{
		{"zero features", func(b *payloadBuilder) {
			b.u32(0)
			b.u32(1)
			b.str("a")
			b.f64(0)
			b.u32(0)
			b.u32(1)
			b.u32(0) // in
			b.u32(1) // out
			b.floats()
			b.floats(0)
		}},
		{"zero outcomes", func(b *payloadBuilder) {
			b.u32(2)
			b.u32(0)
			b.f64(0)
			b.u32(0)
			b.u32(1)
			b.u32(2) // in
			b.u32(0) // out
			b.floats()
			b.floats()
		}},
		{"zero-width layer", func(b *payloadBuilder) {
			b.u32(2)
			b.u32(1)
			b.str("a")
			b.f64(0)
			b.u32(0)
			b.u32(1)
			b.u32(2) // in
			b.u32(0) // out
			b.floats()
			b.floats()
		}},
		{"zero hidden width", func(b *payloadBuilder) {
			b.u32(2)
			b.u32(1)
			b.str("a")
			b.f64(0)
			b.u32(1)
			b.u32(0) // hidden width
			b.u32(1)
			b.u32(2)
			b.u32(1)
			b.floats(0, 0)
			b.floats(0)
		}},
		{"no layers", func(b *payloadBuilder) {
			b.u32(2)
			b.u32(1)
			b.str("a")
			b.f64(0)
			b.u32(0)
			b.u32(0)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b payloadBuilder
			tc.build(&b)

			_, err := persist.Load(bytes.NewReader(packFile(b.buf.Bytes())))
			require.ErrorIs(t, err, persist.ErrMalformedSnapshot)
		})
	}
}

func TestLoad_HugeDeclaredPayloadLength(t *testing.T) {
	// A header may declare any length; Load must not allocate for bytes
	// that never arrive.
	var buf bytes.Buffer
	buf.WriteString("GRV1")
	buf.WriteByte(1)
	binary.Write(&buf, binary.LittleEndian, uint64(1)<<62)
	buf.WriteString("short")

	_, err := persist.Load(&buf)
	require.Error(t, err)
}

func TestLoad_OverlongFloatCount(t *testing.T) {
	// The weights vector declares four billion entries backed by no data.
	var b payloadBuilder
	b.u32(2)
	b.u32(1)
	b.str("a")
	b.f64(0)
	b.u32(0)
	b.u32(1)
	b.u32(2)
	b.u32(1)
	b.u32(0xFFFFFFFF) // weights count, nothing follows

	_, err := persist.Load(bytes.NewReader(packFile(b.buf.Bytes())))
	require.Error(t, err)
}

func TestLoad_Truncated(t *testing.T) {
	c := trained(t)

	var buf bytes.Buffer
	require.NoError(t, persist.Save(&buf, c))

	_, err := persist.Load(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	require.Error(t, err)
}
