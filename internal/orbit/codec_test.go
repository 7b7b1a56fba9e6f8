package orbit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *Record {
	return &Record{
		Name:         "Saturn",
		Granularity:  GranularityDegrees,
		IntervalDays: 74.83,
		StepDegrees:  2.5,
		StartJD:      2455000.5,
		RefIndex:     3,
		Span:         Span{MinX: -10.1, MaxX: 9.7, MinY: -9.9, MaxY: 10.3},
		Points: []Point{
			{X: 9.7, Y: 0.001}, {X: 9.1, Y: 2.3}, {X: 7.9, Y: 4.4},
			{X: -10.1, Y: -0.5}, {X: 1.4142135623730951, Y: -9.9},
		},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	rec := sampleRecord()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, rec))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, rec, got, "round trip must reproduce the record exactly")
}

func TestCodecRoundTrip_DaySampled(t *testing.T) {
	rec := &Record{
		Name:         "Mercury",
		Granularity:  GranularityDays,
		IntervalDays: 1,
		StartJD:      2458000.5,
		Points:       []Point{{X: 0.39, Y: 0}, {X: 0, Y: 0.39}},
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, rec))
	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestEncodeRejectsInvalidRecord(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, &Record{Name: "Empty", Granularity: GranularityDays, IntervalDays: 1})
	assert.Error(t, err)
	assert.Zero(t, buf.Len(), "nothing may be written for an invalid record")
}

func TestDecodeBadMagic(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("NOPE not an artifact")))
	assert.ErrorIs(t, err, ErrBadArtifact)
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleRecord()))
	raw := buf.Bytes()
	raw[4] = 99 // version byte

	_, err := Decode(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrBadArtifact)
}

func TestDecodeImplausiblePointCount(t *testing.T) {
	rec := sampleRecord()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, rec))
	raw := buf.Bytes()

	// the count field sits right before the point payload
	countOff := len(raw) - len(rec.Points)*16 - 4
	for i := 0; i < 4; i++ {
		raw[countOff+i] = 0xFF
	}

	_, err := Decode(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrBadArtifact,
		"a corrupt count must be rejected before any allocation")
}

func TestDecodeTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleRecord()))
	raw := buf.Bytes()

	for _, cut := range []int{0, 3, 5, 10, len(raw) / 2, len(raw) - 1} {
		_, err := Decode(bytes.NewReader(raw[:cut]))
		assert.ErrorIs(t, err, ErrBadArtifact, "cut at %d", cut)
	}
}
