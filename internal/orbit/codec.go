package orbit

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrBadArtifact is returned when a serialized record cannot be decoded.
var ErrBadArtifact = errors.New("malformed orbit artifact")

var artifactMagic = [4]byte{'O', 'R', 'B', 'T'}

const artifactVersion = 1

// maxArtifactPoints bounds the decoded point count. Daily sampling of the
// slowest planet needs about 60k points for a revolution, so anything near
// this ceiling is a corrupt count field, not data.
const maxArtifactPoints = 1 << 20

// Encode serializes a record. The layout is little-endian: magic, version,
// granularity, name, interval, angular step, start date, reference index,
// span, then the points as raw float64 bits, so decoding reproduces the
// record exactly.
func Encode(w io.Writer, r *Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if len(r.Name) > math.MaxUint16 {
		return fmt.Errorf("orbit record name too long: %d bytes", len(r.Name))
	}

	var buf bytes.Buffer
	buf.Write(artifactMagic[:])
	buf.WriteByte(artifactVersion)
	buf.WriteByte(byte(r.Granularity))

	writeF := func(v float64) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		buf.Write(b[:])
	}
	writeU32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf.Write(b[:])
	}

	var nameLen [2]byte
	binary.LittleEndian.PutUint16(nameLen[:], uint16(len(r.Name)))
	buf.Write(nameLen[:])
	buf.WriteString(r.Name)

	writeF(r.IntervalDays)
	writeF(r.StepDegrees)
	writeF(r.StartJD)
	writeU32(uint32(r.RefIndex))
	writeF(r.Span.MinX)
	writeF(r.Span.MaxX)
	writeF(r.Span.MinY)
	writeF(r.Span.MaxY)

	writeU32(uint32(len(r.Points)))
	for _, p := range r.Points {
		writeF(p.X)
		writeF(p.Y)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// Decode reads a serialized record. Wrong magic or version, or a truncated
// payload, yields an error wrapping ErrBadArtifact.
func Decode(rd io.Reader) (*Record, error) {
	var magic [4]byte
	if _, err := io.ReadFull(rd, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: short header: %v", ErrBadArtifact, err)
	}
	if magic != artifactMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadArtifact, magic[:])
	}

	var meta [2]byte // version, granularity
	if _, err := io.ReadFull(rd, meta[:]); err != nil {
		return nil, fmt.Errorf("%w: short header: %v", ErrBadArtifact, err)
	}
	if meta[0] != artifactVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadArtifact, meta[0])
	}

	readF := func() (float64, error) {
		var b [8]byte
		if _, err := io.ReadFull(rd, b[:]); err != nil {
			return 0, err
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(b[:])), nil
	}
	readU32 := func() (uint32, error) {
		var b [4]byte
		if _, err := io.ReadFull(rd, b[:]); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint32(b[:]), nil
	}

	rec := &Record{Granularity: Granularity(meta[1])}

	var nameLen [2]byte
	if _, err := io.ReadFull(rd, nameLen[:]); err != nil {
		return nil, fmt.Errorf("%w: short name length: %v", ErrBadArtifact, err)
	}
	name := make([]byte, binary.LittleEndian.Uint16(nameLen[:]))
	if _, err := io.ReadFull(rd, name); err != nil {
		return nil, fmt.Errorf("%w: short name: %v", ErrBadArtifact, err)
	}
	rec.Name = string(name)

	var err error
	fields := []*float64{
		&rec.IntervalDays, &rec.StepDegrees, &rec.StartJD,
	}
	for _, f := range fields {
		if *f, err = readF(); err != nil {
			return nil, fmt.Errorf("%w: short metadata: %v", ErrBadArtifact, err)
		}
	}
	refIdx, err := readU32()
	if err != nil {
		return nil, fmt.Errorf("%w: short metadata: %v", ErrBadArtifact, err)
	}
	rec.RefIndex = int(refIdx)
	spanFields := []*float64{
		&rec.Span.MinX, &rec.Span.MaxX, &rec.Span.MinY, &rec.Span.MaxY,
	}
	for _, f := range spanFields {
		if *f, err = readF(); err != nil {
			return nil, fmt.Errorf("%w: short span: %v", ErrBadArtifact, err)
		}
	}

	count, err := readU32()
	if err != nil {
		return nil, fmt.Errorf("%w: short point count: %v", ErrBadArtifact, err)
	}
	// the count is untrusted input; refuse to allocate for a corrupt field
	if count > maxArtifactPoints {
		return nil, fmt.Errorf("%w: implausible point count %d", ErrBadArtifact, count)
	}
	rec.Points = make([]Point, count)
	for i := range rec.Points {
		if rec.Points[i].X, err = readF(); err != nil {
			return nil, fmt.Errorf("%w: short point %d: %v", ErrBadArtifact, i, err)
		}
		if rec.Points[i].Y, err = readF(); err != nil {
			return nil, fmt.Errorf("%w: short point %d: %v", ErrBadArtifact, i, err)
		}
	}

	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArtifact, err)
	}
	return rec, nil
}
