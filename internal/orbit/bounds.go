package orbit

import (
	geom "github.com/peterstace/simplefeatures/geom"
)

// boundingSpan computes the orbit's bounding extent from the envelope of the
// orbit polyline.
func boundingSpan(points []Point) Span {
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.X, p.Y)
	}
	seq := geom.NewSequence(flat, geom.DimXY)
	ls, err := geom.NewLineString(seq)
	if err != nil {
		// fewer than two points, which Build already rules out
		return Span{}
	}

	min, max, ok := ls.Envelope().MinMaxXYs()
	if !ok {
		return Span{}
	}
	return Span{MinX: min.X, MaxX: max.X, MinY: min.Y, MaxY: max.Y}
}
