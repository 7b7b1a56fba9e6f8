package ephemeris

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const horizonsHeader = `*******************************************************************************
Revised: Jul 31, 2013           Saturn Barycenter                           695
Target body name: Saturn Barycenter (6)
Step-size       : 10080 minutes
*******************************************************************************
$$$SOE
`

func horizonsRecord(jd, x, y, z, rg float64) string {
	return fmt.Sprintf("%f = A.D. 2018-Jan-25 00:00:00.0000 TDB\n", jd) +
		fmt.Sprintf(" X = %.12E Y = %.12E Z =%.12E\n", x, y, z) +
		" VX= 1.0E-03 VY= 2.0E-03 VZ= 3.0E-03\n" +
		fmt.Sprintf(" LT= 8.1E-03 RG= %.12E RR= 9.4E-06\n", rg)
}

func TestReadHorizons(t *testing.T) {
	var b strings.Builder
	b.WriteString(horizonsHeader)
	b.WriteString(horizonsRecord(2458143.5, 1.30, 0.54, -0.002, 1.41))
	b.WriteString(horizonsRecord(2458150.5, 1.28, 0.60, -0.002, 1.42))
	b.WriteString("$$$EOE\n")

	tbl, err := Read(strings.NewReader(b.String()))
	require.NoError(t, err)

	assert.Equal(t, "Saturn", tbl.Name)
	assert.Equal(t, 10080, tbl.StepMinutes)
	require.Len(t, tbl.Samples, 2)
	assert.Equal(t, 2458143.5, tbl.Samples[0].JD)
	assert.Equal(t, 1.30, tbl.Samples[0].X)
	assert.Equal(t, 0.54, tbl.Samples[0].Y)
	assert.Equal(t, -0.002, tbl.Samples[0].Z)
	assert.Equal(t, 1.41, tbl.Samples[0].Distance)
}

func TestReadHorizons_GluedNegativeCoordinate(t *testing.T) {
	x, y, z, err := parseXYZ(" X = 1.309801081200231E+00 Y = 5.452635553461058E-01 Z =-2.071897910298827E-03")
	require.NoError(t, err)
	assert.InDelta(t, 1.3098010812, x, 1e-9)
	assert.InDelta(t, 0.5452635553, y, 1e-9)
	assert.InDelta(t, -0.0020718979, z, 1e-9)
}

func TestReadHorizons_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		row    int
		reason string
	}{
		{
			name:   "non-numeric date",
			body:   "abc = A.D.\n X = 1 Y = 2 Z = 3\nVX\n LT= 1 RG= 2 RR= 3\n$$$EOE\n",
			row:    1,
			reason: "non-numeric Julian date",
		},
		{
			name: "non-numeric coordinate in second record",
			body: horizonsRecord(2458143.5, 1, 2, 3, 4) +
				"2458150.5 = A.D.\n X = 1 Y = oops Z = 3\nVX\n LT= 1 RG= 2 RR= 3\n$$$EOE\n",
			row:    2,
			reason: "non-numeric coordinate",
		},
		{
			name:   "missing position line",
			body:   "2458143.5 = A.D.\n",
			row:    1,
			reason: "missing position line",
		},
		{
			name: "out of order dates",
			body: horizonsRecord(2458150.5, 1, 2, 3, 4) +
				horizonsRecord(2458143.5, 1, 2, 3, 4) + "$$$EOE\n",
			row:    2,
			reason: "not after previous sample",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(horizonsHeader + tt.body))
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want ParseError, got %v", err)
			assert.Equal(t, tt.row, pe.Row)
			assert.Contains(t, pe.Reason, tt.reason)
		})
	}
}

func TestReadPlain(t *testing.T) {
	input := `# synthetic circle
2458143.5 1.0 0.0 0.0
2458144.5 0.0 1.0 0.0
2458145.5 -1.0 0.0 0.0 1.0
`
	tbl, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, tbl.Name)
	assert.Zero(t, tbl.StepMinutes)
	require.Len(t, tbl.Samples, 3)

	// 4-field rows fall back to the vector norm for distance
	assert.InDelta(t, 1.0, tbl.Samples[0].Distance, 1e-12)
	assert.Equal(t, 1.0, tbl.Samples[2].Distance)
}

func TestReadPlain_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		row    int
		reason string
	}{
		{"wrong field count", "2458143.5 1.0 0.0\n", 1, "expected 4 or 5 fields"},
		{"non-numeric field", "2458143.5 1.0 0.0 0.0\n2458144.5 x 1.0 0.0\n", 2, "non-numeric field"},
		{"duplicate timestamp", "2458143.5 1 0 0\n2458143.5 0 1 0\n", 2, "not after previous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.row, pe.Row)
			assert.Contains(t, pe.Reason, tt.reason)
		})
	}
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Reason, "empty table")
}
