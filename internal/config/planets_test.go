package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `# planets in orbit order
Mercury:data/mercury.txt:gray:0.38:none
Venus:data/venus.txt:ivory:0.95:none
Saturn:data/saturn.txt:gold:9.45:ring
$end
Pluto:data/pluto.txt:brown:0.18:none
`

func TestParsePlanets(t *testing.T) {
	planets, errs := ParsePlanets(strings.NewReader(sampleConfig))
	require.Empty(t, errs)
	require.Len(t, planets, 3, "entries after the terminator must be ignored")

	assert.Equal(t, "Mercury", planets[0].Name)
	assert.Equal(t, "data/mercury.txt", planets[0].DataFile)
	assert.Equal(t, "gray", planets[0].Color)
	assert.InDelta(t, 0.38, planets[0].RelativeSize, 1e-9)
	assert.False(t, planets[0].HasRing)

	assert.Equal(t, "Saturn", planets[2].Name)
	assert.True(t, planets[2].HasRing)
}

func TestParsePlanets_MalformedEntries(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason string
	}{
		{"too few fields", "Mars:data/mars.txt:red", "expected 5"},
		{"bad size", "Mars:data/mars.txt:red:big:none", "invalid relative size"},
		{"negative size", "Mars:data/mars.txt:red:-1:none", "must be positive"},
		{"empty name", ":data/mars.txt:red:0.5:none", "empty planet name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.line + "\nVenus:data/venus.txt:ivory:0.95:none\n"
			planets, errs := ParsePlanets(strings.NewReader(input))

			require.Len(t, errs, 1)
			var ce *ConfigError
			require.True(t, errors.As(errs[0], &ce))
			assert.Equal(t, 1, ce.Line)
			assert.Contains(t, ce.Reason, tt.reason)

			// the bad entry must not take Venus down with it
			require.Len(t, planets, 1)
			assert.Equal(t, "Venus", planets[0].Name)
		})
	}
}

func TestParsePlanets_CommentsAndBlankLines(t *testing.T) {
	input := "\n# comment\n\nEarth:data/earth.txt:blue:1.0:none\n"
	planets, errs := ParsePlanets(strings.NewReader(input))
	require.Empty(t, errs)
	require.Len(t, planets, 1)
	assert.Equal(t, "Earth", planets[0].Name)
}
