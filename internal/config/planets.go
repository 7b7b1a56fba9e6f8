package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ConfigError reports a malformed planet configuration entry. The entry is
// skipped; sibling planets are unaffected.
type ConfigError struct {
	Planet string
	Line   int
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Planet != "" {
		return fmt.Sprintf("planet config line %d (%s): %s", e.Line, e.Planet, e.Reason)
	}
	return fmt.Sprintf("planet config line %d: %s", e.Line, e.Reason)
}

// PlanetConfig holds the static display attributes of one planet, read from
// one colon-separated line of the planet configuration file.
type PlanetConfig struct {
	Name         string
	DataFile     string
	Color        string
	RelativeSize float64
	HasRing      bool
}

// LoadPlanets reads the planet configuration file. Lines starting with '#'
// are comments; a line starting with '$' terminates the list. Malformed
// entries are returned as ConfigErrors alongside the entries that parsed,
// so one bad planet never hides the others.
func LoadPlanets(path string) ([]PlanetConfig, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open planet config: %w", err)
	}
	defer f.Close()
	planets, errs := ParsePlanets(f)
	return planets, errs, nil
}

// ParsePlanets parses planet configuration entries from r.
// Entry format: name:datafile:color:relativesize:other
func ParsePlanets(r io.Reader) ([]PlanetConfig, []error) {
	var planets []PlanetConfig
	var errs []error

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if strings.HasPrefix(text, "$") {
			break
		}
		pc, err := parsePlanetLine(text, line)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		planets = append(planets, pc)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("read planet config: %w", err))
	}
	return planets, errs
}

func parsePlanetLine(text string, line int) (PlanetConfig, error) {
	fields := strings.SplitN(text, ":", 5)
	if len(fields) < 5 {
		return PlanetConfig{}, &ConfigError{
			Line:   line,
			Reason: fmt.Sprintf("expected 5 colon-separated fields, got %d", len(fields)),
		}
	}

	name := strings.TrimSpace(fields[0])
	if name == "" {
		return PlanetConfig{}, &ConfigError{Line: line, Reason: "empty planet name"}
	}

	size, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	if err != nil {
		return PlanetConfig{}, &ConfigError{
			Planet: name,
			Line:   line,
			Reason: fmt.Sprintf("invalid relative size %q", strings.TrimSpace(fields[3])),
		}
	}
	if size <= 0 {
		return PlanetConfig{}, &ConfigError{
			Planet: name,
			Line:   line,
			Reason: "relative size must be positive",
		}
	}

	return PlanetConfig{
		Name:         name,
		DataFile:     strings.TrimSpace(fields[1]),
		Color:        strings.TrimSpace(fields[2]),
		RelativeSize: size,
		HasRing:      strings.HasPrefix(strings.TrimSpace(fields[4]), "ring"),
	}, nil
}
