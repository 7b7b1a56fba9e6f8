package orbit

import "fmt"

// ArtifactError reports a missing or unreadable orbit artifact. The planet
// it names is excluded from playback; siblings are unaffected.
type ArtifactError struct {
	Planet string
	Path   string
	Err    error
}

func (e *ArtifactError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("orbit artifact for %s (%s): %v", e.Planet, e.Path, e.Err)
	}
	return fmt.Sprintf("orbit artifact for %s: %v", e.Planet, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }
