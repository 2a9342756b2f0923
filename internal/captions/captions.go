package captions

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// FallbackCaption is used when a pick is made from an empty set.
const FallbackCaption = "A beautiful moment captured."

// Set is an ordered list of trimmed, non-empty captions.
type Set []string

// Rand is the subset of *rand.Rand needed for uniform picks.
type Rand interface {
	IntN(n int) int
}

// LoadError reports a caption resource that could not be read.
type LoadError struct {
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load captions %q: %v", e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DefaultSet returns the built-in captions used when nothing usable was loaded.
func DefaultSet() Set {
	return Set{FallbackCaption, "Memories to cherish forever."}
}

// Parse splits text into lines, trims them and drops blank ones.
func Parse(text string) Set {
	lines := strings.Split(text, "\n")
	out := make(Set, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Load reads and parses a caption file. A readable file with no captions
// yields DefaultSet and a nil error; a read failure yields a *LoadError.
func Load(path string) (Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Resource: path, Err: err}
	}
	set := Parse(string(b))
	if len(set) == 0 {
		return DefaultSet(), nil
	}
	return set, nil
}

// LoadOrDefault is Load with failures mapped to DefaultSet. Captions are
// cosmetic, so the error is logged and never returned.
func LoadOrDefault(path string, logger *zap.Logger) Set {
	set, err := Load(path)
	if err != nil {
		logger.Warn("caption load failed, using defaults", zap.String("path", path), zap.Error(err))
		return DefaultSet()
	}
	logger.Debug("captions loaded", zap.String("path", path), zap.Int("count", len(set)))
	return set
}

// Pick returns a uniformly chosen caption, or FallbackCaption when s is empty.
func (s Set) Pick(rng Rand) string {
	if len(s) == 0 {
		return FallbackCaption
	}
	return s[rng.IntN(len(s))]
}
