package captions

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func TestParseKeepsOrderAndDropsBlanks(t *testing.T) {
	got := Parse("  first \n\n\t\nsecond\r\n   \nthird")
	assert.Equal(t, Set{"first", "second", "third"}, got)
}

func TestParseScenario(t *testing.T) {
	assert.Equal(t, Set{"Hi", "There"}, Parse("Hi\n\nThere\n"))
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse(" \n\n \t"))
}

func TestLoadWhitespaceOnlyYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captions.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n   \n\n"), 0o644))

	set, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSet(), set)
	assert.Len(t, set, 2)
}

func TestLoadMissingFileReturnsLoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.txt")

	set, err := Load(path)
	require.Error(t, err)
	assert.Nil(t, set)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, path, le.Resource)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadOrDefaultLogsFailure(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)

	set := LoadOrDefault(filepath.Join(t.TempDir(), "missing.txt"), logger)
	assert.Equal(t, DefaultSet(), set)

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "caption load failed, using defaults", entries[0].Message)
}

func TestLoadOrDefaultReturnsFileContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captions.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))

	set := LoadOrDefault(path, zap.NewNop())
	assert.Equal(t, Set{"one", "two"}, set)
}

func TestPick(t *testing.T) {
	s := Set{"a", "b", "c"}
	assert.Equal(t, "b", s.Pick(fixedRand(1)))
	assert.Equal(t, "a", s.Pick(fixedRand(3)))

	var empty Set
	assert.Equal(t, FallbackCaption, empty.Pick(fixedRand(0)))
}
