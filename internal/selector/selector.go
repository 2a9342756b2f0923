package selector

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"randomframe/internal/captions"
	"randomframe/internal/source"
	"randomframe/pkg/models"
)

// RandomFolder is the folder choice that asks for a uniformly drawn eligible folder.
const RandomFolder = "random"

var (
	// ErrNoImagesInFolder matches every *NoImagesError via errors.Is.
	ErrNoImagesInFolder = errors.New("no images in folder")
	// ErrNoEligibleFolders is returned when a random folder is requested but none holds images.
	ErrNoEligibleFolders = errors.New("no eligible folders")
)

// NoImagesError is returned by Generate when the current folder resolves to nothing.
type NoImagesError struct {
	Folder string
}

func (e *NoImagesError) Error() string {
	return fmt.Sprintf("No images found in %s folder", e.Folder)
}

func (e *NoImagesError) Is(target error) bool { return target == ErrNoImagesInFolder }

// Rand is satisfied by *math/rand/v2.Rand.
type Rand interface {
	IntN(n int) int
}

// DefaultRand draws from the math/rand/v2 top-level source and is safe for
// concurrent use.
var DefaultRand Rand = globalRand{}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// State is the widget's selection state.
type State struct {
	CurrentFolder string `json:"current_folder"`
}

// SelectFolder applies a folder choice. RandomFolder draws from eligible;
// any other value is taken as-is, even if no such folder exists.
func SelectFolder(s State, choice string, eligible []string, rng Rand) (State, error) {
	if choice != RandomFolder {
		s.CurrentFolder = choice
		return s, nil
	}
	if len(eligible) == 0 {
		return s, ErrNoEligibleFolders
	}
	s.CurrentFolder = eligible[rng.IntN(len(eligible))]
	return s, nil
}

// Generate picks one image from the current folder and, independently, one caption.
func Generate(ctx context.Context, s State, r source.Resolver, set captions.Set, rng Rand) (models.Selection, error) {
	folder := s.CurrentFolder

	images, err := r.Resolve(ctx, folder)
	if err != nil {
		return models.Selection{}, fmt.Errorf("resolve %s: %w", folder, err)
	}
	if len(images) == 0 {
		return models.Selection{}, &NoImagesError{Folder: folder}
	}

	image := images[rng.IntN(len(images))]
	return models.Selection{
		Folder:   folder,
		Image:    image,
		ImageURL: folder + "/" + image,
		Caption:  set.Pick(rng),
	}, nil
}
