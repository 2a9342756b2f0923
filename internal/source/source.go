package source

import (
	"context"

	"randomframe/internal/manifest"
)

// Resolver is implemented by every image discovery strategy. Resolve returns
// the image file names available in folder, or an empty slice.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, folder string) ([]string, error)
}

// Catalog is a Resolver that also knows which folders exist and which of
// them a random folder choice may land on.
type Catalog interface {
	Resolver
	Folders() []string
	Eligible() []string
}

// ManifestResolver answers from a manifest loaded once at startup.
type ManifestResolver struct {
	Manifest manifest.Manifest
}

func NewManifestResolver(m manifest.Manifest) *ManifestResolver {
	if m == nil {
		m = manifest.Manifest{}
	}
	return &ManifestResolver{Manifest: m}
}

func (r *ManifestResolver) Name() string { return "manifest" }

func (r *ManifestResolver) Resolve(_ context.Context, folder string) ([]string, error) {
	return r.Manifest.Images(folder), nil
}

func (r *ManifestResolver) Folders() []string {
	return r.Manifest.Folders()
}

// Eligible lists folders that can be drawn by a random folder choice.
func (r *ManifestResolver) Eligible() []string {
	return r.Manifest.Eligible()
}
