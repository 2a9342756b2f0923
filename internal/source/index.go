package source

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"randomframe/internal/manifest"
)

// BuildManifest resolves every folder once and records the result as a
// manifest. It turns per-request probing into a one-time indexing step.
// Folders are resolved in parallel (at most parallel at a time, 0 means
// unbounded); each folder's own probes stay sequential.
func BuildManifest(ctx context.Context, r Resolver, folders []string, parallel int, logger *zap.Logger) (manifest.Manifest, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		mu  sync.Mutex
		out = make(manifest.Manifest, len(folders))
	)

	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	for _, folder := range folders {
		g.Go(func() error {
			logger.Info("indexing folder", zap.String("source", r.Name()), zap.String("folder", folder))
			images, err := r.Resolve(gctx, folder)
			if err != nil {
				return fmt.Errorf("index %s: %w", folder, err)
			}
			if images == nil {
				images = []string{}
			}

			mu.Lock()
			out[folder] = images
			mu.Unlock()

			logger.Info("folder indexed", zap.String("folder", folder), zap.Int("images", len(images)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
