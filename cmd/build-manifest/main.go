package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"randomframe/internal/logging"
	"randomframe/internal/source"
	"randomframe/pkg/utils"
)

// build-manifest probes image{1..20}{ext} in every folder once and writes
// the result, so the server can run in manifest mode instead of probing
// on every request.
func main() {
	var (
		baseURL  = flag.String("base", "http://localhost:3000", "URL the image folders are served under")
		folders  = flag.String("folders", "Lilia,Leylah", "comma separated folder names")
		outPath  = flag.String("out", "manifest.json", "output JSON path")
		parallel = flag.Int("parallel", 4, "folders probed at once (0 = all)")
		timeout  = flag.Duration("timeout", 5*time.Minute, "overall deadline")
		debug    = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	logger := logging.MustNew(*debug)
	defer func() { _ = logger.Sync() }()

	names := utils.SplitList(*folders)
	if len(names) == 0 {
		logger.Fatal("no folders given")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	probe := source.NewProbeResolver(*baseURL, names, logger.Named("probe"))
	m, err := source.BuildManifest(ctx, probe, names, *parallel, logger)
	if err != nil {
		logger.Fatal("indexing failed", zap.Error(err))
	}

	if err := m.Write(*outPath); err != nil {
		logger.Fatal("write failed", zap.Error(err))
	}
	logger.Info("manifest written",
		zap.String("path", *outPath),
		zap.Int("folders", len(m)),
		zap.Strings("eligible", m.Eligible()))
}
