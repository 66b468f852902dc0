package orchestrate

import (
	"context"
	"time"

	"github.com/spherical/pdfvlm/internal/domain"
	"github.com/spherical/pdfvlm/internal/resolve"
)

// Convert is the eager conversion entry point: it resolves input,
// rasterises and dispatches every selected page, waits for all of them,
// sorts by page number, and assembles the final markdown.
func Convert(ctx context.Context, input string, cfg domain.ConversionConfig) (*domain.ConversionOutput, error) {
	path, cleanupInput, err := resolve.Resolve(ctx, input, &cfg)
	if err != nil {
		return nil, err
	}
	return convertPath(ctx, path, input, cfg, cleanupInput)
}

// ConvertFromBytes stages raw PDF bytes to a scoped temporary file, then
// delegates to the same path-based conversion Convert uses.
func ConvertFromBytes(ctx context.Context, data []byte, cfg domain.ConversionConfig) (*domain.ConversionOutput, error) {
	path, cleanupInput, err := resolve.ResolveBytes(data)
	if err != nil {
		return nil, err
	}
	return convertPath(ctx, path, "<bytes>", cfg, cleanupInput)
}

func convertPath(ctx context.Context, path, source string, cfg domain.ConversionConfig, cleanupInput domain.CleanupFunc) (*domain.ConversionOutput, error) {
	if cfg.ProviderHandle == nil {
		cleanupInput()
		return nil, domain.ProviderNotConfigured()
	}

	s, err := openSession(ctx, path, source, &cfg)
	if err != nil {
		cleanupInput()
		return nil, err
	}
	defer domain.Chain(s.cleanup, cleanupInput)()

	obs := s.observer()
	obs.OnConversionStart(len(s.pages))

	start := time.Now()
	var results []domain.PageResult
	var firstErr error
	retriesOfFirstErr := 0

	runPages(ctx, s, func(r domain.PageResult) {
		results = append(results, r)
		if r.Err != nil && firstErr == nil {
			firstErr = r.Err
			retriesOfFirstErr = r.Retries
		}
	})

	succeeded := 0
	for _, r := range results {
		if r.Err == nil {
			succeeded++
		}
	}
	obs.OnConversionComplete(len(s.pages), succeeded)

	if len(s.pages) > 0 && succeeded == 0 {
		return nil, domain.AllPagesFailed(len(s.pages), retriesOfFirstErr, firstErr)
	}

	out := assemble(s, results, time.Since(start))
	return &out, nil
}
