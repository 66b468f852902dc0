// Package orchestrate composes the resolver, rasteriser, encoder, VLM
// dispatcher and post-processor into the five public operations of
// SPEC_FULL.md §6: bounded-concurrency scheduling, ordering, assembly
// with separators, streaming events, progress callbacks and aggregate
// statistics.
package orchestrate

import (
	"context"

	"github.com/spherical/pdfvlm/internal/domain"
	"github.com/spherical/pdfvlm/internal/raster"
)

// session holds everything a single conversion needs once the input has
// been resolved and opened, shared across the eager and streaming entry
// points so they don't duplicate setup/teardown.
type session struct {
	cfg     *domain.ConversionConfig
	handle  pageRenderer
	meta    domain.DocumentMetadata
	pages   []int
	cleanup domain.CleanupFunc
	source  string
}

func openSession(ctx context.Context, path, source string, cfg *domain.ConversionConfig) (*session, error) {
	handle, err := raster.Open(path, cfg.Password)
	if err != nil {
		return nil, err
	}
	meta, err := handle.Metadata(ctx)
	if err != nil {
		handle.Close()
		return nil, err
	}
	pages, err := cfg.Pages.Resolve(meta.PageCount)
	if err != nil {
		handle.Close()
		return nil, err
	}
	return &session{
		cfg:    cfg,
		handle: handle,
		meta:   meta,
		pages:  pages,
		source: source,
		cleanup: func() error {
			return handle.Close()
		},
	}, nil
}

func (s *session) observer() domain.ProgressObserver {
	if s.cfg.Progress != nil {
		return s.cfg.Progress
	}
	return domain.NoopObserver{}
}

func (s *session) skippedPages() int {
	return s.meta.PageCount - len(s.pages)
}
