package orchestrate

import (
	"context"

	"github.com/spherical/pdfvlm/internal/domain"
	"github.com/spherical/pdfvlm/internal/resolve"
)

// ConvertStream runs the same pipeline as Convert but returns a lazy,
// finite, non-restartable sequence of StreamEvent values as pages
// complete. In non-sequential mode events are not guaranteed to be
// page-ordered; consumers that need order must sort.
func ConvertStream(ctx context.Context, input string, cfg domain.ConversionConfig) (<-chan domain.StreamEvent, error) {
	if cfg.ProviderHandle == nil {
		return nil, domain.ProviderNotConfigured()
	}

	path, cleanupInput, err := resolve.Resolve(ctx, input, &cfg)
	if err != nil {
		return nil, err
	}

	s, err := openSession(ctx, path, input, &cfg)
	if err != nil {
		cleanupInput()
		return nil, err
	}

	events := make(chan domain.StreamEvent, cfg.EffectiveConcurrency())
	obs := s.observer()
	obs.OnConversionStart(len(s.pages))

	go func() {
		defer close(events)
		defer domain.Chain(s.cleanup, cleanupInput)()

		succeeded := 0
		runPages(ctx, s, func(r domain.PageResult) {
			if r.Err != nil {
				events <- domain.StreamEvent{Kind: domain.StreamPageFailed, Num: r.PageNum, Err: r.Err}
				return
			}
			succeeded++
			events <- domain.StreamEvent{Kind: domain.StreamPageCompleted, Page: r}
		})
		obs.OnConversionComplete(len(s.pages), succeeded)
	}()

	return events, nil
}
