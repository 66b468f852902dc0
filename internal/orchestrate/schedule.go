package orchestrate

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/spherical/pdfvlm/internal/domain"
)

// runPages dispatches every selected page and invokes onResult as each
// one completes. In maintain_format mode pages run strictly sequentially
// and each call sees the previous page's cleaned markdown/image;
// otherwise up to cfg.EffectiveConcurrency() pages are in flight via a
// semaphore-gated errgroup, completing in arbitrary order.
func runPages(ctx context.Context, s *session, onResult func(domain.PageResult)) {
	if s.cfg.MaintainFormat {
		runSequential(ctx, s, onResult)
		return
	}
	runConcurrent(ctx, s, onResult)
}

func runSequential(ctx context.Context, s *session, onResult func(domain.PageResult)) {
	var priorMarkdown string
	var priorImage *domain.ImageAttachment

	for _, pageNum := range s.pages {
		if ctx.Err() != nil {
			return
		}
		obs := s.observer()
		obs.OnPageStart(pageNum, len(s.pages))

		result := processPage(ctx, s.handle, s.cfg, pageNum, priorMarkdown, priorImage)
		reportPage(obs, pageNum, len(s.pages), result)
		onResult(result)

		if result.Err == nil {
			priorMarkdown = result.Markdown
			img, rerr := renderAndEncode(ctx, s.handle, s.cfg, pageNum, s.cfg.MaxRenderedPixels)
			if rerr == nil {
				priorImage = &img
			}
		}
	}
}

func runConcurrent(ctx context.Context, s *session, onResult func(domain.PageResult)) {
	type pageEvent struct {
		started bool // a page start, reported before its job runs
		pageNum int
		result  domain.PageResult
	}
	sem := semaphore.NewWeighted(int64(s.cfg.EffectiveConcurrency()))
	g, gctx := errgroup.WithContext(ctx)
	events := make(chan pageEvent, 2*len(s.pages))
	obs := s.observer()

	go func() {
		defer close(events)
		for _, pageNum := range s.pages {
			pageNum := pageNum
			if err := sem.Acquire(gctx, 1); err != nil {
				break
			}
			events <- pageEvent{started: true, pageNum: pageNum}
			g.Go(func() error {
				defer sem.Release(1)
				events <- pageEvent{result: processPage(gctx, s.handle, s.cfg, pageNum, "", nil)}
				return nil
			})
		}
		g.Wait()
	}()

	for ev := range events {
		if ev.started {
			obs.OnPageStart(ev.pageNum, len(s.pages))
			continue
		}
		reportPage(obs, ev.result.PageNum, len(s.pages), ev.result)
		onResult(ev.result)
	}
}

func reportPage(obs domain.ProgressObserver, pageNum, total int, result domain.PageResult) {
	if result.Err != nil {
		obs.OnPageError(pageNum, total, result.Err.Error())
		return
	}
	obs.OnPageComplete(pageNum, total, len(result.Markdown))
}

// sortResults orders a collected, possibly out-of-order result set by
// ascending page number, as the eager convert operation requires.
func sortResults(results []domain.PageResult) {
	sort.Slice(results, func(i, j int) bool { return results[i].PageNum < results[j].PageNum })
}

