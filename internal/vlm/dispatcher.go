package vlm

import (
	"context"
	"time"

	"github.com/spherical/pdfvlm/internal/domain"
)

// RenderFunc re-renders and re-encodes the current page at a reduced
// pixel cap, used only by the context-overflow downgrade-and-retry path.
type RenderFunc func(ctx context.Context, reducedMaxPixels int) (domain.ImageAttachment, error)

// Dispatch drives one page through the VLM: builds the message sequence,
// calls the provider, and retries per the policy in SPEC_FULL.md §6.4 —
// transient errors back off with jitter, a context-window overflow
// triggers one resolution downgrade plus one extra retry, everything
// else exhausts MaxRetries and is reported as a PageError.
func Dispatch(ctx context.Context, cfg *domain.ConversionConfig, pageNum int, image domain.ImageAttachment, priorMarkdown string, priorImage *domain.ImageAttachment, render RenderFunc) domain.PageResult {
	var prior *priorPage
	if priorImage != nil {
		prior = &priorPage{Image: *priorImage, Markdown: priorMarkdown}
	}

	retryCfg := RetryConfig{MaxRetries: cfg.MaxRetries, InitialBackoff: time.Duration(cfg.RetryBackoffMs) * time.Millisecond}

	start := time.Now()
	downgraded := false
	retries := 0
	var lastErr error

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			delay := calculateBackoff(attempt, retryCfg, retryAfterOf(lastErr))
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return timeoutResult(pageNum, start, retries)
			case <-timer.C:
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.APITimeoutS)*time.Second)
		msgs := BuildMessages(cfg, image, prior)
		resp, err := cfg.ProviderHandle.Chat(callCtx, domain.ChatRequest{
			Messages:    msgs,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		})
		elapsed := time.Since(start)
		timedOut := callCtx.Err() == context.DeadlineExceeded
		cancel()

		if err == nil {
			return domain.PageResult{
				PageNum:      pageNum,
				Markdown:     resp.Content,
				InputTokens:  resp.Usage.InputTokens,
				OutputTokens: resp.Usage.OutputTokens,
				DurationMs:   elapsed.Milliseconds(),
				Retries:      retries,
			}
		}
		lastErr = err

		if timedOut {
			if attempt >= retryCfg.MaxRetries {
				return domain.PageResult{PageNum: pageNum, Err: domain.ApiTimeout(pageNum, elapsed.Milliseconds()), DurationMs: elapsed.Milliseconds(), Retries: retries}
			}
			retries++
			continue
		}

		perr, _ := err.(*domain.ProviderError)
		statusCode := 0
		if perr != nil {
			statusCode = perr.StatusCode
		}

		if perr != nil && isAuthError(statusCode) {
			return domain.PageResult{PageNum: pageNum, Err: domain.LlmFailed(pageNum, retries, "authentication failed", err), DurationMs: elapsed.Milliseconds(), Retries: retries}
		}

		if perr != nil && perr.ContextOverflow && !downgraded && render != nil {
			downgraded = true
			reduced := int(float64(cfg.MaxRenderedPixels) * 0.75)
			newImg, rerenderErr := render(ctx, reduced)
			if rerenderErr == nil {
				image = newImg
			}
			retries++
			continue
		}

		if perr != nil && perr.RateLimited && attempt >= retryCfg.MaxRetries {
			return domain.PageResult{PageNum: pageNum, Err: domain.RateLimitExceeded(pageNum, cfg.ProviderHandle.Name(), perr.RetryAfterSecs), DurationMs: elapsed.Milliseconds(), Retries: retries}
		}

		transportErr := perr == nil || perr.StatusCode == 0
		retryable := shouldRetry(statusCode, transportErr, false)
		if !retryable || attempt >= retryCfg.MaxRetries {
			detail := ""
			if perr != nil {
				detail = perr.Message
			} else {
				detail = err.Error()
			}
			return domain.PageResult{PageNum: pageNum, Err: domain.LlmFailed(pageNum, retries, detail, err), DurationMs: elapsed.Milliseconds(), Retries: retries}
		}
		retries++
	}
}

func retryAfterOf(err error) time.Duration {
	if perr, ok := err.(*domain.ProviderError); ok && perr.RetryAfterSecs > 0 {
		return time.Duration(perr.RetryAfterSecs) * time.Second
	}
	return 0
}

func timeoutResult(pageNum int, start time.Time, retries int) domain.PageResult {
	return domain.PageResult{
		PageNum:    pageNum,
		Err:        domain.TimeoutError(pageNum, int(time.Since(start).Seconds())),
		DurationMs: time.Since(start).Milliseconds(),
		Retries:    retries,
	}
}
