package orchestrate

import (
	"fmt"
	"strings"
	"time"

	"github.com/spherical/pdfvlm/internal/domain"
)

// assemble sorts results, joins them with the configured separator,
// optionally prepends a metadata front-matter block, and computes
// ConversionStats.
func assemble(s *session, results []domain.PageResult, elapsed time.Duration) domain.ConversionOutput {
	sortResults(results)

	stats := domain.ConversionStats{
		TotalPages:      s.meta.PageCount,
		SkippedPages:    s.skippedPages(),
		TotalDurationMs: elapsed.Milliseconds(),
	}

	var texts []string
	var nums []int
	for _, r := range results {
		if r.Err != nil {
			stats.FailedPages++
			continue
		}
		stats.ProcessedPages++
		stats.TotalInputTokens += r.InputTokens
		stats.TotalOutputTokens += r.OutputTokens
		stats.LlmDurationMs += r.DurationMs
		texts = append(texts, r.Markdown)
		nums = append(nums, r.PageNum)
	}

	body := s.cfg.PageSeparator.Join(texts, nums)
	if s.cfg.IncludeMetadata {
		body = frontMatter(s) + body
	}

	return domain.ConversionOutput{
		Markdown: body,
		Pages:    results,
		Metadata: s.meta,
		Stats:    stats,
	}
}

func frontMatter(s *session) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", s.meta.Title)
	fmt.Fprintf(&b, "author: %s\n", s.meta.Author)
	fmt.Fprintf(&b, "source: %s\n", s.source)
	fmt.Fprintf(&b, "page_count: %d\n", s.meta.PageCount)
	fmt.Fprintf(&b, "generated_at: %s\n", time.Now().UTC().Format(time.RFC3339))
	if s.cfg.ProviderHandle != nil {
		fmt.Fprintf(&b, "provider: %s\n", s.cfg.ProviderHandle.Name())
	}
	b.WriteString("---\n\n")
	return b.String()
}
