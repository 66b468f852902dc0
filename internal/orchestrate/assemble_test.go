package orchestrate

import (
	"testing"
	"time"

	"github.com/spherical/pdfvlm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(cfg domain.ConversionConfig, totalPages, resolvedPages int, source string) *session {
	nums := make([]int, resolvedPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return &session{
		cfg:    &cfg,
		meta:   domain.DocumentMetadata{Title: "Doc", Author: "Author", PageCount: totalPages},
		pages:  nums,
		source: source,
	}
}

func TestSortResults_OrdersByPageNumber(t *testing.T) {
	results := []domain.PageResult{
		{PageNum: 3, Markdown: "C"},
		{PageNum: 1, Markdown: "A"},
		{PageNum: 2, Markdown: "B"},
	}
	sortResults(results)
	assert.Equal(t, []int{1, 2, 3}, []int{results[0].PageNum, results[1].PageNum, results[2].PageNum})
}

func TestAssemble_PartialFailurePromotesRemainingPages(t *testing.T) {
	cfg := domain.NewConfig(domain.WithPageSeparator(domain.SeparatorNone()))
	s := newTestSession(cfg, 5, 5, "doc.pdf")

	results := []domain.PageResult{
		{PageNum: 1, Markdown: "one"},
		{PageNum: 2, Markdown: "two"},
		{PageNum: 3, Err: domain.RenderFailed(3, "corrupt page stream")},
		{PageNum: 4, Markdown: "four"},
		{PageNum: 5, Markdown: "five"},
	}

	out := assemble(s, results, 10*time.Millisecond)

	assert.Equal(t, 5, out.Stats.TotalPages)
	assert.Equal(t, 4, out.Stats.ProcessedPages)
	assert.Equal(t, 1, out.Stats.FailedPages)
	assert.Equal(t, "one\n\ntwo\n\nfour\n\nfive\n", out.Markdown)
}

func TestAssemble_AllPagesFailedYieldsNoProcessedPages(t *testing.T) {
	cfg := domain.NewConfig()
	s := newTestSession(cfg, 2, 2, "doc.pdf")

	results := []domain.PageResult{
		{PageNum: 1, Err: domain.RenderFailed(1, "bad")},
		{PageNum: 2, Err: domain.RenderFailed(2, "bad")},
	}
	out := assemble(s, results, time.Millisecond)
	assert.Equal(t, 0, out.Stats.ProcessedPages)
	assert.Equal(t, 2, out.Stats.FailedPages)
	assert.Equal(t, "", out.Markdown)
}

func TestAssemble_IncludesFrontMatterWhenRequested(t *testing.T) {
	cfg := domain.NewConfig(domain.WithIncludeMetadata(true))
	s := newTestSession(cfg, 1, 1, "report.pdf")

	results := []domain.PageResult{{PageNum: 1, Markdown: "body"}}
	out := assemble(s, results, time.Millisecond)

	assert.Contains(t, out.Markdown, "---\n")
	assert.Contains(t, out.Markdown, "source: report.pdf")
	assert.Contains(t, out.Markdown, "title: Doc")
	assert.Contains(t, out.Markdown, "body")
}

func TestAssemble_SkippedPagesAccountForUnselectedRange(t *testing.T) {
	cfg := domain.NewConfig()
	s := newTestSession(cfg, 10, 3, "doc.pdf")

	out := assemble(s, nil, time.Millisecond)
	require.Equal(t, 10, out.Stats.TotalPages)
	assert.Equal(t, 7, out.Stats.SkippedPages)
}

type fakeObserver struct {
	completedPages []int
	failedPages    []int
}

func (f *fakeObserver) OnConversionStart(total int)                 {}
func (f *fakeObserver) OnPageStart(page, total int)                 {}
func (f *fakeObserver) OnPageComplete(page, total, markdownLen int) { f.completedPages = append(f.completedPages, page) }
func (f *fakeObserver) OnPageError(page, total int, message string) { f.failedPages = append(f.failedPages, page) }
func (f *fakeObserver) OnConversionComplete(total, succeeded int)   {}

func TestReportPage_DispatchesToCompleteOrError(t *testing.T) {
	obs := &fakeObserver{}
	reportPage(obs, 1, 2, domain.PageResult{PageNum: 1, Markdown: "ok"})
	reportPage(obs, 2, 2, domain.PageResult{PageNum: 2, Err: domain.RenderFailed(2, "bad")})

	assert.Equal(t, []int{1}, obs.completedPages)
	assert.Equal(t, []int{2}, obs.failedPages)
}
