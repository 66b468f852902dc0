package domain

import "time"

// PageImage is a single rasterised PDF page, produced by the rasteriser
// and consumed by the encoder.
type PageImage struct {
	PageNumber int
	Image      []byte // already-encoded PNG or JPEG bytes
	Width      int
	Height     int
}

// DocumentMetadata is the PDF's own document-dictionary metadata, a pure
// read that does not require rendering any page.
type DocumentMetadata struct {
	Title          string
	Author         string
	Subject        string
	Creator        string
	Producer       string
	CreationDate   time.Time
	ModDate        time.Time
	PageCount      int
	PDFVersion     string
	IsEncrypted    bool
	IsLinearised   bool
}

// PageResult is the outcome of converting one page. When Err is non-nil
// Markdown is empty.
type PageResult struct {
	PageNum      int
	Markdown     string
	InputTokens  int
	OutputTokens int
	DurationMs   int64
	Retries      int
	Err          *PageError
}

// ConversionStats aggregates totals and per-stage timing across a whole
// conversion.
type ConversionStats struct {
	TotalPages       int
	ProcessedPages   int
	FailedPages      int
	SkippedPages     int
	TotalInputTokens int
	TotalOutputTokens int
	TotalDurationMs  int64
	RenderDurationMs int64
	LlmDurationMs    int64
}

// ConversionOutput is the final, ordered result of convert/convert_from_bytes.
type ConversionOutput struct {
	Markdown string
	Pages    []PageResult
	Metadata DocumentMetadata
	Stats    ConversionStats
}

// IntoResult promotes any partial failure recorded in Stats to a fatal
// PartialFailure error, for callers that require strict success.
func (o *ConversionOutput) IntoResult() (*ConversionOutput, error) {
	if o.Stats.FailedPages > 0 {
		return nil, &PartialFailure{
			Success: o.Stats.ProcessedPages,
			Failed:  o.Stats.FailedPages,
			Total:   o.Stats.ProcessedPages + o.Stats.FailedPages,
		}
	}
	return o, nil
}

// StreamEventKind tags a StreamEvent.
type StreamEventKind string

const (
	StreamPageCompleted StreamEventKind = "page_completed"
	StreamPageFailed    StreamEventKind = "page_failed"
)

// StreamEvent is emitted by convert_stream as each page finishes.
type StreamEvent struct {
	Kind   StreamEventKind
	Page   PageResult  // set when Kind == StreamPageCompleted
	Num    int         // set when Kind == StreamPageFailed
	Err    *PageError  // set when Kind == StreamPageFailed
}

// ProgressObserver receives synchronous callbacks from the orchestrator
// goroutine only; implementations never need their own locking. Error
// messages are passed as owned strings so an observer consumed from a
// concurrent context never holds a reference into data the orchestrator
// is about to reuse.
type ProgressObserver interface {
	OnConversionStart(selectedCount int)
	OnPageStart(n, total int)
	OnPageComplete(n, total, charsProduced int)
	OnPageError(n, total int, errorMessage string)
	OnConversionComplete(total, succeeded int)
}

// NoopObserver implements ProgressObserver with no-op methods, used
// when ConversionConfig.Progress is unset.
type NoopObserver struct{}

func (NoopObserver) OnConversionStart(int)          {}
func (NoopObserver) OnPageStart(int, int)            {}
func (NoopObserver) OnPageComplete(int, int, int)    {}
func (NoopObserver) OnPageError(int, int, string)    {}
func (NoopObserver) OnConversionComplete(int, int)   {}
