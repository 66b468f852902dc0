// Package pdfvlm is the public entry point: convert PDF documents to
// Markdown by rasterising each page and dispatching it to a
// vision-capable LLM provider. It re-exports the core types so callers
// never need to import internal/domain directly.
package pdfvlm

import (
	"context"

	"github.com/spherical/pdfvlm/internal/domain"
	"github.com/spherical/pdfvlm/internal/orchestrate"
	"github.com/spherical/pdfvlm/internal/vlm"
)

type (
	Config           = domain.ConversionConfig
	Option           = domain.Option
	Fidelity         = domain.Fidelity
	Provider         = domain.Provider
	PageSelection    = domain.PageSelection
	PageSeparator    = domain.PageSeparator
	DocumentMetadata = domain.DocumentMetadata
	PageResult       = domain.PageResult
	ConversionStats  = domain.ConversionStats
	ConversionOutput = domain.ConversionOutput
	StreamEvent      = domain.StreamEvent
	ProgressObserver = domain.ProgressObserver
	FatalError       = domain.FatalError
	PageError        = domain.PageError
	PartialFailure   = domain.PartialFailure
)

const (
	Tier1 = domain.Tier1
	Tier2 = domain.Tier2
	Tier3 = domain.Tier3
)

var (
	NewConfig            = domain.NewConfig
	AllPages             = domain.AllPages
	SinglePage           = domain.SinglePage
	PageRange            = domain.PageRange
	PageSet              = domain.PageSet
	ParsePageSelection   = domain.ParsePageSelection
	SeparatorNone        = domain.SeparatorNone
	SeparatorHorizontalRule = domain.SeparatorHorizontalRule
	SeparatorComment     = domain.SeparatorComment
	SeparatorCustom      = domain.SeparatorCustom

	WithDPI               = domain.WithDPI
	WithMaxRenderedPixels = domain.WithMaxRenderedPixels
	WithConcurrency       = domain.WithConcurrency
	WithModel             = domain.WithModel
	WithProviderName      = domain.WithProviderName
	WithProvider          = domain.WithProvider
	WithTemperature       = domain.WithTemperature
	WithMaxTokens         = domain.WithMaxTokens
	WithMaxRetries        = domain.WithMaxRetries
	WithRetryBackoffMs    = domain.WithRetryBackoffMs
	WithMaintainFormat    = domain.WithMaintainFormat
	WithFidelity          = domain.WithFidelity
	WithPages             = domain.WithPages
	WithPageSeparator     = domain.WithPageSeparator
	WithIncludeMetadata   = domain.WithIncludeMetadata
	WithPassword          = domain.WithPassword
	WithSystemPrompt      = domain.WithSystemPrompt
	WithDownloadTimeoutSecs = domain.WithDownloadTimeoutSecs
	WithAPITimeoutSecs    = domain.WithAPITimeoutSecs
	WithProgressObserver  = domain.WithProgressObserver
	WithImageFormat       = domain.WithImageFormat
)

// NewHTTPProvider builds the in-tree OpenAI-compatible provider. baseURL
// may be empty to use the default endpoint.
func NewHTTPProvider(baseURL, apiKey, model string) Provider {
	return vlm.NewHTTPProvider(baseURL, apiKey, model)
}

// Convert converts a local path or http(s) URL to assembled markdown.
func Convert(ctx context.Context, input string, cfg Config) (*ConversionOutput, error) {
	return orchestrate.Convert(ctx, input, cfg)
}

// ConvertFromBytes converts raw PDF bytes held in memory.
func ConvertFromBytes(ctx context.Context, data []byte, cfg Config) (*ConversionOutput, error) {
	return orchestrate.ConvertFromBytes(ctx, data, cfg)
}

// ConvertStream converts input and streams a StreamEvent per completed
// page instead of waiting for the whole document.
func ConvertStream(ctx context.Context, input string, cfg Config) (<-chan StreamEvent, error) {
	return orchestrate.ConvertStream(ctx, input, cfg)
}

// ConvertToFile converts input and atomically writes the assembled
// markdown to path.
func ConvertToFile(ctx context.Context, input, path string, cfg Config) (ConversionStats, error) {
	return orchestrate.ConvertToFile(ctx, input, path, cfg)
}

// Inspect resolves and opens input and returns its document metadata
// without invoking the VLM dispatcher.
func Inspect(ctx context.Context, input string, cfg Config) (DocumentMetadata, error) {
	return orchestrate.Inspect(ctx, input, cfg)
}
