package domain

import "context"

// Fidelity selects how structurally ambitious the system prompt asks
// the model to be.
type Fidelity int

const (
	Tier1 Fidelity = iota // text only
	Tier2                 // + tables
	Tier3                 // + tables, math
)

// Provider is the single-operation VLM capability the dispatcher drives.
// It is consumed as a black box: the core never speaks provider-specific
// wire details, only this interface.
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	Name() string
}

// ConversionConfig is an immutable description of one conversion. It is
// frozen at the entry point and shared by reference across every stage;
// construct it with NewConfig so out-of-range values are clamped once,
// at the boundary, rather than re-validated at every call site.
type ConversionConfig struct {
	DPI               int
	MaxRenderedPixels int
	Concurrency       int
	Model             string
	ProviderName      string
	ProviderHandle    Provider
	Temperature       float64
	MaxTokens         int
	MaxRetries        int
	RetryBackoffMs    int
	MaintainFormat    bool
	Fidelity          Fidelity
	Pages             PageSelection
	PageSeparator     PageSeparator
	IncludeMetadata   bool
	Password          string
	SystemPrompt      string
	DownloadTimeoutS  int
	APITimeoutS       int
	Progress          ProgressObserver
	ImageFormat       string // "png" (default) or "jpeg"
}

// Option mutates a ConversionConfig during construction.
type Option func(*ConversionConfig)

func WithDPI(dpi int) Option                 { return func(c *ConversionConfig) { c.DPI = dpi } }
func WithMaxRenderedPixels(px int) Option    { return func(c *ConversionConfig) { c.MaxRenderedPixels = px } }
func WithConcurrency(n int) Option           { return func(c *ConversionConfig) { c.Concurrency = n } }
func WithModel(model string) Option          { return func(c *ConversionConfig) { c.Model = model } }
func WithProviderName(name string) Option    { return func(c *ConversionConfig) { c.ProviderName = name } }
func WithProvider(p Provider) Option         { return func(c *ConversionConfig) { c.ProviderHandle = p } }
func WithTemperature(t float64) Option       { return func(c *ConversionConfig) { c.Temperature = t } }
func WithMaxTokens(n int) Option             { return func(c *ConversionConfig) { c.MaxTokens = n } }
func WithMaxRetries(n int) Option            { return func(c *ConversionConfig) { c.MaxRetries = n } }
func WithRetryBackoffMs(ms int) Option       { return func(c *ConversionConfig) { c.RetryBackoffMs = ms } }
func WithMaintainFormat(b bool) Option        { return func(c *ConversionConfig) { c.MaintainFormat = b } }
func WithFidelity(f Fidelity) Option          { return func(c *ConversionConfig) { c.Fidelity = f } }
func WithPages(p PageSelection) Option        { return func(c *ConversionConfig) { c.Pages = p } }
func WithPageSeparator(s PageSeparator) Option { return func(c *ConversionConfig) { c.PageSeparator = s } }
func WithIncludeMetadata(b bool) Option       { return func(c *ConversionConfig) { c.IncludeMetadata = b } }
func WithPassword(pw string) Option            { return func(c *ConversionConfig) { c.Password = pw } }
func WithSystemPrompt(p string) Option         { return func(c *ConversionConfig) { c.SystemPrompt = p } }
func WithDownloadTimeoutSecs(s int) Option     { return func(c *ConversionConfig) { c.DownloadTimeoutS = s } }
func WithAPITimeoutSecs(s int) Option          { return func(c *ConversionConfig) { c.APITimeoutS = s } }
func WithProgressObserver(o ProgressObserver) Option {
	return func(c *ConversionConfig) { c.Progress = o }
}
func WithImageFormat(f string) Option { return func(c *ConversionConfig) { c.ImageFormat = f } }

// NewConfig builds a ConversionConfig from defaults, applies opts, then
// clamps every bounded field. Clamping happens exactly once, here, so
// every other component can treat a ConversionConfig as already valid.
func NewConfig(opts ...Option) ConversionConfig {
	c := ConversionConfig{
		DPI:               150,
		MaxRenderedPixels: 2000,
		Concurrency:       10,
		Temperature:       0.1,
		MaxTokens:         4096,
		MaxRetries:        3,
		RetryBackoffMs:    500,
		MaintainFormat:    false,
		Fidelity:          Tier2,
		Pages:             AllPages(),
		PageSeparator:     SeparatorNone(),
		DownloadTimeoutS:  120,
		APITimeoutS:       60,
		ImageFormat:       "png",
	}
	for _, opt := range opts {
		opt(&c)
	}
	c.clamp()
	return c
}

func (c *ConversionConfig) clamp() {
	if c.DPI < 72 {
		c.DPI = 72
	} else if c.DPI > 400 {
		c.DPI = 400
	}
	if c.MaxRenderedPixels < 100 {
		c.MaxRenderedPixels = 100
	}
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.Temperature < 0.0 {
		c.Temperature = 0.0
	} else if c.Temperature > 2.0 {
		c.Temperature = 2.0
	}
	if c.MaxTokens < 1 {
		c.MaxTokens = 1
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryBackoffMs < 0 {
		c.RetryBackoffMs = 0
	}
	if c.DownloadTimeoutS < 1 {
		c.DownloadTimeoutS = 1
	}
	if c.APITimeoutS < 1 {
		c.APITimeoutS = 1
	}
	// maintain_format = true behaves as if concurrency = 1.
	if c.MaintainFormat {
		c.Concurrency = 1
	}
}

// EffectiveConcurrency is the concurrency the orchestrator actually
// schedules with, after the maintain_format override.
func (c *ConversionConfig) EffectiveConcurrency() int {
	if c.MaintainFormat {
		return 1
	}
	return c.Concurrency
}
