package domain

import "fmt"

// ErrorCode identifies a fatal error: one that aborts the conversion
// before or instead of producing a ConversionOutput.
type ErrorCode string

const (
	ErrFileNotFound      ErrorCode = "file_not_found"
	ErrPermissionDenied  ErrorCode = "permission_denied"
	ErrInvalidInput      ErrorCode = "invalid_input"
	ErrDownloadFailed    ErrorCode = "download_failed"
	ErrDownloadTimeout   ErrorCode = "download_timeout"
	ErrNotAPdf           ErrorCode = "not_a_pdf"
	ErrCorruptPdf        ErrorCode = "corrupt_pdf"
	ErrPasswordRequired  ErrorCode = "password_required"
	ErrWrongPassword     ErrorCode = "wrong_password"
	ErrPageOutOfRange    ErrorCode = "page_out_of_range"
	ErrProviderNotConfig ErrorCode = "provider_not_configured"
	ErrAuthError         ErrorCode = "auth_error"
	ErrAllPagesFailed    ErrorCode = "all_pages_failed"
	ErrPartialFailure    ErrorCode = "partial_failure"
	ErrOutputWriteFailed ErrorCode = "output_write_failed"
	ErrInvalidConfig     ErrorCode = "invalid_config"
)

// FatalError aborts the whole conversion. It always carries a Message
// describing what happened and, where something can be done about it, a
// Hint telling the caller what to try next.
type FatalError struct {
	Code    ErrorCode
	Message string
	Hint    string
	Err     error
}

func (e *FatalError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("[%s] %s (%s)", e.Code, e.Message, e.Hint)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *FatalError) Unwrap() error { return e.Err }

func newFatal(code ErrorCode, hint string, format string, args ...interface{}) *FatalError {
	return &FatalError{Code: code, Message: fmt.Sprintf(format, args...), Hint: hint}
}

func FileNotFound(path string) *FatalError {
	return newFatal(ErrFileNotFound, "", "file not found: %s", path)
}

func PermissionDenied(path string) *FatalError {
	return newFatal(ErrPermissionDenied, "check file permissions", "cannot read %s", path)
}

func InvalidInput(reason string) *FatalError {
	return newFatal(ErrInvalidInput, "", "invalid input: %s", reason)
}

func DownloadFailed(url, reason string) *FatalError {
	return newFatal(ErrDownloadFailed, "", "download of %s failed: %s", url, reason)
}

func DownloadTimeout(url string, secs int) *FatalError {
	return newFatal(ErrDownloadTimeout, "increase download_timeout_secs", "download of %s exceeded %ds", url, secs)
}

func NotAPdf(path string, magic []byte) *FatalError {
	return newFatal(ErrNotAPdf, "", "%s does not look like a PDF (magic %q)", path, magic)
}

func CorruptPdf(path, detail string) *FatalError {
	return newFatal(ErrCorruptPdf, "", "could not parse %s: %s", path, detail)
}

func PasswordRequired(path string) *FatalError {
	return newFatal(ErrPasswordRequired, "provide the document password", "%s is encrypted", path)
}

func WrongPassword(path string) *FatalError {
	return newFatal(ErrWrongPassword, "check the password", "password rejected for %s", path)
}

func PageOutOfRange(page, total int) *FatalError {
	return newFatal(ErrPageOutOfRange, "", "page %d is out of range for a %d-page document", page, total)
}

func ProviderNotConfigured() *FatalError {
	return newFatal(ErrProviderNotConfig, "set provider, provider_name or model", "no VLM provider configured")
}

func AuthError(detail string) *FatalError {
	return newFatal(ErrAuthError, "check the provider API key", "authentication failed: %s", detail)
}

func AllPagesFailed(total, retries int, firstErr error) *FatalError {
	return &FatalError{
		Code:    ErrAllPagesFailed,
		Message: fmt.Sprintf("all %d pages failed (retries=%d)", total, retries),
		Err:     firstErr,
	}
}

// PartialFailure reports a conversion where some but not all pages
// succeeded; it is only ever surfaced via ConversionOutput.IntoResult.
type PartialFailure struct {
	Success int
	Failed  int
	Total   int
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("[%s] %d/%d pages failed", ErrPartialFailure, e.Failed, e.Total)
}

func OutputWriteFailed(path string, err error) *FatalError {
	return &FatalError{Code: ErrOutputWriteFailed, Message: fmt.Sprintf("could not write %s", path), Err: err}
}

func InvalidConfig(reason string) *FatalError {
	return newFatal(ErrInvalidConfig, "", "invalid configuration: %s", reason)
}

// PageErrorKind identifies a page-local, non-fatal failure: it is
// embedded in the failing page's PageResult and does not abort the
// rest of the conversion.
type PageErrorKind string

const (
	PageErrRenderFailed      PageErrorKind = "render_failed"
	PageErrLlmFailed         PageErrorKind = "llm_failed"
	PageErrTimeout           PageErrorKind = "timeout"
	PageErrRateLimitExceeded PageErrorKind = "rate_limit_exceeded"
	PageErrApiTimeout        PageErrorKind = "api_timeout"
)

type PageError struct {
	Kind           PageErrorKind
	Page           int
	Retries        int
	Detail         string
	Secs           int
	ElapsedMs      int64
	Provider       string
	RetryAfterSecs int
	Err            error
}

func (e *PageError) Error() string {
	switch e.Kind {
	case PageErrRenderFailed:
		return fmt.Sprintf("page %d: render failed: %s", e.Page, e.Detail)
	case PageErrLlmFailed:
		return fmt.Sprintf("page %d: llm call failed after %d retries: %s", e.Page, e.Retries, e.Detail)
	case PageErrTimeout:
		return fmt.Sprintf("page %d: timed out after %ds", e.Page, e.Secs)
	case PageErrRateLimitExceeded:
		return fmt.Sprintf("page %d: rate limited by %s (retry after %ds)", e.Page, e.Provider, e.RetryAfterSecs)
	case PageErrApiTimeout:
		return fmt.Sprintf("page %d: api call timed out after %dms", e.Page, e.ElapsedMs)
	default:
		return fmt.Sprintf("page %d: %s", e.Page, e.Detail)
	}
}

func (e *PageError) Unwrap() error { return e.Err }

func RenderFailed(page int, detail string) *PageError {
	return &PageError{Kind: PageErrRenderFailed, Page: page, Detail: detail}
}

func LlmFailed(page, retries int, detail string, err error) *PageError {
	return &PageError{Kind: PageErrLlmFailed, Page: page, Retries: retries, Detail: detail, Err: err}
}

func TimeoutError(page, secs int) *PageError {
	return &PageError{Kind: PageErrTimeout, Page: page, Secs: secs}
}

func RateLimitExceeded(page int, provider string, retryAfterSecs int) *PageError {
	return &PageError{Kind: PageErrRateLimitExceeded, Page: page, Provider: provider, RetryAfterSecs: retryAfterSecs}
}

func ApiTimeout(page int, elapsedMs int64) *PageError {
	return &PageError{Kind: PageErrApiTimeout, Page: page, ElapsedMs: elapsedMs}
}
