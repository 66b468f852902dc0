package main

import (
	"fmt"

	"github.com/spherical/pdfvlm/internal/domain"
)

// cliObserver prints conversion progress to stdout, the way the
// teacher's own CLI rendered its stream events, and mirrors the same
// detail to logger: progress at debug level, so only --verbose surfaces
// it, page errors at warn level and the final summary at info level.
type cliObserver struct {
	logger *domain.Logger
}

func (o *cliObserver) OnConversionStart(selectedCount int) {
	fmt.Printf("selected %d pages\n", selectedCount)
	o.logger.Debug("conversion start: %d pages selected", selectedCount)
}

func (o *cliObserver) OnPageStart(n, total int) {
	fmt.Printf("\npage %d/%d: processing...\n", n, total)
	o.logger.Debug("page %d/%d: dispatched", n, total)
}

func (o *cliObserver) OnPageComplete(n, total, charsProduced int) {
	fmt.Printf("page %d/%d: done (%d chars)\n", n, total, charsProduced)
	o.logger.Debug("page %d/%d: completed, %d chars produced", n, total, charsProduced)
}

func (o *cliObserver) OnPageError(n, total int, errorMessage string) {
	fmt.Printf("page %d/%d: failed: %s\n", n, total, errorMessage)
	o.logger.Warn("page %d/%d: failed: %s", n, total, errorMessage)
}

func (o *cliObserver) OnConversionComplete(total, succeeded int) {
	fmt.Printf("\ndone: %d/%d pages succeeded\n", succeeded, total)
	o.logger.Info("conversion complete: %d/%d pages succeeded", succeeded, total)
}
