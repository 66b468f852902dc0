package orchestrate

import (
	"context"

	"github.com/spherical/pdfvlm/internal/domain"
	"github.com/spherical/pdfvlm/internal/raster"
	"github.com/spherical/pdfvlm/internal/resolve"
)

// Inspect runs only resolve + open + metadata extraction; it never
// invokes the VLM dispatcher.
func Inspect(ctx context.Context, input string, cfg domain.ConversionConfig) (domain.DocumentMetadata, error) {
	path, cleanupInput, err := resolve.Resolve(ctx, input, &cfg)
	if err != nil {
		return domain.DocumentMetadata{}, err
	}

	handle, err := raster.Open(path, cfg.Password)
	if err != nil {
		cleanupInput()
		return domain.DocumentMetadata{}, err
	}
	defer domain.Chain(handle.Close, cleanupInput)()

	return handle.Metadata(ctx)
}
