package orchestrate

import (
	"context"
	"image"

	"github.com/spherical/pdfvlm/internal/domain"
	"github.com/spherical/pdfvlm/internal/imgcodec"
	"github.com/spherical/pdfvlm/internal/vlm"
)

// pageRenderer is the rasteriser capability processPage needs. Narrowing
// from the concrete *raster.Handle to this interface lets tests drive
// runPages/runSequential/runConcurrent with a fake instead of an open
// MuPDF document.
type pageRenderer interface {
	Render(ctx context.Context, pageIndex, dpi, maxPixels int) (image.Image, error)
}

func codecFormat(cfg *domain.ConversionConfig) imgcodec.Format {
	if cfg.ImageFormat == "jpeg" || cfg.ImageFormat == "jpg" {
		return imgcodec.JPEG
	}
	return imgcodec.PNG
}

// renderAndEncode rasterises pageNum (1-indexed) at the config's DPI/
// pixel cap and encodes it, returning a page-local error rather than a
// fatal one: a single bad page does not abort the conversion.
func renderAndEncode(ctx context.Context, handle pageRenderer, cfg *domain.ConversionConfig, pageNum, maxPixels int) (domain.ImageAttachment, *domain.PageError) {
	img, err := handle.Render(ctx, pageNum-1, cfg.DPI, maxPixels)
	if err != nil {
		return domain.ImageAttachment{}, domain.RenderFailed(pageNum, err.Error())
	}
	payload, mediaType, err := imgcodec.Encode(img, codecFormat(cfg))
	if err != nil {
		return domain.ImageAttachment{}, domain.RenderFailed(pageNum, err.Error())
	}
	return domain.ImageAttachment{Base64Payload: payload, MediaType: mediaType, Detail: domain.DetailHigh}, nil
}

// processPage renders, encodes, dispatches and cleans a single page. The
// prior page's image/markdown are non-nil only in maintain_format mode.
func processPage(ctx context.Context, handle pageRenderer, cfg *domain.ConversionConfig, pageNum int, priorMarkdown string, priorImage *domain.ImageAttachment) domain.PageResult {
	image, rerr := renderAndEncode(ctx, handle, cfg, pageNum, cfg.MaxRenderedPixels)
	if rerr != nil {
		return domain.PageResult{PageNum: pageNum, Err: rerr}
	}

	render := func(ctx context.Context, reducedMaxPixels int) (domain.ImageAttachment, error) {
		img, rerr := renderAndEncode(ctx, handle, cfg, pageNum, reducedMaxPixels)
		if rerr != nil {
			return domain.ImageAttachment{}, rerr
		}
		return img, nil
	}

	result := vlm.Dispatch(ctx, cfg, pageNum, image, priorMarkdown, priorImage, render)
	if result.Err == nil {
		result.Markdown = cleanMarkdown(result.Markdown)
	}
	return result
}
