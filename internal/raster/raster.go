// Package raster is the FFI boundary: it opens a PDF via a native MuPDF
// binding, reads document metadata, and renders selected pages to
// in-memory bitmaps at a requested resolution. The underlying library is
// not reentrant per document handle, so every call into a Handle runs on
// that handle's own dedicated worker goroutine (see WorkerPool).
package raster

import (
	"context"
	"image"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
	"github.com/spherical/pdfvlm/internal/domain"
)

// renderTimeout bounds how long a single render is allowed to occupy the
// worker goroutine before the caller gives up waiting; it does not abort
// the underlying MuPDF call (which is not cancellable), it only frees
// the caller, which would otherwise block indefinitely on a document
// that hangs the native decoder.
const renderTimeout = 60 * time.Second

// Handle wraps an open document. It is a scoped, non-shareable resource:
// callers must route every render/metadata call through the Handle's
// WorkerPool rather than calling methods directly from multiple
// goroutines.
type Handle struct {
	doc  *fitz.Document
	path string
	pool *WorkerPool
}

// Open opens path for rasterisation. If the document is encrypted and no
// password was supplied, it returns PasswordRequired; if a password was
// supplied and rejected, WrongPassword; any other parse failure maps to
// CorruptPdf.
func Open(path, password string) (*Handle, error) {
	doc, err := fitz.New(path)
	if err != nil {
		if password == "" && looksEncrypted(err) {
			return nil, domain.PasswordRequired(path)
		}
		if password != "" {
			doc, err2 := fitz.NewWithPassword(path, password)
			if err2 == nil {
				h := &Handle{doc: doc, path: path}
				h.pool = newWorkerPool(h)
				return h, nil
			}
			if looksEncrypted(err2) {
				return nil, domain.WrongPassword(path)
			}
			return nil, domain.CorruptPdf(path, err2.Error())
		}
		return nil, domain.CorruptPdf(path, err.Error())
	}
	h := &Handle{doc: doc, path: path}
	h.pool = newWorkerPool(h)
	return h, nil
}

func looksEncrypted(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "password") || strings.Contains(s, "encrypt")
}

// Close releases the underlying document and stops the worker pool. It
// is idempotent.
func (h *Handle) Close() error {
	h.pool.stop()
	return h.doc.Close()
}

// Metadata is a pure read of document-level dictionaries; it does not
// render any page.
func (h *Handle) Metadata(ctx context.Context) (domain.DocumentMetadata, error) {
	type result struct {
		md  domain.DocumentMetadata
		err error
	}
	out := submit(h.pool, func() result {
		raw := h.doc.Metadata()
		md := domain.DocumentMetadata{
			Title:       raw["title"],
			Author:      raw["author"],
			Subject:     raw["subject"],
			Creator:     raw["creator"],
			Producer:    raw["producer"],
			PageCount:   h.doc.NumPage(),
			PDFVersion:  raw["format"],
			IsEncrypted: raw["encryption"] != "",
		}
		if v, err := strconv.ParseBool(raw["linearized"]); err == nil {
			md.IsLinearised = v
		}
		return result{md: md}
	})
	select {
	case r := <-out:
		return r.md, r.err
	case <-ctx.Done():
		return domain.DocumentMetadata{}, ctx.Err()
	}
}

// NumPage is a shorthand read of the page count without building a full
// DocumentMetadata.
func (h *Handle) NumPage() int { return <-submit(h.pool, h.doc.NumPage) }

// Render rasterises pageIndex (0-based) at a DPI derived to honour both
// the requested dpi and the maxPixels cap, normalising landscape/rotated
// pages to upright orientation (handled by go-fitz via the page's own
// /Rotate entry).
func (h *Handle) Render(ctx context.Context, pageIndex, dpi, maxPixels int) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	type result struct {
		img image.Image
		err error
	}
	out := submit(h.pool, func() result {
		bounds, err := h.doc.Bound(pageIndex)
		if err != nil {
			return result{err: domain.RenderFailed(pageIndex+1, err.Error())}
		}
		widthPts := float64(bounds.Dx())
		heightPts := float64(bounds.Dy())
		targetW := int(math.Ceil(widthPts / 72.0 * float64(dpi)))
		targetH := int(math.Ceil(heightPts / 72.0 * float64(dpi)))
		effectiveDPI := float64(dpi)
		if m := maxInt(targetW, targetH); m > maxPixels {
			scale := float64(maxPixels) / float64(m)
			effectiveDPI = float64(dpi) * scale
		}
		img, err := h.doc.ImageDPI(pageIndex, effectiveDPI)
		if err != nil {
			return result{err: domain.RenderFailed(pageIndex+1, err.Error())}
		}
		return result{img: img}
	})
	select {
	case r := <-out:
		return r.img, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
