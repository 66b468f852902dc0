// Package imgcodec encodes a rasterised page image to a compressed byte
// stream and a base64 payload tagged with its media type. It has no
// side effects beyond the encode itself.
package imgcodec

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/spherical/pdfvlm/internal/domain"
)

// Format selects the compression the encoder uses.
type Format int

const (
	PNG  Format = iota // lossless, the default
	JPEG               // smaller payload, lossy
)

const jpegQuality = 90

// Encode serialises img and returns its base64 payload (standard
// alphabet, no URL-safe substitution) together with the declared media
// type.
func Encode(img image.Image, format Format) (payload string, mediaType string, err error) {
	var buf bytes.Buffer
	switch format {
	case JPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return "", "", domain.InvalidInput("jpeg encode: " + err.Error())
		}
		mediaType = "image/jpeg"
	default:
		if err := png.Encode(&buf, img); err != nil {
			return "", "", domain.InvalidInput("png encode: " + err.Error())
		}
		mediaType = "image/png"
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), mediaType, nil
}
