package orchestrate

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spherical/pdfvlm/internal/domain"
)

// ConvertToFile runs Convert and writes the assembled markdown
// atomically: to a sibling temp path, then renamed over the destination.
func ConvertToFile(ctx context.Context, input, path string, cfg domain.ConversionConfig) (domain.ConversionStats, error) {
	out, err := Convert(ctx, input, cfg)
	if err != nil {
		return domain.ConversionStats{}, err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pdfvlm-tmp-*")
	if err != nil {
		return out.Stats, domain.OutputWriteFailed(path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(out.Markdown); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return out.Stats, domain.OutputWriteFailed(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return out.Stats, domain.OutputWriteFailed(path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return out.Stats, domain.OutputWriteFailed(path, err)
	}
	return out.Stats, nil
}
