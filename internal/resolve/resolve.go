// Package resolve implements the input resolver: it turns a caller-
// supplied path or URL into a staged local filesystem path, verifying
// the PDF magic bytes and guaranteeing release of any temporary file it
// creates.
package resolve

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spherical/pdfvlm/internal/domain"
)

const pdfMagic = "%PDF"

// Resolve classifies input as a local path or URL, stages it onto the
// filesystem, verifies the PDF magic bytes, and returns the staged path
// plus a CleanupFunc that must be deferred on every exit path.
func Resolve(ctx context.Context, input string, cfg *domain.ConversionConfig) (string, domain.CleanupFunc, error) {
	var path string
	var cleanup domain.CleanupFunc = func() error { return nil }

	if isURL(input) {
		staged, err := download(ctx, input, cfg.DownloadTimeoutS)
		if err != nil {
			return "", cleanup, err
		}
		path = staged
		cleanup = func() error { return os.Remove(staged) }
	} else {
		abs, err := filepath.Abs(input)
		if err != nil {
			return "", cleanup, domain.InvalidInput(err.Error())
		}
		info, err := os.Stat(abs)
		if os.IsNotExist(err) {
			return "", cleanup, domain.FileNotFound(abs)
		}
		if err != nil {
			return "", cleanup, domain.PermissionDenied(abs)
		}
		if info.IsDir() {
			return "", cleanup, domain.InvalidInput(abs + " is a directory")
		}
		if f, err := os.Open(abs); err != nil {
			return "", cleanup, domain.PermissionDenied(abs)
		} else {
			f.Close()
		}
		path = abs
	}

	if err := verifyMagic(path); err != nil {
		cleanup()
		return "", func() error { return nil }, err
	}
	return path, cleanup, nil
}

// ResolveBytes writes raw PDF bytes to a scoped temporary file and
// delegates validation to the same magic-byte check Resolve uses.
func ResolveBytes(b []byte) (string, domain.CleanupFunc, error) {
	f, err := os.CreateTemp("", "pdfvlm-"+uuid.NewString()+"-*.pdf")
	if err != nil {
		return "", func() error { return nil }, domain.InvalidInput(err.Error())
	}
	path := f.Name()
	cleanup := func() error { return os.Remove(path) }
	if _, err := f.Write(b); err != nil {
		f.Close()
		cleanup()
		return "", func() error { return nil }, domain.InvalidInput(err.Error())
	}
	f.Close()
	if err := verifyMagic(path); err != nil {
		cleanup()
		return "", func() error { return nil }, err
	}
	return path, cleanup, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func download(ctx context.Context, url string, timeoutSecs int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", domain.DownloadFailed(url, err.Error())
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", domain.DownloadTimeout(url, timeoutSecs)
		}
		return "", domain.DownloadFailed(url, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domain.DownloadFailed(url, resp.Status)
	}

	f, err := os.CreateTemp("", "pdfvlm-"+uuid.NewString()+"-*.pdf")
	if err != nil {
		return "", domain.DownloadFailed(url, err.Error())
	}
	path := f.Name()
	_, copyErr := io.Copy(f, resp.Body)
	f.Close()
	if copyErr != nil {
		os.Remove(path)
		if ctx.Err() == context.DeadlineExceeded {
			return "", domain.DownloadTimeout(url, timeoutSecs)
		}
		return "", domain.DownloadFailed(url, copyErr.Error())
	}
	return path, nil
}

func verifyMagic(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return domain.PermissionDenied(path)
	}
	defer f.Close()
	buf := make([]byte, 4)
	n, _ := io.ReadFull(f, buf)
	if n < 4 || string(buf) != pdfMagic {
		return domain.NotAPdf(path, buf[:n])
	}
	return nil
}
