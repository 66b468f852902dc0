package resolve

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spherical/pdfvlm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempPdf(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestResolve_LocalValidPdf(t *testing.T) {
	path := writeTempPdf(t, "%PDF-1.4\n...")
	cfg := domain.NewConfig()

	resolved, cleanup, err := Resolve(context.Background(), path, &cfg)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
	require.NoError(t, cleanup())

	// local files are never removed by cleanup
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestResolve_FileNotFound(t *testing.T) {
	cfg := domain.NewConfig()
	_, _, err := Resolve(context.Background(), "/no/such/path/doc.pdf", &cfg)
	require.Error(t, err)
	var fe *domain.FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.ErrFileNotFound, fe.Code)
}

func TestResolve_RejectsDirectory(t *testing.T) {
	cfg := domain.NewConfig()
	_, _, err := Resolve(context.Background(), t.TempDir(), &cfg)
	require.Error(t, err)
	var fe *domain.FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.ErrInvalidInput, fe.Code)
}

func TestResolve_RejectsNonPdfMagic(t *testing.T) {
	path := writeTempPdf(t, "not a pdf at all")
	cfg := domain.NewConfig()

	_, cleanup, err := Resolve(context.Background(), path, &cfg)
	require.Error(t, err)
	var fe *domain.FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.ErrNotAPdf, fe.Code)
	require.NoError(t, cleanup())

	// the source file itself is untouched since it wasn't staged by us
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestResolveBytes_ValidPdfStagesAndCleansUp(t *testing.T) {
	resolved, cleanup, err := ResolveBytes([]byte("%PDF-1.7\nbinarydata"))
	require.NoError(t, err)

	_, statErr := os.Stat(resolved)
	require.NoError(t, statErr)

	require.NoError(t, cleanup())
	_, statErr = os.Stat(resolved)
	assert.True(t, os.IsNotExist(statErr))
}

func TestResolveBytes_RejectsNonPdfMagicAndRemovesStagedFile(t *testing.T) {
	stagedPattern := filepath.Join(os.TempDir(), "pdfvlm-*.pdf")
	before, _ := filepath.Glob(stagedPattern)

	_, cleanup, err := ResolveBytes([]byte("definitely not a pdf"))
	require.Error(t, err)
	var fe *domain.FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.ErrNotAPdf, fe.Code)
	require.NoError(t, cleanup())

	after, _ := filepath.Glob(stagedPattern)
	assert.Len(t, after, len(before), "the rejected staged file must not remain in the temp dir")
}
