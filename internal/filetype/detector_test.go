package filetype

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsurePDF(t *testing.T) {
	dir := t.TempDir()

	pdf := filepath.Join(dir, "scan.bin")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n"), 0o644))
	assert.NoError(t, EnsurePDF(pdf), "detection ignores the extension")

	txt := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(txt, []byte("just some text\n"), 0o644))
	err := EnsurePDF(txt)
	var unsupported *UnsupportedError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, txt, unsupported.Path)

	mime, err := Detect(pdf)
	require.NoError(t, err)
	assert.Equal(t, PDFMIME, mime)

	assert.Error(t, EnsurePDF(filepath.Join(dir, "missing")))
}
