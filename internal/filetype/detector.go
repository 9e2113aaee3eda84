package filetype

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

// PDFMIME is the only input type the reorder pipeline accepts.
const PDFMIME = "application/pdf"

// UnsupportedError reports an input whose content is not a PDF.
type UnsupportedError struct {
	Path     string
	MIMEType string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s is %s, expected %s", e.Path, e.MIMEType, PDFMIME)
}

// Detect returns the MIME type of the file using magic bytes, not the filename.
func Detect(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}
	log.Debug().Str("mime", mtype.String()).Str("ext", mtype.Extension()).Str("file", path).Msg("detected file type")
	return mtype.String(), nil
}

// EnsurePDF fails unless the file content is a PDF.
func EnsurePDF(path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}
	if !mtype.Is(PDFMIME) {
		return &UnsupportedError{Path: path, MIMEType: mtype.String()}
	}
	return nil
}
