// Package localfile inspects files chosen for upload.
package localfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

// Inspect stats path and sniffs its content type from the leading bytes.
// The extension is ignored, so a renamed text file is not a PDF.
func Inspect(path string) (domain.FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileRef{}, fmt.Errorf("inspecting %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.FileRef{}, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return domain.FileRef{}, fmt.Errorf("detecting type of %s: %w", path, err)
	}

	contentType := mtype.String()
	if mtype.Is(domain.PDFMIMEType) {
		contentType = domain.PDFMIMEType
	}

	return domain.FileRef{
		Path:         path,
		Name:         filepath.Base(path),
		MIMEType:     contentType,
		SizeBytes:    info.Size(),
		LastModified: info.ModTime(),
	}, nil
}
