package asset

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/gen2brain/go-fitz"
)

// FromDir collects image files of a directory, sorted by name, into a Set.
// maxImages == 0 means no limit.
func FromDir(dir string, maxImages int) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if maxImages > 0 && len(paths) > maxImages {
		paths = paths[:maxImages]
	}

	assets := make([]Asset, len(paths))
	for i, p := range paths {
		assets[i] = Asset{Index: i, SourcePath: p, Status: StatusReady}
	}
	return NewSet(assets), nil
}

// FromPDF renders each page of a PDF deck into workDir as PNG and returns
// the pages as ready assets. Page render failures become Missing assets so
// the rest of the deck still renders.
func FromPDF(path string, workDir string, dpi int) (*Set, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия PDF: %w", err)
	}
	defer doc.Close()

	count := doc.NumPage()
	assets := make([]Asset, count)
	for i := 0; i < count; i++ {
		assets[i] = Asset{Index: i, Status: StatusMissing}

		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			continue
		}

		pagePath := filepath.Join(workDir, fmt.Sprintf("page_%03d.png", i))
		f, err := os.Create(pagePath)
		if err != nil {
			continue
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			continue
		}
		if err := f.Close(); err != nil {
			continue
		}
		assets[i] = Asset{Index: i, SourcePath: pagePath, Status: StatusReady}
	}
	return NewSet(assets), nil
}
