package cli

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/dmitrijs2005/moments/internal/logging"
)

// decodeFile decodes the image at path, applying its EXIF orientation.
func (a *App) decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := a.codec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// decodeFiles decodes every path, logging and skipping the ones that fail.
// It returns the decoded images in input order and the failed count.
func decodeFiles(ctx context.Context, a *App, log logging.Logger, paths []string) ([]image.Image, int) {
	images := make([]image.Image, 0, len(paths))
	failed := 0
	for _, p := range paths {
		img, err := a.decodeFile(p)
		if err != nil {
			log.Warn(ctx, "skipping unreadable image", "file", p, "error", err)
			failed++
			continue
		}
		images = append(images, img)
	}
	return images, failed
}
