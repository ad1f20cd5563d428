package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"artflow/internal/logging"
)

// timelapseQuality is the JPEG quality of timelapse frames.
const timelapseQuality = 85

// Timelapse writes numbered JPEG frames into a directory. Capture it
// between strokes, never while one is in progress.
type Timelapse struct {
	dir   string
	frame int
}

// NewTimelapse prepares dir for frames.
func NewTimelapse(dir string) (*Timelapse, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create timelapse folder %q: %w", dir, err)
	}
	return &Timelapse{dir: dir}, nil
}

// Frames returns how many frames were written.
func (t *Timelapse) Frames() int { return t.frame }

// Capture writes img as the next frame.
func (t *Timelapse) Capture(img image.Image) error {
	path := filepath.Join(t.dir, fmt.Sprintf("frame_%06d.jpg", t.frame))
	if err := Save(path, img, "jpeg", &Options{Quality: timelapseQuality}); err != nil {
		return err
	}
	logging.Logger().Debug("timelapse frame", "file", path)
	t.frame++
	return nil
}
