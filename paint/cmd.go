// Package paint implements the command that plays a painting script and
// exports what it painted.
package paint

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"artflow/brush"
	"artflow/canvas"
	"artflow/export"
	"artflow/parallel"
	"artflow/script"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Script    string        `help:"Painting script (JSON) to play" required:"" type:"existingfile"`
	Out       string        `help:"Output file for the flattened painting" default:"painting.png"`
	Format    string        `help:"Output format (png, jpeg, gif, bmp, tiff, pdf). Guessed from the output extension when empty"`
	Layers    bool          `help:"Also write every layer next to the output file" default:"false" group:"layers"`
	Thumbnail int           `help:"If positive, also write a PNG thumbnail of every layer with this width" group:"layers"`
	Palette   string        `help:"Palette name (bw, gray16, plan9, websafe) or PAL file in RIFF format to reduce the output to" group:"palette"`
	Dither    bool          `help:"Apply dithering when reducing to a palette" default:"false" group:"palette"`
	Timelapse string        `help:"Folder receiving a JPEG frame after every stroke"`
	Seed      uint64        `help:"Seed for brush jitter. Zero picks a random one"`
	Colors    color.Palette `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	out, err := filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("invalid output path %q: %w", c.Out, err)
	}
	c.Out = out

	if c.Format, err = export.FormatFor(c.Out, c.Format); err != nil {
		return err
	}

	if c.Thumbnail < 0 {
		return fmt.Errorf("invalid thumbnail width: %d", c.Thumbnail)
	}

	if c.Palette != "" {
		if c.Colors, err = export.LoadPalette(c.Palette); err != nil {
			return err
		}
	}

	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	s, err := c.load()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(c.Out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create destination folder %q: %w", dir, err)
		}
	}

	var opts []brush.Option
	if c.Seed != 0 {
		opts = append(opts, brush.WithRand(rand.New(rand.NewPCG(c.Seed, c.Seed))))
	}
	cv := s.NewCanvas(opts...)

	if c.Timelapse != "" {
		tl, err := export.NewTimelapse(c.Timelapse)
		if err != nil {
			return err
		}
		cv.OnStrokeEnd = func(cv *canvas.Canvas) {
			if err := tl.Capture(cv.Flatten().ToImage()); err != nil {
				slog.Error("could not capture timelapse frame", "dir", c.Timelapse, "error", err)
			}
		}
		defer func() {
			slog.Info("timelapse", "dir", c.Timelapse, "frames", tl.Frames())
		}()
	}

	if err := s.Play(cv); err != nil {
		return fmt.Errorf("could not play %q: %w", c.Script, err)
	}

	encOpts := &export.Options{Palette: c.Colors, Dither: c.Dither}
	queueSave(pool, c.Out, cv.Flatten().ToImage(), c.Format, encOpts)

	base := strings.TrimSuffix(c.Out, filepath.Ext(c.Out))
	for i, l := range cv.Layers.Layers() {
		if c.Layers {
			name := fmt.Sprintf("%s.layer%02d.%s", base, i, export.Ext(c.Format))
			queueSave(pool, name, l.Buffer().ToImage(), c.Format, encOpts)
		}
		if c.Thumbnail > 0 {
			h := max(1, c.Thumbnail*cv.Layers.Height()/cv.Layers.Width())
			name := fmt.Sprintf("%s.thumb%02d.png", base, i)
			queueSave(pool, name, cv.Layers.Thumbnail(i, c.Thumbnail, h), "png", nil)
		}
	}

	err = pool.Wait()
	slog.Info("stats", "layers", cv.Layers.Len(), "actions", len(s.Actions),
		"files", pool.Done())
	if err != nil {
		return fmt.Errorf("could not export %q: %w", c.Script, err)
	}
	return nil
}

func (c *CLICmd) load() (*script.Script, error) {
	f, err := os.Open(c.Script)
	if err != nil {
		return nil, fmt.Errorf("could not open script %q: %w", c.Script, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close script", "file", c.Script, "error", closeErr)
		}
	}()

	s, err := script.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("invalid script %q: %w", c.Script, err)
	}
	return s, nil
}

// queueSave queues an export of img on pool.
func queueSave(pool *parallel.Pool, path string, img image.Image, format string, opts *export.Options) {
	pool.Do(func() error {
		logger := slog.Default().With("file", path)
		if err := export.Save(path, img, format, opts); err != nil {
			logger.Error("could not save image", "error", err)
			return err
		}
		logger.Info("saved", "format", format)
		return nil
	})
}
