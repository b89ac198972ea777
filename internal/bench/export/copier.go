// Package export copies inputs and predictions into a browsable image
// tree, converting everything to JPEG.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	_ "image/jpeg"
	_ "image/png"
)

const (
	DefaultQuality = 95
	DefaultRelDir  = "images"
)

type Task struct {
	ImageID string
	Kind    Kind
	Method  string
	Subdir  string
	Src     string
	Quality int // 0 uses the copier default
}

type Kind string

const (
	KindInput       Kind = "input"
	KindReflectance Kind = "reflectance"
	KindShading     Kind = "shading"
)

// Copied is where a task landed, relative to the image root, and the
// height/width ratio of the written file.
type Copied struct {
	RelPath string  `yaml:"path"`
	HWRatio float64 `yaml:"hw_ratio"`
}

type Copier struct {
	OutputDir    string
	RelDir       string
	Quality      int
	SkipExisting bool
}

func NewCopier(outputDir string) *Copier {
	return &Copier{OutputDir: outputDir, RelDir: DefaultRelDir, Quality: DefaultQuality}
}

func (c *Copier) root() string {
	return filepath.Join(c.OutputDir, c.RelDir)
}

// Copy writes one source image as <root>/<subdir>/<basename>.jpg. JPEG
// sources are copied byte for byte, anything else is re-encoded.
func (c *Copier) Copy(ctx context.Context, t Task) (Copied, error) {
	if err := ctx.Err(); err != nil {
		return Copied{}, err
	}

	base := filepath.Base(t.Src)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	rel := filepath.Join(t.Subdir, stem+".jpg")
	out := filepath.Join(c.root(), rel)

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return Copied{}, fmt.Errorf("create %s: %w", filepath.Dir(out), err)
	}

	if _, err := os.Stat(out); err == nil && c.SkipExisting {
		slog.Debug("Export target exists", "path", out)
	} else {
		switch strings.ToLower(ext) {
		case ".jpg", ".jpeg":
			err = copyFile(t.Src, out)
		default:
			err = c.reencode(t.Src, out, t.Quality)
		}
		if err != nil {
			return Copied{}, err
		}
	}

	ratio, err := hwRatio(out)
	if err != nil {
		return Copied{}, err
	}
	return Copied{RelPath: filepath.ToSlash(rel), HWRatio: ratio}, nil
}

func (c *Copier) reencode(src, dst string, quality int) error {
	if quality <= 0 {
		quality = c.Quality
	}
	if quality <= 0 {
		quality = DefaultQuality
	}
	img, err := imaging.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	if err := imaging.Save(img, dst, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	return nil
}

// Run copies all tasks on a bounded pool. Results line up with tasks; the
// first failure cancels the rest.
func (c *Copier) Run(ctx context.Context, tasks []Task, workers int) ([]Copied, error) {
	out := make([]Copied, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, t := range tasks {
		g.Go(func() error {
			cp, err := c.Copy(gctx, t)
			if err != nil {
				return fmt.Errorf("export %s of %q from %s: %w", t.Kind, t.ImageID, t.Src, err)
			}
			out[i] = cp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("Export finished", "files", len(out), "root", c.root())
	return out, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, in); err != nil {
		f.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return f.Close()
}

func hwRatio(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, fmt.Errorf("decode header of %s: %w", path, err)
	}
	if cfg.Width == 0 {
		return 0, errors.New("zero-width image " + path)
	}
	return float64(cfg.Height) / float64(cfg.Width), nil
}
