package prediction

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	_ "image/jpeg"
	_ "image/png"
)

// InputLoader points at the original IIW photographs.
type InputLoader struct {
	Dir string
	Ext string
}

func NewInputLoader(dir, ext string) *InputLoader {
	if ext == "" {
		ext = "png"
	}
	return &InputLoader{Dir: dir, Ext: ext}
}

func (in *InputLoader) Path(id string) string {
	return filepath.Join(in.Dir, id+"."+in.Ext)
}

// Size reads only the image header.
func (in *InputLoader) Size(ctx context.Context, id string) (rows, cols int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	f, err := os.Open(in.Path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, 0, fmt.Errorf("%w: input %s", ErrNotFound, in.Path(id))
		}
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode header of %s: %w", in.Path(id), err)
	}
	return cfg.Height, cfg.Width, nil
}
