package export

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/iiw-bench/internal/prediction"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: uint8(x * 10), G: 100, B: 200, A: 255})
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	switch filepath.Ext(path) {
	case ".jpg":
		require.NoError(t, jpeg.Encode(f, img, nil))
	default:
		require.NoError(t, png.Encode(f, img))
	}
}

func TestCopier_Copy(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	c := NewCopier(out)

	t.Run("png is re-encoded as jpeg", func(t *testing.T) {
		path := filepath.Join(src, "100-r.png")
		writeImage(t, path, 8, 4)

		cp, err := c.Copy(context.Background(), Task{Subdir: "Bell", Src: path})
		require.NoError(t, err)
		assert.Equal(t, "Bell/100-r.jpg", cp.RelPath)
		assert.InDelta(t, 0.5, cp.HWRatio, 1e-12)

		f, err := os.Open(filepath.Join(out, "images", "Bell", "100-r.jpg"))
		require.NoError(t, err)
		defer f.Close()
		_, format, err := image.DecodeConfig(f)
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
	})

	t.Run("jpeg is copied byte for byte", func(t *testing.T) {
		path := filepath.Join(src, "101.jpg")
		writeImage(t, path, 4, 6)

		cp, err := c.Copy(context.Background(), Task{Subdir: InputSubdir, Src: path})
		require.NoError(t, err)
		assert.InDelta(t, 1.5, cp.HWRatio, 1e-12)

		want, err := os.ReadFile(path)
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(out, "images", cp.RelPath))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := c.Copy(context.Background(), Task{Subdir: "x", Src: filepath.Join(src, "nope.png")})
		assert.Error(t, err)
	})
}

func TestCopier_SkipExisting(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	path := filepath.Join(src, "7.png")
	writeImage(t, path, 2, 2)

	target := filepath.Join(out, "images", "m", "7.jpg")
	writeImage(t, target, 4, 2)

	c := NewCopier(out)
	c.SkipExisting = true
	cp, err := c.Copy(context.Background(), Task{Subdir: "m", Src: path})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, cp.HWRatio, 1e-12, "existing file is left alone")

	c.SkipExisting = false
	cp, err = c.Copy(context.Background(), Task{Subdir: "m", Src: path})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cp.HWRatio, 1e-12)
}

func TestRunAndManifest(t *testing.T) {
	root := t.TempDir()
	inputDir := filepath.Join(root, "data")
	predDir := filepath.Join(root, "pred")
	for _, id := range []string{"1", "2"} {
		writeImage(t, filepath.Join(inputDir, id+".png"), 10, 5)
		writeImage(t, filepath.Join(predDir, id+"-r.png"), 10, 5)
		writeImage(t, filepath.Join(predDir, id+"-s.png"), 10, 5)
	}

	loader, err := prediction.NewPatternLoader("bell", predDir, "{id}-r.png", "{id}-s.png")
	require.NoError(t, err)
	methods := []Method{{Title: "Bell et al.", Loader: loader}}
	input := prediction.NewInputLoader(inputDir, "png")

	tasks := Plan([]string{"1", "2"}, methods, input, 90)
	require.Len(t, tasks, 6)
	assert.Equal(t, KindInput, tasks[0].Kind)
	assert.Equal(t, 90, tasks[0].Quality)
	assert.Equal(t, KindReflectance, tasks[1].Kind)
	assert.Equal(t, KindShading, tasks[2].Kind)
	assert.Equal(t, ShadingQuality, tasks[2].Quality)

	out := filepath.Join(root, "web")
	copied, err := NewCopier(out).Run(context.Background(), tasks, 3)
	require.NoError(t, err)
	require.Len(t, copied, len(tasks))

	m, err := BuildManifest(DefaultRelDir, methods, tasks, copied)
	require.NoError(t, err)

	want := []ManifestRow{
		{
			ImageID:     "1",
			HWRatio:     0.5,
			Input:       "Input/1.jpg",
			Reflectance: map[string]string{"Bell et al.": "Bell et al./1-r.jpg"},
			Shading:     map[string]string{"Bell et al.": "Bell et al./1-s.jpg"},
		},
		{
			ImageID:     "2",
			HWRatio:     0.5,
			Input:       "Input/2.jpg",
			Reflectance: map[string]string{"Bell et al.": "Bell et al./2-r.jpg"},
			Shading:     map[string]string{"Bell et al.": "Bell et al./2-s.jpg"},
		},
	}
	if diff := cmp.Diff(want, m.Images); diff != "" {
		t.Errorf("manifest rows mismatch (-want +got):\n%s", diff)
	}

	path := filepath.Join(out, "manifest.yaml")
	require.NoError(t, WriteManifest(m, path))
	read, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bell et al."}, read.Methods)
	assert.Len(t, read.Images, 2)
}

func TestRun_FailureCancels(t *testing.T) {
	c := NewCopier(t.TempDir())
	_, err := c.Run(context.Background(), []Task{{ImageID: "9", Kind: KindInput, Subdir: "Input", Src: "/does/not/exist.png"}}, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `export input of "9"`)
}

func TestBuildManifest_LengthMismatch(t *testing.T) {
	_, err := BuildManifest(DefaultRelDir, nil, []Task{{ImageID: "1"}}, nil)
	assert.Error(t, err)
}
