package imaging

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/loomreport"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestVariantHeight(t *testing.T) {
	assert.Equal(t, 900, VariantHeight(1600))
	assert.Equal(t, 675, VariantHeight(1200))
	assert.Equal(t, 450, VariantHeight(800))
	assert.Equal(t, 56, VariantHeight(100))
}

func TestSaveWritesOriginalAndVariants(t *testing.T) {
	assets := t.TempDir()
	outDir := filepath.Join(assets, "generated")
	saver := NewSaver(assets)

	res, err := saver.Save(context.Background(), testPNG(t, 320, 240), outDir, "2026-10-18-the-loom")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outDir, "2026-10-18-the-loom-original.png"), res.OriginalPath)
	orig, err := os.Open(res.OriginalPath)
	require.NoError(t, err)
	defer orig.Close()
	cfg, err := png.DecodeConfig(orig)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 240, cfg.Height)

	require.Len(t, res.Variants, 3)
	for i, width := range []int{1600, 1200, 800} {
		v := res.Variants[i]
		assert.Equal(t, width, v.Width)
		assert.Equal(t, VariantHeight(width), v.Height)

		f, err := os.Open(v.Path)
		require.NoError(t, err)
		cfg, err := jpeg.DecodeConfig(f)
		_ = f.Close()
		require.NoError(t, err)
		assert.Equal(t, width, cfg.Width)
		assert.Equal(t, VariantHeight(width), cfg.Height)
	}

	assert.Equal(t, "/assets/generated/2026-10-18-the-loom-1600.jpg", res.Variants[0].WebPath)
	assert.Equal(t, "/assets/generated/2026-10-18-the-loom-800.jpg", res.Variants[2].WebPath)
	assert.Equal(t, res.Variants[0].WebPath, res.HeroWebPath)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestSaveWithoutWidths(t *testing.T) {
	assets := t.TempDir()
	saver := &Saver{AssetsRoot: assets, WebPrefix: "/assets"}

	res, err := saver.Save(context.Background(), testPNG(t, 16, 16), assets, "x")
	require.NoError(t, err)
	assert.Empty(t, res.Variants)
	assert.Empty(t, res.HeroWebPath)
}

func TestSaveRejectsUndecodable(t *testing.T) {
	saver := NewSaver(t.TempDir())
	_, err := saver.Save(context.Background(), []byte("not an image"), t.TempDir(), "x")
	assert.ErrorIs(t, err, loomreport.ErrMisuse)
}

func TestCoverCropsTallSource(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 90, 300))
	out := cover(src, 160, 90)
	assert.Equal(t, image.Rect(0, 0, 160, 90), out.Bounds())
}

func TestCoverTinySourceFillsFrame(t *testing.T) {
	for _, size := range []image.Rectangle{image.Rect(0, 0, 1, 1), image.Rect(0, 0, 1, 40), image.Rect(0, 0, 40, 1)} {
		src := image.NewRGBA(size)
		for y := size.Min.Y; y < size.Max.Y; y++ {
			for x := size.Min.X; x < size.Max.X; x++ {
				src.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}

		out := cover(src, 160, 90)
		r, g, b, a := out.At(80, 45).RGBA()
		assert.Equal(t, [4]uint32{0xffff, 0xffff, 0xffff, 0xffff}, [4]uint32{r, g, b, a}, "source %v", size)
	}
}

func TestWriteMetadata(t *testing.T) {
	dir := t.TempDir()
	saver := NewSaver(dir)
	res := &Result{Variants: []Variant{{Width: 1600, WebPath: "/assets/a-1600.jpg"}, {Width: 800, WebPath: "/assets/a-800.jpg"}}}

	path, err := saver.WriteMetadata(dir, "a", res.Sources())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.json"), path)

	var got struct {
		Sources []struct {
			Width int    `json:"width"`
			Src   string `json:"src"`
		} `json:"sources"`
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Sources, 2)
	assert.Equal(t, 1600, got.Sources[0].Width)
	assert.Equal(t, "/assets/a-800.jpg", got.Sources[1].Src)
}
