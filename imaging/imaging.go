// Package imaging turns one raw illustration into the responsive set the
// site serves: a lossless original plus 16:9 cover-cropped variants.
package imaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/loomreport"
)

const (
	jpegQuality   = 85
	defaultPrefix = "/assets"
)

// DefaultWidths are the variant widths, largest first.
var DefaultWidths = []int{1600, 1200, 800}

// Variant is one resized copy.
type Variant struct {
	Width   int
	Height  int
	Path    string
	WebPath string
}

// Result describes the files written by Save.
type Result struct {
	OriginalPath string
	Variants     []Variant
	// HeroWebPath is the first variant's web path, or "" without variants.
	HeroWebPath string
}

// Sources returns the variants as frontmatter hero sources.
func (r *Result) Sources() []loomreport.HeroSource {
	out := make([]loomreport.HeroSource, 0, len(r.Variants))
	for _, v := range r.Variants {
		out = append(out, loomreport.HeroSource{Width: v.Width, Src: v.WebPath})
	}
	return out
}

// Saver writes image variants below AssetsRoot.
type Saver struct {
	Widths     []int
	AssetsRoot string
	WebPrefix  string
}

// NewSaver returns a Saver with the default widths.
func NewSaver(assetsRoot string) *Saver {
	return &Saver{
		Widths:     append([]int(nil), DefaultWidths...),
		AssetsRoot: assetsRoot,
		WebPrefix:  defaultPrefix,
	}
}

// VariantHeight is the 16:9 height for width.
func VariantHeight(width int) int {
	return int(math.Round(float64(width) * 9 / 16))
}

// Save decodes data and writes <baseName>-original.png and one
// <baseName>-<width>.jpg per configured width into outputDir. Variants are
// encoded concurrently; the result keeps the configured width order.
func (s *Saver) Save(ctx context.Context, data []byte, outputDir, baseName string) (*Result, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, loomreport.NewError(loomreport.KindMisuse, "decode image", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, loomreport.NewError(loomreport.KindFilesystem, "create image dir", err)
	}

	originalPath := filepath.Join(outputDir, baseName+"-original.png")
	if err := writePNG(originalPath, src); err != nil {
		return nil, loomreport.NewError(loomreport.KindFilesystem, "write original image", err)
	}

	variants := make([]Variant, len(s.Widths))
	g, ctx := errgroup.WithContext(ctx)
	for i, width := range s.Widths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			height := VariantHeight(width)
			path := filepath.Join(outputDir, fmt.Sprintf("%s-%d.jpg", baseName, width))
			if err := writeJPEG(path, cover(src, width, height)); err != nil {
				return fmt.Errorf("write %dpx variant: %w", width, err)
			}
			webPath, err := s.webPath(path)
			if err != nil {
				return err
			}
			variants[i] = Variant{Width: width, Height: height, Path: path, WebPath: webPath}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, loomreport.NewError(loomreport.KindFilesystem, "save image variants", err)
	}

	res := &Result{OriginalPath: originalPath, Variants: variants}
	if len(variants) > 0 {
		res.HeroWebPath = variants[0].WebPath
	}
	return res, nil
}

// WriteMetadata writes <baseName>.json listing the responsive sources.
func (s *Saver) WriteMetadata(outputDir, baseName string, sources []loomreport.HeroSource) (string, error) {
	type source struct {
		Width int    `json:"width"`
		Src   string `json:"src"`
	}
	payload := struct {
		Sources []source `json:"sources"`
	}{Sources: make([]source, 0, len(sources))}
	for _, src := range sources {
		payload.Sources = append(payload.Sources, source{Width: src.Width, Src: src.Src})
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, baseName+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", loomreport.NewError(loomreport.KindFilesystem, "write image metadata", err)
	}
	return path, nil
}

// webPath maps a file below AssetsRoot to its public URL path.
func (s *Saver) webPath(path string) (string, error) {
	root, err := filepath.Abs(s.AssetsRoot)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	prefix := strings.TrimRight(s.WebPrefix, "/")
	return prefix + "/" + filepath.ToSlash(rel), nil
}

// cover scales src to fill width x height, cropping the centre.
func cover(src image.Image, width, height int) image.Image {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()

	var crop image.Rectangle
	if sw*height > sh*width {
		cw := max(sh*width/height, 1)
		x0 := b.Min.X + (sw-cw)/2
		crop = image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	} else {
		ch := max(sw*height/width, 1)
		y0 := b.Min.Y + (sh-ch)/2
		crop = image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func writeJPEG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
