package workflow

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/eringen/loomreport"
)

// ErrNoContent is returned by Moderate for blank input.
var ErrNoContent = loomreport.Errorf(loomreport.KindMisuse, "", "No content provided to moderate.")

// ModerationStatus is printed when content passes the gate.
type ModerationStatus struct {
	Status     string   `json:"status"`
	Categories []string `json:"categories"`
}

// Moderate runs input through the gate. Blank input is a misuse error.
func Moderate(ctx context.Context, gate Moderator, input, label string) (*ModerationStatus, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrNoContent
	}
	res, err := gate.AssertSafe(ctx, input, label)
	if err != nil {
		return nil, err
	}
	categories := []string{}
	if res != nil && res.Categories != nil {
		categories = res.Categories
	}
	return &ModerationStatus{Status: "ok", Categories: categories}, nil
}

// OptimizedSource is one variant in an optimize status.
type OptimizedSource struct {
	Width int    `json:"width"`
	Src   string `json:"src"`
}

// OptimizeStatus is printed after optimize-image.
type OptimizeStatus struct {
	Status   string            `json:"status"`
	Hero     string            `json:"hero"`
	Variants []OptimizedSource `json:"variants"`
}

// OptimizeImage writes responsive variants of the image at path into
// outputDir, named after the file without its extension.
func OptimizeImage(ctx context.Context, saver VariantSaver, path, outputDir string) (*OptimizeStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, loomreport.NewError(loomreport.KindFilesystem, "read "+path, err)
	}
	name := filepath.Base(path)
	baseName := strings.TrimSuffix(name, filepath.Ext(name))

	res, err := saver.Save(ctx, data, outputDir, baseName)
	if err != nil {
		return nil, err
	}
	variants := make([]OptimizedSource, 0, len(res.Variants))
	for _, v := range res.Variants {
		variants = append(variants, OptimizedSource{Width: v.Width, Src: v.WebPath})
	}
	return &OptimizeStatus{Status: "optimized", Hero: res.HeroWebPath, Variants: variants}, nil
}
