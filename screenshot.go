package lunar

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EncodePNG writes img as a PNG. The canvas works in premultiplied alpha, so
// the pixels are converted to straight alpha first.
func EncodePNG(w io.Writer, img *image.RGBA) error {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := out.Pix[y*out.Stride:]
		for i := 0; i < 4*b.Dx(); i += 4 {
			r, g, bl, a := src[i], src[i+1], src[i+2], src[i+3]
			if a > 0 && a < 255 {
				r = uint8(min(int(r)*255/int(a), 255))
				g = uint8(min(int(g)*255/int(a), 255))
				bl = uint8(min(int(bl)*255/int(a), 255))
			}
			dst[i], dst[i+1], dst[i+2], dst[i+3] = r, g, bl, a
		}
	}
	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePNG encodes img to a PNG file at path, creating parent directories.
func WritePNG(path string, img *image.RGBA) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// SnapshotName returns a timestamped, file-safe PNG name for label.
func SnapshotName(label string, at time.Time) string {
	return fmt.Sprintf("%s_%s.png", at.Format("20060102_150405"), sanitizeLabel(label))
}

// Snapshot paints the current disc at the widget's device scale and writes it
// to SnapshotDir. It returns the written path.
func (w *Widget) Snapshot(label string) (string, error) {
	img := RenderImage(w.phase, w.discSize, w.scale, w.disc.Config())
	path := filepath.Join(w.SnapshotDir, SnapshotName(label, w.now()))
	if err := WritePNG(path, img); err != nil {
		return "", fmt.Errorf("snapshot %q: %w", label, err)
	}
	return path, nil
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
