// Package imageutil produces the resized variants of colorway images.
package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

type Variant struct {
	Name string
	// the image is scaled to fit inside Width x Height
	Width   int
	Height  int
	Quality int
}

var (
	Full  = Variant{Name: "full", Width: 720, Height: 720, Quality: 90}
	Thumb = Variant{Name: "thumb", Width: 250, Height: 250, Quality: 75}
)

var ErrUnknownVariant = errors.New("unknown variant")

func ParseVariant(name string) (Variant, error) {
	switch name {
	case Full.Name:
		return Full, nil
	case Thumb.Name:
		return Thumb, nil
	}
	return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// fit returns the size of a w x h image scaled down to fit inside the
// variant box, keeping the aspect ratio. It never scales up.
func (v Variant) fit(w, h int) (int, int) {
	if w <= v.Width && h <= v.Height {
		return w, h
	}
	scale := min(float64(v.Width)/float64(w), float64(v.Height)/float64(h))
	nw := max(int(float64(w)*scale+0.5), 1)
	nh := max(int(float64(h)*scale+0.5), 1)
	return min(nw, v.Width), min(nh, v.Height)
}

// Resize decodes buf, applies its exif orientation, scales it to fit the
// variant and encodes it as a jpeg.
func Resize(buf []byte, v Variant) ([]byte, error) {
	if v.Width <= 0 || v.Height <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v.Name)
	}

	src, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	src = orient(src, readOrientation(buf))

	bounds := src.Bounds()
	w, h := v.fit(bounds.Dx(), bounds.Dy())

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	}

	var out bytes.Buffer
	err = jpeg.Encode(&out, dst, &jpeg.Options{Quality: v.Quality})
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ResizeFile is Resize over the contents of a file. Failures are logged
// with the offending path and returned.
func ResizeFile(path string, v Variant) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err == nil {
		var out []byte
		out, err = Resize(buf, v)
		if err == nil {
			return out, nil
		}
	}
	slog.Error("unable to resize", "path", path, "variant", v.Name, "err", err)
	return nil, fmt.Errorf("resize %s: %w", path, err)
}
