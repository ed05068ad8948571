package imageutil

import (
	"image"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// readOrientation returns the exif orientation (1 to 8) of an encoded
// image, 1 when there is none.
func readOrientation(buf []byte) int {
	rawExif, err := exif.SearchAndExtractExif(buf)
	if err != nil || rawExif == nil {
		return 1
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return 1
	}

	for _, entry := range entries {
		if entry.TagName != "Orientation" {
			continue
		}
		if values, ok := entry.Value.([]uint16); ok && len(values) > 0 {
			return validOrientation(int(values[0]))
		}
		formatted := strings.Trim(entry.Formatted, "[] ")
		n, err := strconv.Atoi(formatted)
		if err != nil {
			return 1
		}
		return validOrientation(n)
	}
	return 1
}

func validOrientation(n int) int {
	if n < 1 || n > 8 {
		return 1
	}
	return n
}

// orient returns src transformed so that it displays upright given its
// exif orientation.
func orient(src image.Image, orientation int) image.Image {
	if orientation <= 1 || orientation > 8 {
		return src
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	swap := orientation >= 5

	dw, dh := w, h
	if swap {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			var sx, sy int
			switch orientation {
			case 2:
				sx, sy = w-1-x, y
			case 3:
				sx, sy = w-1-x, h-1-y
			case 4:
				sx, sy = x, h-1-y
			case 5:
				sx, sy = y, x
			case 6:
				sx, sy = y, h-1-x
			case 7:
				sx, sy = w-1-y, h-1-x
			case 8:
				sx, sy = w-1-y, x
			}
			dst.Set(x, y, src.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return dst
}
