package tray

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"traydock/service"
)

// ErrUnknownIcon is returned for icon data that is neither PNG nor a
// single-image 32bpp ICO
var ErrUnknownIcon = errors.New("unrecognized icon format")

var (
	badgeRed  = color.NRGBA{R: 0xFF, G: 0x3B, B: 0x30, A: 0xFF}
	badgeRing = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// WriteBadgeIcon derives the unread icon from the default icon in
// resourceDir and writes it next to it. It returns the written path.
func WriteBadgeIcon(resourceDir string) (string, error) {
	img, err := decodeIcon(DefaultIcon(resourceDir))
	if err != nil {
		return "", err
	}
	drawBadgeDot(img)

	name := service.BadgeIconName()
	var out []byte
	if strings.HasSuffix(name, ".ico") {
		out, err = iconToICO(img)
	} else {
		var buf bytes.Buffer
		err = png.Encode(&buf, img)
		out = buf.Bytes()
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(resourceDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create resource dir: %w", err)
	}
	path := filepath.Join(resourceDir, name)
	if err := os.WriteFile(path, out, 0644); err != nil {
		return "", fmt.Errorf("failed to write badge icon: %w", err)
	}
	return path, nil
}

// drawBadgeDot puts a red dot with a white ring in the top-right corner,
// the dot spanning 30% of the icon width
func drawBadgeDot(img *image.NRGBA) {
	w := img.Bounds().Dx()
	r := float64(w) * 0.15
	ring := r + max(1, float64(w)/32)
	cx, cy := float64(w)-r, r

	fillDisk(img, cx, cy, ring, badgeRing)
	fillDisk(img, cx, cy, r, badgeRed)
}

func fillDisk(img *image.NRGBA, cx, cy, r float64, c color.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

// decodeIcon reads PNG data or the ICO layout encodeICO produces
func decodeIcon(data []byte) (*image.NRGBA, error) {
	if src, err := png.Decode(bytes.NewReader(data)); err == nil {
		img := image.NewNRGBA(src.Bounds())
		draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
		return img, nil
	}

	const pixelOffset = 6 + 16 + 40
	le := binary.LittleEndian
	if len(data) < pixelOffset || le.Uint16(data[2:4]) != 1 || le.Uint16(data[4:6]) != 1 {
		return nil, ErrUnknownIcon
	}
	size := int(data[6])
	if size == 0 || le.Uint16(data[12:14]) != 32 || len(data) < pixelOffset+size*size*4 {
		return nil, ErrUnknownIcon
	}

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		row := data[pixelOffset+(size-1-y)*size*4:]
		for x := 0; x < size; x++ {
			p := row[x*4 : x*4+4]
			img.SetNRGBA(x, y, color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]})
		}
	}
	return img, nil
}

func iconToICO(img *image.NRGBA) ([]byte, error) {
	size := img.Bounds().Dx()
	if size != img.Bounds().Dy() || size > 255 {
		return nil, fmt.Errorf("icon must be square and at most 255px, got %v", img.Bounds().Size())
	}
	pixels := make([][4]byte, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := img.NRGBAAt(img.Bounds().Min.X+x, img.Bounds().Min.Y+y)
			pixels[y*size+x] = [4]byte{c.B, c.G, c.R, c.A}
		}
	}
	return encodeICO(size, pixels), nil
}
