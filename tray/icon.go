package tray

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"
)

const iconSize = 16

// IconName returns the file name of the tray icon for this platform
func IconName() string {
	if runtime.GOOS == "windows" {
		return "icon.ico"
	}
	return "icon.png"
}

// DefaultIcon loads the tray icon from resourceDir, falling back to the
// generated one
func DefaultIcon(resourceDir string) []byte {
	if resourceDir != "" {
		path := filepath.Join(resourceDir, IconName())
		data, err := os.ReadFile(path)
		if err == nil && len(data) > 0 {
			return data
		}
		log.Debug().Err(err).Str("path", path).Msg("Tray icon not found, using generated icon")
	}
	return getIcon()
}

// getIcon returns a valid ICO icon for the system tray (Windows needs ICO format)
func getIcon() []byte {
	return createTerminalICO()
}

// createTerminalICO draws a 16x16 terminal window with a prompt
func createTerminalICO() []byte {
	return encodeICO(iconSize, terminalPixels())
}

func terminalPixels() [][4]byte {
	// BGRA, rows from the top; encodeICO flips them
	pixels := make([][4]byte, iconSize*iconSize)

	frame := [4]byte{90, 90, 90, 255}
	screen := [4]byte{30, 30, 30, 255}
	prompt := [4]byte{80, 220, 120, 255}
	titleBar := [4]byte{140, 140, 140, 255}

	set := func(x, y int, c [4]byte) {
		if x >= 0 && x < iconSize && y >= 0 && y < iconSize {
			pixels[y*iconSize+x] = c
		}
	}

	for y := 1; y < 15; y++ {
		for x := 0; x < iconSize; x++ {
			set(x, y, frame)
		}
	}
	for y := 4; y < 14; y++ {
		for x := 1; x < 15; x++ {
			set(x, y, screen)
		}
	}
	for x := 1; x < 15; x++ {
		set(x, 2, titleBar)
	}

	// ">"
	for i := 0; i < 3; i++ {
		set(3+i, 6+i, prompt)
		set(3+i, 10-i, prompt)
	}
	// "_"
	for x := 7; x < 12; x++ {
		set(x, 11, prompt)
	}

	return pixels
}

// encodeICO creates a single-image 32bpp ICO file from top-down BGRA pixels
func encodeICO(size int, pixels [][4]byte) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian

	// ICONDIR
	binary.Write(&buf, le, uint16(0)) // reserved
	binary.Write(&buf, le, uint16(1)) // type: icon
	binary.Write(&buf, le, uint16(1)) // image count

	const headerSize = 40
	pixelDataSize := size * size * 4
	andRowSize := ((size + 31) / 32) * 4
	andMaskSize := andRowSize * size
	imageSize := headerSize + pixelDataSize + andMaskSize
	imageOffset := 6 + 16

	// ICONDIRENTRY
	buf.WriteByte(byte(size))
	buf.WriteByte(byte(size))
	buf.WriteByte(0) // no palette
	buf.WriteByte(0)
	binary.Write(&buf, le, uint16(1))  // planes
	binary.Write(&buf, le, uint16(32)) // bits per pixel
	binary.Write(&buf, le, uint32(imageSize))
	binary.Write(&buf, le, uint32(imageOffset))

	// BITMAPINFOHEADER; height covers the XOR and AND masks
	binary.Write(&buf, le, uint32(headerSize))
	binary.Write(&buf, le, int32(size))
	binary.Write(&buf, le, int32(size*2))
	binary.Write(&buf, le, uint16(1))
	binary.Write(&buf, le, uint16(32))
	binary.Write(&buf, le, uint32(0))
	binary.Write(&buf, le, uint32(pixelDataSize+andMaskSize))
	binary.Write(&buf, le, int32(0))
	binary.Write(&buf, le, int32(0))
	binary.Write(&buf, le, uint32(0))
	binary.Write(&buf, le, uint32(0))

	for y := size - 1; y >= 0; y-- {
		for x := 0; x < size; x++ {
			buf.Write(pixels[y*size+x][:])
		}
	}

	// AND mask all zero; alpha carries transparency
	buf.Write(make([]byte, andMaskSize))

	return buf.Bytes()
}
