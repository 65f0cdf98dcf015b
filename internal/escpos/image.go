package escpos

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

const grayThreshold = 128

// rasterize converts an image file into a GS v 0 raster block, scaling down
// anything wider than maxDots and thresholding gray to monochrome.
func rasterize(path string, maxDots int) ([]byte, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}

	if img.Bounds().Dx() > maxDots {
		img = imaging.Resize(img, maxDots, 0, imaging.Lanczos)
	}
	gray := imaging.Grayscale(img)

	return encodeRaster(gray), nil
}

func encodeRaster(img image.Image) []byte {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	bytesPerRow := (width + 7) / 8

	var out bytes.Buffer
	out.Write([]byte{
		0x1d, 0x76, 0x30, 0x00,
		byte(bytesPerRow & 0xff), byte(bytesPerRow >> 8),
		byte(height & 0xff), byte(height >> 8),
	})

	row := make([]byte, bytesPerRow)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for i := range row {
			row[i] = 0
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// Luma on 16-bit channels, scaled back to 8 bits.
			luma := (299*r + 587*g + 114*b) / 1000 >> 8
			if luma < grayThreshold {
				col := x - bounds.Min.X
				row[col/8] |= 0x80 >> uint(col%8)
			}
		}
		out.Write(row)
	}
	out.WriteByte('\n')

	return out.Bytes()
}
