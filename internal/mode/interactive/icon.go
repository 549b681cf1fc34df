// ABOUTME: App icon decoding and half-block ANSI rendering for the detail page
// ABOUTME: Accepts PNG, JPEG, GIF, and WebP; scales with x/image/draw

package interactive

import (
	"bytes"
	"fmt"
	goimage "image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// iconCols is the rendered icon width in cells; it is square in pixels, so
// it spans iconCols/2 rows.
const iconCols = 16

// decodeIcon renders raw icon bytes as half-block lines.
func decodeIcon(data []byte, cols int) ([]string, error) {
	img, _, err := goimage.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding icon: %w", err)
	}
	return renderHalfBlock(img, cols), nil
}

// renderHalfBlock converts an image to ANSI art using the lower-half block
// character. For every 2 rows of pixels the background is the top pixel and
// the foreground the bottom one. The image is scaled to exactly cols wide.
func renderHalfBlock(img goimage.Image, cols int) []string {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 || cols <= 0 {
		return nil
	}

	targetW := cols
	targetH := max(srcH*cols/srcW, 1)

	var scaled goimage.Image = img
	if targetW != srcW || targetH != srcH {
		dst := goimage.NewRGBA(goimage.Rect(0, 0, targetW, targetH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		scaled = dst
	}
	origin := scaled.Bounds().Min

	var lines []string
	for y := 0; y < targetH; y += 2 {
		var b strings.Builder
		for x := range targetW {
			topR, topG, topB := rgbAt(scaled, origin.X+x, origin.Y+y)
			var botR, botG, botB uint8
			if y+1 < targetH {
				botR, botG, botB = rgbAt(scaled, origin.X+x, origin.Y+y+1)
			}
			fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm\x1b[38;2;%d;%d;%dm▄",
				topR, topG, topB, botR, botG, botB)
		}
		b.WriteString("\x1b[0m")
		lines = append(lines, b.String())
	}
	return lines
}

func rgbAt(img goimage.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}
