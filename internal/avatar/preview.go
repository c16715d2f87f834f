package avatar

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
)

// Preview renders img as cols terminal cells wide using upper half blocks:
// each cell shows two vertically stacked pixels.
func Preview(img image.Image, cols int) string {
	if img == nil || cols <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}
	rows := max(1, b.Dy()*cols/b.Dx()/2)
	small := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), img, b, xdraw.Src, nil)

	var sb strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			top := hex(small.At(x, y*2))
			bottom := hex(small.At(x, y*2+1))
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom))
			sb.WriteString(cell.Render("▀"))
		}
	}
	return sb.String()
}

// PreviewDataURL decodes dataURL and renders it with Preview.
func PreviewDataURL(dataURL string, cols int) (string, error) {
	img, _, err := Decode(dataURL)
	if err != nil {
		return "", err
	}
	return Preview(img, cols), nil
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
