package termview

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/phanxgames/lunar"
)

// HalfBlocks turns img into terminal rows of "▀" cells: each cell shows two
// vertically stacked pixels, the upper as foreground and the lower as
// background. Pixels are composited over bg first. An odd final row is padded
// with bg.
func HalfBlocks(img *image.RGBA, bg lunar.Color) []string {
	b := img.Bounds()
	bgHex := bg.WithAlpha(1).Hex()
	var rows []string
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		var sb strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			top := flatten(img, x, y, bg)
			bottom := bgHex
			if y+1 < b.Max.Y {
				bottom = flatten(img, x, y+1, bg)
			}
			if top == bgHex && bottom == bgHex {
				sb.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(bgHex)).Render(" "))
				continue
			}
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// flatten composites the premultiplied pixel at (x, y) over an opaque bg and
// returns it as #RRGGBB.
func flatten(img *image.RGBA, x, y int, bg lunar.Color) string {
	off := img.PixOffset(x, y)
	p := img.Pix[off : off+4 : off+4]
	inv := 1 - float64(p[3])/255
	ch := func(v uint8, under float64) uint8 {
		return uint8(min(255, float64(v)+under*255*inv+0.5))
	}
	return fmt.Sprintf("#%02X%02X%02X", ch(p[0], bg.R), ch(p[1], bg.G), ch(p[2], bg.B))
}
