package tileset

import (
	"fmt"
	"image"
	"image/color"

	"roomedit/room"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

const (
	RoomWidth  = room.Width * 16
	RoomHeight = room.Height * 16
)

// Preview composes a room picture from its tile grid, code n being the
// metatile at (n%16*16, n/16*16) of ts.
func Preview(tiles *[room.Cells]uint8, ts image.Image) *image.NRGBA {
	g := image.NewNRGBA(image.Rect(0, 0, RoomWidth, RoomHeight))
	o := ts.Bounds().Min
	for n, code := range tiles {
		x, y := (n%room.Width)*16, (n/room.Width)*16
		sp := image.Pt(o.X+int(code&15)*16, o.Y+int(code>>4)*16)
		draw.Draw(g, image.Rect(x, y, x+16, y+16), ts, sp, draw.Src)
	}
	return g
}

// Atlas places overworld room previews on a 16x16 grid. Missing rooms are
// left black. With labels each room gets its number in the top-left corner.
func Atlas(rooms map[room.ID]image.Image, labels bool) *image.NRGBA {
	all := image.NewNRGBA(image.Rect(0, 0, 16*RoomWidth, 16*RoomHeight))
	// clear the image and remove alpha layer
	draw.Draw(
		all,
		all.Bounds(),
		image.NewUniform(color.NRGBA{0, 0, 0, 255}),
		image.Point{},
		draw.Src)

	yellow := image.NewUniform(color.RGBA{255, 255, 0, 255})

	for id := room.ID(0); id < room.FirstIndoor; id++ {
		stx := int(id&15) * RoomWidth
		sty := int(id>>4) * RoomHeight

		if g, ok := rooms[id]; ok && g != nil {
			draw.Draw(
				all,
				image.Rect(stx, sty, stx+RoomWidth, sty+RoomHeight),
				g,
				g.Bounds().Min,
				draw.Src,
			)
		}
		if labels {
			drawShadowedString(all, yellow, fixed.Point26_6{X: fixed.I(stx + 4), Y: fixed.I(sty + 4 + 12)}, fmt.Sprintf("%02X", uint16(id)))
		}
	}
	return all
}

func drawShadowedString(g draw.Image, clr image.Image, dot fixed.Point26_6, s string) {
	// shadow:
	for oy := -1; oy <= 1; oy++ {
		for ox := -1; ox <= 1; ox++ {
			(&font.Drawer{
				Dst:  g,
				Src:  image.Black,
				Face: inconsolata.Bold8x16,
				Dot:  fixed.Point26_6{X: dot.X + fixed.I(ox), Y: dot.Y + fixed.I(oy)},
			}).DrawString(s)
		}
	}

	// regular label:
	(&font.Drawer{
		Dst:  g,
		Src:  clr,
		Face: inconsolata.Bold8x16,
		Dot:  dot,
	}).DrawString(s)
}
