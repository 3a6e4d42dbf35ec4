package room

const (
	WallUp    = 0x01
	WallDown  = 0x02
	WallLeft  = 0x04
	WallRight = 0x08
)

const (
	Width  = 10
	Height = 8
	Cells  = Width * Height
)

// Template is an indoor wall border. Cells holding Free match whatever floor
// tile the room uses.
type Template struct {
	Flags uint8
	Tiles [Cells]int16
}

const Free int16 = -1

func newTemplate(flags uint8) Template {
	t := Template{Flags: flags}
	for i := range t.Tiles {
		t.Tiles[i] = Free
	}
	for x := 0; x < Width; x++ {
		if flags&WallUp != 0 {
			t.Tiles[x] = 0x21
		}
		if flags&WallDown != 0 {
			t.Tiles[x+7*Width] = 0x22
		}
	}
	for y := 0; y < Height; y++ {
		if flags&WallLeft != 0 {
			t.Tiles[y*Width] = 0x23
		}
		if flags&WallRight != 0 {
			t.Tiles[9+y*Width] = 0x24
		}
	}
	if flags&WallLeft != 0 && flags&WallUp != 0 {
		t.Tiles[0] = 0x25
	}
	if flags&WallRight != 0 && flags&WallUp != 0 {
		t.Tiles[9] = 0x26
	}
	if flags&WallLeft != 0 && flags&WallDown != 0 {
		t.Tiles[7*Width] = 0x27
	}
	if flags&WallRight != 0 && flags&WallDown != 0 {
		t.Tiles[9+7*Width] = 0x28
	}
	return t
}

// Templates is indexed by the high nibble of an indoor floor object.
var Templates = [...]Template{
	newTemplate(WallLeft | WallRight | WallUp | WallDown),
	newTemplate(WallLeft | WallRight | WallDown),
	newTemplate(WallLeft | WallUp | WallDown),
	newTemplate(WallLeft | WallRight | WallUp),
	newTemplate(WallRight | WallUp | WallDown),
	newTemplate(WallLeft | WallDown),
	newTemplate(WallRight | WallDown),
	newTemplate(WallRight | WallUp),
	newTemplate(WallLeft | WallUp),
	newTemplate(0),
}

// Fill returns the template's cells with free cells set to floor.
func (t *Template) Fill(floor uint8) (out [Cells]uint8) {
	for i, v := range t.Tiles {
		if v == Free {
			out[i] = floor
		} else {
			out[i] = uint8(v)
		}
	}
	return
}

// Score counts cells of tiles matching the template filled with floor.
func (t *Template) Score(tiles *[Cells]uint8, floor uint8) int {
	filled := t.Fill(floor)
	score := 0
	for i := range filled {
		if tiles[i] == filled[i] {
			score++
		}
	}
	return score
}
