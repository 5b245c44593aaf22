// Package gif records matches as animated GIFs, one frame per position. The
// frames are text: whatever the game's State renders as, drawn in a monospace
// face.
package gif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"github.com/vorpal/ponder/game"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var regular *truetype.Font

const (
	dpi             = 144.0
	fontsize        = 12.0
	lineheight      = 1.2
	dummyLongString = `Game Number: 10000, Move: 100`
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

var globPalette = color.Palette{
	color.Gray{0},
	color.Gray{253},
}

// Encoder encodes match positions as frames of an animated GIF. It satisfies
// the ponder.OutputEncoder interface. Set Writer before calling Flush.
type Encoder struct {
	H, W int
	font.Drawer

	out *gif.GIF
	io.Writer
	face font.Face

	maxH, maxW  int
	padH, padW  int // padding so everything don't start at the topleft
	initialized bool
}

// NewGifEncoder with maximum height and width.
func NewGifEncoder(h, w int) *Encoder {
	return &Encoder{
		H:    -1,
		W:    -1,
		maxH: h,
		maxW: w,
		padH: 10,
		padW: 10,

		Drawer: font.Drawer{
			Src: image.Black,
		},
		out: &gif.GIF{LoopCount: -1},
	}
}

// Encode renders one position of the match as a frame.
func (enc *Encoder) Encode(ms game.MetaState) error {
	repr := fmt.Sprintf("%s", ms.State())

	if !enc.initialized {
		// lazy init: the frame is sized to fit the first rendered position
		enc.face = truetype.NewFace(regular, &truetype.Options{
			Size:    fontsize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		enc.Drawer.Src = image.Black
		enc.Drawer.Face = enc.face

		splits := strings.Split(repr, "\n")
		oneline := splits[0]
		maxW := maxInt(font.MeasureString(enc.Face, oneline).Ceil(), font.MeasureString(enc.Face, dummyLongString).Ceil())
		dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
		w := maxW + 2*enc.padW
		h := (len(splits)+3)*dy + 2*enc.padH // + 3 is for the 3 extra lines: game name, move counter, and result

		w = minInt(w, enc.maxW)
		h = minInt(h, enc.maxH)

		if w == enc.maxW {
			enc.padW = 0
		}
		if h == enc.maxH {
			enc.padH = 0
		}

		enc.H = h
		enc.W = w
		enc.initialized = true
	}

	im := image.NewPaletted(image.Rect(0, 0, enc.W, enc.H), globPalette)
	draw.Draw(im, im.Bounds(), image.White, image.ZP, draw.Src)
	enc.Dst = im

	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
	y := enc.padH + dy
	for _, s := range strings.Split(repr, "\n") {
		enc.Dot = fixed.P(enc.padW, y)
		enc.DrawString(s)
		y += dy
	}
	enc.Dot = fixed.P(enc.padW, y)
	enc.DrawString(ms.Name())
	y += dy

	enc.Dot = fixed.P(enc.padW, y)
	enc.DrawString(fmt.Sprintf("Game Number: %d, Move: %d", ms.GameNumber(), ms.MoveNumber()))
	y += dy

	var delay int
	if res := ms.Result(); res != "" {
		delay = 300 // let the final position linger
		enc.Dot = fixed.P(enc.padW, y)
		enc.DrawString(res)
	}
	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, delay)
	return nil
}

// Flush writes the gif into the writer.
func (enc *Encoder) Flush() error {
	if enc.Writer == nil {
		return errors.New("no writer to flush the gif into")
	}
	return errors.Wrap(gif.EncodeAll(enc.Writer, enc.out), "failed to encode the gif")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
