// Package overlay renders the images the locker shows: a padlock while idle and a status disc
// while typing or after a failed attempt.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"github.com/MatthiasKunnen/slock/pkg/display"
)

const (
	// LogoSize is the edge length of the idle padlock image.
	LogoSize = 192
	// InfoSize is the edge length of the typing and error images.
	InfoSize = 96
	// InfoMargin is the gap between the status image and the bottom of the window.
	InfoMargin = 30
)

// Colors holds 0xRRGGBB values.
type Colors struct {
	Background uint32
	Idle       uint32
	Typing     uint32
	Error      uint32
}

// Set is the immutable trio of images shared by every screen.
type Set struct {
	Idle   *display.Image
	Typing *display.Image
	Error  *display.Image
}

// Render draws all images for the given colors.
func Render(c Colors) (*Set, error) {
	if c.Idle == c.Background || c.Typing == c.Background || c.Error == c.Background {
		return nil, fmt.Errorf("overlay colors must differ from the background %06x", c.Background)
	}

	return &Set{
		Idle:   pack(padlock(LogoSize, rgb(c.Background), rgb(c.Idle))),
		Typing: pack(disc(InfoSize, rgb(c.Background), rgb(c.Typing))),
		Error:  pack(disc(InfoSize, rgb(c.Background), rgb(c.Error))),
	}, nil
}

// LogoOrigin returns where the idle image is drawn: centered in the window.
func LogoOrigin(width, height int) (int, int) {
	return (width - LogoSize) / 2, (height - LogoSize) / 2
}

// InfoOrigin returns where the typing and error images are drawn: horizontally centered,
// InfoMargin above the bottom edge.
func InfoOrigin(width, height int) (int, int) {
	return (width - InfoSize) / 2, height - InfoSize - InfoMargin
}

func rgb(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func fill(size int, bg color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}

	return img
}

func disc(size int, bg, fg color.RGBA) *image.RGBA {
	img := fill(size, bg)
	c := float64(size-1) / 2
	r := float64(size)/2 - 4
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, fg)
			}
		}
	}

	return img
}

// padlock draws a shackle ring over a body with a keyhole.
func padlock(size int, bg, fg color.RGBA) *image.RGBA {
	img := fill(size, bg)
	s := float64(size)

	bodyTop, bodyBottom := int(s*0.45), int(s*0.85)
	bodyLeft, bodyRight := int(s*0.22), int(s*0.78)
	for y := bodyTop; y < bodyBottom; y++ {
		for x := bodyLeft; x < bodyRight; x++ {
			img.SetRGBA(x, y, fg)
		}
	}

	cx, cy := s/2, s*0.45
	outer, inner := s*0.22, s*0.14
	for y := 0; y < bodyTop; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			d := dx*dx + dy*dy
			if d <= outer*outer && d >= inner*inner {
				img.SetRGBA(x, y, fg)
			}
		}
	}

	kx, ky, kr := s/2, s*0.62, s*0.05
	for y := bodyTop; y < bodyBottom; y++ {
		for x := bodyLeft; x < bodyRight; x++ {
			dx, dy := float64(x)-kx, float64(y)-ky
			if dx*dx+dy*dy <= kr*kr || (dx*dx <= (kr/2)*(kr/2) && dy >= 0 && dy <= kr*2.5) {
				img.SetRGBA(x, y, bg)
			}
		}
	}

	return img
}

// pack converts img to 32-bit ZPixmap data in BGRX order.
func pack(img *image.RGBA) *display.Image {
	b := img.Bounds()
	data := make([]byte, 0, b.Dx()*b.Dy()*4)
	for i := 0; i < len(img.Pix); i += 4 {
		data = append(data, img.Pix[i+2], img.Pix[i+1], img.Pix[i], 0)
	}

	return &display.Image{Width: b.Dx(), Height: b.Dy(), Data: data}
}
