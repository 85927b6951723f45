package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

var images = map[string]*ebiten.Image{}

const pixelKey = "pixel"

// RegisterImage stores an image by key.
func RegisterImage(key string, img *ebiten.Image) {
	if key == "" || img == nil {
		return
	}
	images[key] = img
}

// GetImage returns a cached image by key.
func GetImage(key string) *ebiten.Image {
	if key == "" {
		return nil
	}
	return images[key]
}

// pixel is a 1x1 white image scaled and tinted into quads.
func pixel() *ebiten.Image {
	if img := GetImage(pixelKey); img != nil {
		return img
	}
	img := ebiten.NewImage(1, 1)
	img.Fill(color.White)
	RegisterImage(pixelKey, img)
	return img
}
