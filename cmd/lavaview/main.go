package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/arena/assets"
	"github.com/milk9111/arena/common"
)

const (
	screenWidth  = 512
	screenHeight = 512
)

// Game previews the lava shader on its own. With -file it compiles from disk
// and recompiles when R is pressed.
type Game struct {
	path    string
	shader  *ebiten.Shader
	err     error
	elapsed float64
	radius  float32
	tint    []float32
}

func NewGame(path string, radius float64) *Game {
	g := &Game{path: path, radius: float32(radius), tint: []float32{0.55, 0.05, 0.02}}
	g.compile()
	return g
}

func (g *Game) compile() {
	var (
		sh  *ebiten.Shader
		err error
	)
	if g.path == "" {
		sh, err = assets.LoadShader("lava.kage")
	} else {
		var src []byte
		if src, err = os.ReadFile(g.path); err == nil {
			sh, err = ebiten.NewShader(src)
		}
	}
	if err != nil {
		log.Printf("lava shader compile error: %v", err)
		g.err = err
		return
	}
	if g.shader != nil {
		g.shader.Deallocate()
	}
	g.shader, g.err = sh, nil
}

func (g *Game) Update() error {
	g.elapsed += common.DeltaTime
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.compile()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.radius += 16
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) && g.radius > 32 {
		g.radius -= 16
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x2c, 0x33, 0x3a, 0xff})

	if g.shader != nil {
		size := int(g.radius*2) + 2
		left := float32(screenWidth-size) / 2
		top := float32(screenHeight-size) / 2
		op := &ebiten.DrawRectShaderOptions{
			Uniforms: map[string]interface{}{
				"Time":   float32(g.elapsed),
				"Center": []float32{screenWidth / 2, screenHeight / 2},
				"Radius": g.radius,
				"Tint":   g.tint,
			},
		}
		op.GeoM.Translate(float64(left), float64(top))
		screen.DrawRectShader(size, size, g.shader, op)
	}

	msg := fmt.Sprintf("t=%.1fs radius=%.0fpx  R recompile  Up/Down resize", g.elapsed, g.radius)
	if g.err != nil {
		msg += "\n" + g.err.Error()
	}
	ebitenutil.DebugPrintAt(screen, msg, 8, 8)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	path := flag.String("file", "", "compile the shader from this path instead of the embedded copy")
	radius := flag.Float64("radius", 160, "pool radius in pixels")
	flag.Parse()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Lava Shader")
	if err := ebiten.RunGame(NewGame(*path, *radius)); err != nil {
		log.Fatal(err)
	}
}
