package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/projectile"
	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

const controlsHelp = "WASD move   Shift run   Space jump   Mouse look\nF / click fire   R clear shots   Esc release pointer"

var (
	menuWhite = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	menuGrey  = color.NRGBA{R: 0xbb, G: 0xbb, B: 0xbb, A: 0xff}
)

func aimLabel(mode projectile.AimMode) string {
	return fmt.Sprintf("Aim: %s", mode)
}

// NewPauseUI builds the menu shown while the pointer is released. Resume
// recaptures the pointer; the other buttons act on the launcher.
func NewPauseUI(g *Game) *ebitenui.UI {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	centered := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	label := func(s string, c color.Color) *widget.Text {
		return widget.NewText(widget.TextOpts.Text(s, &face, c), widget.TextOpts.WidgetOpts(centered))
	}
	button := func(s string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{
				Idle:    imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}),
				Hover:   imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255}),
				Pressed: imageui.NewNineSliceColor(color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 255}),
			}),
			widget.ButtonOpts.Text(s, &face, &widget.ButtonTextColor{Idle: menuWhite}),
			widget.ButtonOpts.TextPadding(&widget.Insets{Left: 12, Right: 12, Top: 4, Bottom: 4}),
			widget.ButtonOpts.WidgetOpts(centered),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) { onClick() }),
		)
	}

	aim := label(aimLabel(g.shots.Launcher().Config().Mode), menuGrey)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(color.NRGBA{A: 200})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/3, common.BaseHeight/4),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)
	panel.AddChild(
		label("Pointer released", menuWhite),
		label(controlsHelp, menuGrey),
		aim,
		button("Resume", g.input.Capture),
		button("Toggle aim", func() { aim.Label = aimLabel(g.toggleAimMode()) }),
		button("Clear shots", func() {
			if n := g.shots.Launcher().Clear(); n > 0 {
				log.Printf("projectile: cleared %d projectiles from menu", n)
			}
		}),
	)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}
