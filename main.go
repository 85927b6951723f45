package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/stream"
	"golang.org/x/sync/errgroup"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging and the physics overlay")
	horizontal := flag.Bool("horizontal", false, "keep shots level with the floor regardless of pitch")
	streamAddr := flag.String("stream", "", "serve the spectator websocket on this address, e.g. :8080")
	seed := flag.Uint64("seed", 1, "seed for crate and monster placement (0 picks one at random)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("arena")
	ebiten.SetTPS(common.TPS)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	group, ctx := errgroup.WithContext(ctx)

	var hub *stream.Hub
	if *streamAddr != "" {
		hub = stream.NewHub()
		group.Go(func() error {
			err := stream.ListenAndServe(ctx, *streamAddr, hub)
			if err != nil {
				log.Printf("stream: %v", err)
			}
			return err
		})
	}

	game, err := NewGame(gameOptions{
		debug:      *debug,
		horizontal: *horizontal,
		seed:       *seed,
		hub:        hub,
	})
	if err != nil {
		log.Fatal(err)
	}

	runErr := ebiten.RunGame(game)
	game.Close()
	cancel()
	if err := group.Wait(); err != nil {
		log.Printf("stream: shutdown: %v", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
