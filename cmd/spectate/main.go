package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/milk9111/arena/stream"
)

func main() {
	addr := flag.String("addr", "ws://localhost:8080/ws", "spectator websocket url")
	limit := flag.Int("n", 0, "stop after this many snapshots (0 runs until interrupted)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, *addr, nil)
	if err != nil {
		log.Fatalf("spectate: dial %s: %v", *addr, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}()

	for n := 0; *limit == 0 || n < *limit; n++ {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("spectate: read: %v", err)
			}
			return
		}
		var s stream.Snapshot
		if err := json.Unmarshal(data, &s); err != nil {
			log.Printf("spectate: decode: %v", err)
			continue
		}
		fmt.Println(format(s))
	}
}

func format(s stream.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "tick %d", s.Tick)
	if s.Player != nil {
		fmt.Fprintf(&b, "  player (%.1f, %.1f) hp %d", s.Player.Position[0], s.Player.Position[2], s.Player.Health)
	}
	if s.Monster != nil {
		fmt.Fprintf(&b, "  monster %s (%.1f, %.1f) hp %d", s.Monster.State, s.Monster.Position[0], s.Monster.Position[2], s.Monster.Health)
	}
	fmt.Fprintf(&b, "  shots %d", len(s.Projectiles))
	for _, p := range s.Projectiles {
		fmt.Fprintf(&b, "\n  #%d %s age %.2f at (%.2f, %.2f, %.2f)", p.ID, p.State, p.Age, p.Position[0], p.Position[1], p.Position[2])
	}
	return b.String()
}
