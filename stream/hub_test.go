package stream

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/projectile"
	"github.com/milk9111/arena/projectile/mocks"
	"go.uber.org/mock/gomock"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket server: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) Snapshot {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("Unmarshal %s: %v", data, err)
	}
	return s
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, h.Clients())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_SendsLatestOnConnect(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	if err := h.Publish(Snapshot{Tick: 7}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	conn := dial(t, srv)
	if got := readSnapshot(t, conn); got.Tick != 7 {
		t.Fatalf("expected tick 7, got %d", got.Tick)
	}
}

func TestHub_PublishReachesEveryClient(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	waitClients(t, h, 2)

	want := Snapshot{
		Tick:        3,
		Projectiles: []ProjectileDTO{{ID: 1, State: "in_flight", Position: [3]float64{0, 1.1, 1}}},
	}
	if err := h.Publish(want); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	for name, conn := range map[string]*websocket.Conn{"a": a, "b": b} {
		got := readSnapshot(t, conn)
		if got.Tick != 3 || len(got.Projectiles) != 1 || got.Projectiles[0].ID != 1 {
			t.Fatalf("client %s: unexpected snapshot %+v", name, got)
		}
		if got.Projectiles[0].Position != want.Projectiles[0].Position {
			t.Fatalf("client %s: position %v, want %v", name, got.Projectiles[0].Position, want.Projectiles[0].Position)
		}
	}
}

func TestHub_ForgetsClosedClients(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	conn := dial(t, srv)
	waitClients(t, h, 1)
	conn.Close()
	waitClients(t, h, 0)
}

func TestHub_SlowClientDropsFrames(t *testing.T) {
	h := NewHub()
	c := &client{id: uuid.New(), send: make(chan []byte, 1)}
	h.clients[c.id] = c

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			if err := h.Publish(Snapshot{Tick: uint64(i)}); err != nil {
				t.Errorf("Publish: %v", err)
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Publish blocked on a full client")
	}

	if got := c.dropped.Load(); got != 4 {
		t.Fatalf("expected 4 dropped frames, got %d", got)
	}
	var first Snapshot
	if err := json.Unmarshal(<-c.send, &first); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if first.Tick != 0 {
		t.Fatalf("expected the buffered frame to be tick 0, got %d", first.Tick)
	}
}

func TestHub_CloseRejectsPublish(t *testing.T) {
	h := NewHub()
	h.Close()
	h.Close()
	if err := h.Publish(Snapshot{}); err != ErrHubClosed {
		t.Fatalf("expected ErrHubClosed, got %v", err)
	}
}

func TestCapture(t *testing.T) {
	ctrl := gomock.NewController(t)
	phys := mocks.NewMockPhysics(ctrl)

	w := ecs.NewWorld()
	player := w.CreateEntity()
	if err := ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, player, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{0, 1, 0})); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, player, component.PlayerComponent.Kind(), &component.Player{Yaw: 0.25}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, player, component.HealthComponent.Kind(), &component.Health{Current: 80, Max: 100}); err != nil {
		t.Fatal(err)
	}
	monster := w.CreateEntity()
	if err := ecs.Add(w, monster, component.MonsterTagComponent.Kind(), &component.MonsterTag{}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, monster, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{2, 1, 8})); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, monster, component.AIStateComponent.Kind(), &component.AIState{Current: "chase"}); err != nil {
		t.Fatal(err)
	}

	pose := func() (projectile.Pose, bool) {
		return projectile.Pose{Position: mgl64.Vec3{0, 1, 0}, Rotation: mgl64.QuatIdent()}, true
	}
	l, err := projectile.NewLauncher(projectile.DefaultConfig(), phys, projectile.PlayerFunc(pose), projectile.CaptureFunc(func() bool { return true }))
	if err != nil {
		t.Fatalf("NewLauncher: %v", err)
	}
	phys.EXPECT().CreateBody(gomock.Any()).Return(projectile.BodyHandle(999), nil)
	if _, ok, err := l.Trigger(); err != nil || !ok {
		t.Fatalf("Trigger: ok=%v err=%v", ok, err)
	}

	s := Capture(w, l, 12)
	if s.Tick != 12 {
		t.Fatalf("expected tick 12, got %d", s.Tick)
	}
	if len(s.Projectiles) != 1 {
		t.Fatalf("expected one projectile, got %d", len(s.Projectiles))
	}
	p := s.Projectiles[0]
	if p.ID != 1 || p.State != projectile.StatePending.String() {
		t.Fatalf("unexpected projectile %+v", p)
	}
	if !mgl64.Vec3(p.Position).ApproxEqualThreshold(mgl64.Vec3{0, 1.1, 1}, 1e-9) {
		t.Fatalf("expected spawn position, got %v", p.Position)
	}
	if !mgl64.Vec3(p.Velocity).ApproxEqualThreshold(mgl64.Vec3{0, 0, 30}, 1e-9) {
		t.Fatalf("expected cached launch velocity, got %v", p.Velocity)
	}

	if s.Player == nil || s.Player.Health != 80 || s.Player.Yaw != 0.25 {
		t.Fatalf("unexpected player pose %+v", s.Player)
	}
	if s.Monster == nil || s.Monster.State != "chase" || s.Monster.Position != [3]float64{2, 1, 8} {
		t.Fatalf("unexpected monster pose %+v", s.Monster)
	}
}

func TestCapture_NilInputs(t *testing.T) {
	s := Capture(nil, nil, 1)
	if s.Projectiles == nil || len(s.Projectiles) != 0 {
		t.Fatalf("expected empty projectile list, got %v", s.Projectiles)
	}
	if s.Player != nil || s.Monster != nil {
		t.Fatalf("expected no poses, got %+v", s)
	}
}
