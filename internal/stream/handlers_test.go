package stream

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/son-changwook/routepick/internal/contract"

	"github.com/gofiber/fiber/v2"
	fws "github.com/gofiber/websocket/v2"
	"github.com/gorilla/websocket"
)

func jsonUnmarshal(s string, v any) error { return json.Unmarshal([]byte(s), v) }

func listen(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "ws://" + ln.Addr().String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met")
}

func TestStreamHandlersUpgradeRequired(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, NewHub(nil))

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Fatalf("expected 426 for non-websocket request, got %d", resp.StatusCode)
	}
}

func TestStreamHandlersGuardRuns(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, NewHub(nil), func(c *fiber.Ctx) error {
		return fiber.ErrUnauthorized
	})
	base := listen(t, app)
	_, resp, err := websocket.DefaultDialer.Dial(base+"/ws", nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 from guard")
	}
}

func TestStreamHandlersTopicFilter(t *testing.T) {
	hub := NewHub(nil)
	hub.PingInterval = 0
	app := fiber.New()
	RegisterRoutes(app, hub)
	base := listen(t, app)

	conn, _, err := websocket.DefaultDialer.Dial(base+"/ws?topics=ROUTE_UPDATE", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return hub.Subscribers("ROUTE_UPDATE") == 1 })

	hub.Broadcast("PAYMENT_UPDATE", []byte(`{"type":"PAYMENT_UPDATE"}`))
	hub.Broadcast("ROUTE_UPDATE", []byte(`{"type":"ROUTE_UPDATE"}`))
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(msg) != `{"type":"ROUTE_UPDATE"}` {
		t.Fatalf("unexpected message %s", msg)
	}

	conn.Close()
	waitFor(t, func() bool { return hub.Subscribers("ROUTE_UPDATE") == 0 })
}

func TestParseTopics(t *testing.T) {
	cases := map[string][]string{
		"":                                          {AllTopics},
		" , ":                                       {AllTopics},
		"ROUTE_UPDATE":                              {"ROUTE_UPDATE"},
		"ROUTE_UPDATE, PAYMENT_UPDATE,ROUTE_UPDATE": {"ROUTE_UPDATE", "PAYMENT_UPDATE"},
		"*,ROUTE_UPDATE":                            {AllTopics},
		"ROUTE_UPDATE,*":                            {AllTopics},
	}
	for raw, want := range cases {
		got := parseTopics(raw)
		if len(got) != len(want) {
			t.Fatalf("%q: got %v want %v", raw, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%q: got %v want %v", raw, got, want)
			}
		}
	}
}

func TestStreamHandlersWildcardDeliversOnce(t *testing.T) {
	hub := NewHub(nil)
	hub.PingInterval = 0
	app := fiber.New()
	RegisterRoutes(app, hub)
	base := listen(t, app)

	conn, _, err := websocket.DefaultDialer.Dial(base+"/ws?topics=*,ROUTE_UPDATE,ROUTE_UPDATE", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return hub.Subscribers(AllTopics) == 1 })
	if n := hub.Subscribers("ROUTE_UPDATE"); n != 0 {
		t.Fatalf("expected only the wildcard subscription, got %d route subscribers", n)
	}

	hub.Broadcast("ROUTE_UPDATE", []byte(`{"type":"ROUTE_UPDATE"}`))
	hub.Broadcast("PAYMENT_UPDATE", []byte(`{"type":"PAYMENT_UPDATE"}`))
	for _, want := range []string{`{"type":"ROUTE_UPDATE"}`, `{"type":"PAYMENT_UPDATE"}`} {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read error: %v", err)
		}
		if string(msg) != want {
			t.Fatalf("got %s, want %s", msg, want)
		}
	}
}

func TestStreamHandlersSendPing(t *testing.T) {
	hub := NewHub(nil)
	hub.PingInterval = 20 * time.Millisecond
	app := fiber.New()
	RegisterRoutes(app, hub)
	base := listen(t, app)

	conn, _, err := websocket.DefaultDialer.Dial(base+"/ws", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg contract.WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read error: %v", err)
	}
	if msg.Type != TypePing {
		t.Fatalf("expected PING, got %s", msg.Type)
	}
}

func TestClientAnswersPingAndFeedsHub(t *testing.T) {
	server := NewHub(nil)
	server.PingInterval = 0
	app := fiber.New()
	RegisterRoutes(app, server, func(c *fiber.Ctx) error {
		if c.Get("Authorization") != "Bearer tok" {
			return fiber.ErrUnauthorized
		}
		return c.Next()
	})
	base := listen(t, app)

	local := NewHub(nil)
	sub := local.Register("ROUTE_UPDATE")
	defer local.Unregister(sub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := NewClient(base, local, func(context.Context) (string, error) { return "tok", nil })
	var connects atomic.Int32
	client.OnConnect = func() { connects.Add(1) }
	go func() { _ = client.Run(ctx) }()

	waitFor(t, func() bool { return server.Subscribers(AllTopics) == 1 })
	ping, _ := json.Marshal(contract.WSMessage{Type: TypePing})
	server.Broadcast("SYSTEM_ALERT", ping)
	update, _ := contract.NewWSMessage(string(contract.UpdateRoute), map[string]int{"routeId": 3})
	if err := server.Publish(update); err != nil {
		t.Fatalf("publish: %v", err)
	}

	msg, ok := recv(t, sub, time.Second)
	if !ok {
		t.Fatalf("client did not feed the hub")
	}
	var got contract.WSMessage
	if err := jsonUnmarshal(msg, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	u, err := got.Update()
	if err != nil || u.Type != contract.UpdateRoute {
		t.Fatalf("unexpected update %+v %v", u, err)
	}
	if connects.Load() != 1 {
		t.Fatalf("expected one connection, got %d", connects.Load())
	}
}

func TestClientReconnects(t *testing.T) {
	var accepted atomic.Int32
	app := fiber.New()
	hub := NewHub(nil)
	hub.PingInterval = 0
	RegisterRoutes(app, hub, func(c *fiber.Ctx) error {
		if accepted.Add(1) == 1 {
			return fiber.ErrServiceUnavailable
		}
		return c.Next()
	})
	base := listen(t, app)

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(base, NewHub(nil), nil)
	client.InitialInterval = 5 * time.Millisecond
	client.MaxInterval = 20 * time.Millisecond
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	waitFor(t, func() bool { return hub.Subscribers(AllTopics) == 1 })
	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop")
	}
}

func TestClientRepliesPong(t *testing.T) {
	replies := make(chan contract.WSMessage, 1)
	app := fiber.New()
	app.Get("/ws", fws.New(func(c *fws.Conn) {
		_ = c.WriteJSON(contract.WSMessage{Type: TypePing})
		var msg contract.WSMessage
		if err := c.ReadJSON(&msg); err == nil {
			replies <- msg
		}
	}))
	base := listen(t, app)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = NewClient(base, NewHub(nil), nil).Run(ctx) }()

	select {
	case msg := <-replies:
		if msg.Type != TypePong {
			t.Fatalf("expected PONG, got %s", msg.Type)
		}
	case <-time.After(time.Second):
		t.Fatalf("no reply to PING")
	}
}
