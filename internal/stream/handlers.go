package stream

import (
	"encoding/json"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/son-changwook/routepick/internal/contract"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	TypePing = "PING"
	TypePong = "PONG"
)

// RegisterRoutes mounts the realtime socket at /ws. Clients pick topics with
// ?topics=ROUTE_UPDATE,PAYMENT_UPDATE and get every topic otherwise. guards
// run before the upgrade.
func RegisterRoutes(r fiber.Router, hub *Hub, guards ...fiber.Handler) {
	handlers := append([]fiber.Handler{}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		c.Locals("topics", parseTopics(c.Query("topics")))
		return c.Next()
	}, websocket.New(func(c *websocket.Conn) {
		topics, _ := c.Locals("topics").([]string)
		serve(c, hub, topics)
	}))
	r.Get("/ws", handlers...)
}

// parseTopics drops repeats; "*" anywhere in the list subscribes to
// everything and replaces the other topics.
func parseTopics(raw string) []string {
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == AllTopics {
			return []string{AllTopics}
		}
		if t != "" && !slices.Contains(topics, t) {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		return []string{AllTopics}
	}
	return topics
}

func serve(c *websocket.Conn, hub *Hub, topics []string) {
	merged := make(chan []byte, sendBuffer)
	for _, topic := range topics {
		sub := hub.Register(topic)
		defer hub.Unregister(sub)
		go func() {
			for msg := range sub.Send {
				select {
				case merged <- msg:
				default:
				}
			}
		}()
	}

	var ticker <-chan time.Time
	if hub.PingInterval > 0 {
		t := time.NewTicker(hub.PingInterval)
		defer t.Stop()
		ticker = t.C
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				return
			}
			var msg contract.WSMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				log.Printf("ws: dropping malformed frame: %v", err)
			}
		}
	}()

	for {
		var frame []byte
		select {
		case <-done:
			return
		case frame = <-merged:
		case <-ticker:
			ping, _ := json.Marshal(contract.WSMessage{Type: TypePing, Timestamp: contract.NewTimestamp(time.Now().UTC())})
			frame = ping
		}
		if err := c.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}
