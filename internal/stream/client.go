package stream

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

// TokenFunc returns the bearer token for a connection attempt. An empty
// token connects anonymously.
type TokenFunc func(ctx context.Context) (string, error)

// Client keeps a websocket to the server open and feeds its messages into a
// Hub, reconnecting with exponential backoff.
type Client struct {
	url    string
	hub    *Hub
	token  TokenFunc
	dialer *websocket.Dialer

	InitialInterval time.Duration
	MaxInterval     time.Duration
	// OnConnect, if set, runs after each successful dial.
	OnConnect func()
}

// NewClient dials baseURL + "/ws". topics may be empty for all topics.
func NewClient(baseURL string, hub *Hub, token TokenFunc, topics ...string) *Client {
	u := strings.TrimRight(baseURL, "/") + "/ws"
	if len(topics) > 0 {
		u += "?topics=" + url.QueryEscape(strings.Join(topics, ","))
	}
	return &Client{
		url:             u,
		hub:             hub,
		token:           token,
		dialer:          websocket.DefaultDialer,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     30 * time.Second,
	}
}

// Run blocks until ctx ends, reconnecting whenever the connection drops.
func (c *Client) Run(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.InitialInterval
	b.MaxInterval = c.MaxInterval
	b.MaxElapsedTime = 0
	bo := backoff.WithContext(b, ctx)

	for {
		connected, err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			bo.Reset()
		}
		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			return ctx.Err()
		}
		log.Printf("realtime connection lost (%v), retrying in %s", err, wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// session runs one connection. connected reports whether the dial succeeded.
func (c *Client) session(ctx context.Context) (connected bool, err error) {
	header := http.Header{}
	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return false, err
		}
		if tok != "" {
			header.Set(constants.JWTHeader, constants.JWTPrefix+tok)
		}
	}

	conn, _, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		return false, err
	}
	defer conn.Close()
	if c.OnConnect != nil {
		c.OnConnect()
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}
		var msg contract.WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Type == "" {
			log.Printf("realtime: dropping malformed frame")
			continue
		}
		if msg.Type == TypePing {
			pong, _ := json.Marshal(contract.WSMessage{Type: TypePong, Timestamp: contract.NewTimestamp(time.Now().UTC())})
			if err := conn.WriteMessage(websocket.TextMessage, pong); err != nil {
				return true, err
			}
			continue
		}
		c.hub.Broadcast(msg.Type, raw)
	}
}
