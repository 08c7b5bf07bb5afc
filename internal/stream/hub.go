package stream

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/son-changwook/routepick/internal/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AllTopics subscribers receive every message.
const AllTopics = "*"

const (
	channelPrefix = "realtime:"
	channelSuffix = ":broadcast"
	sendBuffer    = 64
)

// Hub fans messages out to topic subscribers and, when Redis is set, to
// every other hub subscribed to the same Redis.
type Hub struct {
	redis  *redis.Client
	origin string
	subs   map[string]map[*Subscriber]struct{}
	mu     sync.RWMutex
	cancel context.CancelFunc

	// PingInterval is how often websocket connections are sent a PING
	// frame. Zero disables pings.
	PingInterval time.Duration
}

type Subscriber struct {
	Topic string
	Send  chan []byte
}

// relayed is the Redis payload. Origin lets a hub skip its own publications.
type relayed struct {
	Origin  string          `json:"origin"`
	Payload json.RawMessage `json:"payload"`
}

func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		redis:        redisClient,
		origin:       uuid.NewString(),
		subs:         map[string]map[*Subscriber]struct{}{},
		cancel:       cancel,
		PingInterval: 30 * time.Second,
	}

	if redisClient != nil {
		pubsub := redisClient.PSubscribe(ctx, channelPrefix+"*"+channelSuffix)
		go h.subscribeRedis(ctx, pubsub)
	}
	return h
}

// Close stops the Redis subscription.
func (h *Hub) Close() {
	h.cancel()
}

func (h *Hub) Register(topic string) *Subscriber {
	sub := &Subscriber{
		Topic: topic,
		Send:  make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[topic] == nil {
		h.subs[topic] = map[*Subscriber]struct{}{}
	}
	h.subs[topic][sub] = struct{}{}
	return sub
}

func (h *Hub) Unregister(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	topicSubs, ok := h.subs[sub.Topic]
	if !ok {
		return
	}
	if _, ok := topicSubs[sub]; !ok {
		return
	}
	delete(topicSubs, sub)
	if len(topicSubs) == 0 {
		delete(h.subs, sub.Topic)
	}
	close(sub.Send)
}

// Subscribers counts subscribers of topic, not including AllTopics ones.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

// Broadcast delivers payload locally and publishes it to Redis.
func (h *Hub) Broadcast(topic string, payload []byte) {
	h.deliver(topic, payload)

	if h.redis != nil {
		body, err := json.Marshal(relayed{Origin: h.origin, Payload: payload})
		if err != nil {
			log.Printf("stream relay encode error: %v", err)
			return
		}
		if err := h.redis.Publish(context.Background(), redisChannel(topic), body).Err(); err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

// Publish broadcasts msg on the topic named by its type.
func (h *Hub) Publish(msg contract.WSMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.Broadcast(msg.Type, b)
	return nil
}

// PublishUpdate wraps data in a WSMessage of the update's type.
func (h *Hub) PublishUpdate(typ contract.RealtimeUpdateType, data any) error {
	msg, err := contract.NewWSMessage(string(typ), data)
	if err != nil {
		return err
	}
	return h.Publish(msg)
}

// deliver never blocks: a subscriber with a full buffer misses the message.
func (h *Hub) deliver(topic string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[topic] {
		select {
		case sub.Send <- payload:
		default:
		}
	}
	if topic == AllTopics {
		return
	}
	for sub := range h.subs[AllTopics] {
		select {
		case sub.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis(ctx context.Context, pubsub *redis.PubSub) {
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var r relayed
			if err := json.Unmarshal([]byte(msg.Payload), &r); err != nil {
				log.Printf("stream relay decode error on %s: %v", msg.Channel, err)
				continue
			}
			if r.Origin == h.origin {
				continue
			}
			h.deliver(topicFromChannel(msg.Channel), r.Payload)
		}
	}
}

func redisChannel(topic string) string {
	return channelPrefix + topic + channelSuffix
}

func topicFromChannel(ch string) string {
	// realtime:{topic}:broadcast
	if len(ch) <= len(channelPrefix)+len(channelSuffix) ||
		!strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
