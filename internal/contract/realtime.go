package contract

import (
	"encoding/json"
	"fmt"
	"time"
)

// WSMessage is the frame exchanged on the realtime socket.
type WSMessage struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp Timestamp       `json:"timestamp"`
}

func NewWSMessage(typ string, payload any) (WSMessage, error) {
	msg := WSMessage{Type: typ, Timestamp: NewTimestamp(time.Now().UTC())}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return WSMessage{}, fmt.Errorf("ws message %s: %w", typ, err)
		}
		msg.Payload = b
	}
	return msg, nil
}

type RealtimeUpdate struct {
	Type RealtimeUpdateType `json:"type"`
	Data json.RawMessage    `json:"data,omitempty"`
}

func NewRealtimeUpdate(typ RealtimeUpdateType, data any) (RealtimeUpdate, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return RealtimeUpdate{}, fmt.Errorf("realtime update %s: %w", typ, err)
	}
	return RealtimeUpdate{Type: typ, Data: b}, nil
}

// Decode unmarshals Data into v.
func (u RealtimeUpdate) Decode(v any) error {
	if len(u.Data) == 0 {
		return fmt.Errorf("realtime update %s: empty data", u.Type)
	}
	return json.Unmarshal(u.Data, v)
}

// Update decodes the payload of a frame whose type is a RealtimeUpdateType.
func (m WSMessage) Update() (RealtimeUpdate, error) {
	typ, err := ParseRealtimeUpdateType(m.Type)
	if err != nil {
		return RealtimeUpdate{}, err
	}
	return RealtimeUpdate{Type: typ, Data: m.Payload}, nil
}
