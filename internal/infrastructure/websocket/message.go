package websocket

import (
	"encoding/json"
	"time"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
)

const (
	MessageTypeSession = "session"
	MessageTypePing    = "ping"
	MessageTypePong    = "pong"
)

// WSMessage is the envelope of every frame sent to a session socket.
type WSMessage struct {
	Type      string               `json:"type"`
	Session   *entity.SessionEvent `json:"session,omitempty"`
	Timestamp string               `json:"timestamp"`
}

func NewSessionMessage(event entity.SessionEvent) WSMessage {
	return WSMessage{
		Type:      MessageTypeSession,
		Session:   &event,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (m WSMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

func DecodeMessage(data []byte) (WSMessage, error) {
	var m WSMessage
	err := json.Unmarshal(data, &m)
	return m, err
}
