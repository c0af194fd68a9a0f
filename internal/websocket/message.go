package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewPostCreatedMessage wraps a freshly published feed item for broadcast.
func NewPostCreatedMessage(item interface{}) []byte {
	b, _ := json.Marshal(Message{Action: "post.created", Payload: item})
	return b
}
