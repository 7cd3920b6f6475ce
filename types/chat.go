package types

import (
	"encoding/json"
	"fmt"
)

type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the body of the non-streaming chat endpoint.
type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Message  string `json:"message,omitempty"`
}

type StreamEventKind int

const (
	StreamEventChunk StreamEventKind = iota
	StreamEventDone
	StreamEventError
)

func (k StreamEventKind) String() string {
	switch k {
	case StreamEventChunk:
		return "chunk"
	case StreamEventDone:
		return "done"
	case StreamEventError:
		return "error"
	default:
		return fmt.Sprintf("StreamEventKind(%d)", int(k))
	}
}

// StreamEvent is one frame of a chat stream. Done and Error are terminal.
type StreamEvent struct {
	Kind StreamEventKind
	// Text is the chunk for StreamEventChunk and the message for StreamEventError.
	Text string
}

func ChunkEvent(chunk string) StreamEvent {
	return StreamEvent{Kind: StreamEventChunk, Text: chunk}
}

func DoneEvent() StreamEvent {
	return StreamEvent{Kind: StreamEventDone}
}

func ErrorEvent(message string) StreamEvent {
	return StreamEvent{Kind: StreamEventError, Text: message}
}

func (e StreamEvent) Terminal() bool {
	return e.Kind == StreamEventDone || e.Kind == StreamEventError
}

func (e StreamEvent) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case StreamEventChunk:
		return json.Marshal(struct {
			Chunk string `json:"chunk"`
		}{e.Text})
	case StreamEventDone:
		return json.Marshal(struct {
			Done bool `json:"done"`
		}{true})
	case StreamEventError:
		return json.Marshal(struct {
			Error string `json:"error"`
		}{e.Text})
	default:
		return nil, fmt.Errorf("unknown stream event kind %d", int(e.Kind))
	}
}

func (e *StreamEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Chunk *string `json:"chunk"`
		Done  *bool   `json:"done"`
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Chunk != nil:
		*e = ChunkEvent(*raw.Chunk)
	case raw.Error != nil:
		*e = ErrorEvent(*raw.Error)
	case raw.Done != nil && *raw.Done:
		*e = DoneEvent()
	default:
		return fmt.Errorf("unrecognised stream event %s", string(data))
	}
	return nil
}

// ChatHistoryItem is one stored exchange returned by the history endpoint.
type ChatHistoryItem struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Response  string `json:"response"`
	CreatedAt int64  `json:"created_at"`
}

type ChatHistoryResponse struct {
	Success bool              `json:"success"`
	Chats   []ChatHistoryItem `json:"chats"`
}

const (
	TypeWebsocketPing = "ping"
	TypeWebsocketPong = "pong"
)

// WebsocketRequest is an inbound frame on the chat socket. Type is empty for
// chat messages.
type WebsocketRequest struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

type WebsocketPong struct {
	Type string `json:"type"`
}
