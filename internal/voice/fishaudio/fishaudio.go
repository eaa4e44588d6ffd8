// Package fishaudio adapts the Fish Audio streaming TTS WebSocket API to the
// voice interfaces. A synthesis session sends a start message, streams text
// chunks, then a stop message; the server answers with binary audio frames
// and a JSON finish event.
package fishaudio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"teachassist/internal/voice"
)

const (
	defaultURL   = "wss://api.fish.audio/v1/tts/live"
	defaultModel = "speech-1.5"

	// chunk size for streamed text
	textChunkRunes = 120

	readTimeout = 30 * time.Second
)

// Client opens streaming TTS sessions against Fish Audio.
type Client struct {
	dialer *websocket.Dialer
	url    string
	apiKey string
	model  string
}

// Option customizes a Client.
type Option func(*Client)

// WithURL overrides the WebSocket endpoint.
func WithURL(u string) Option {
	return func(c *Client) { c.url = u }
}

// WithDialer overrides the WebSocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// WithModel overrides the synthesis model.
func WithModel(m string) Option {
	return func(c *Client) { c.model = m }
}

// NewClient constructs a Client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		dialer: websocket.DefaultDialer,
		url:    defaultURL,
		apiKey: apiKey,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type sessionMessage struct {
	Event   string  `json:"event"`
	Text    string  `json:"text,omitempty"`
	Request *ttsReq `json:"request,omitempty"`
}

type ttsReq struct {
	Model       string `json:"model"`
	ReferenceID string `json:"reference_id,omitempty"`
	Format      string `json:"format"`
}

type serverEvent struct {
	Event   string `json:"event"`
	Message string `json:"message,omitempty"`
}

// SynthesizeAudio runs one full session and returns the concatenated audio.
func (c *Client) SynthesizeAudio(ctx context.Context, text string, config voice.VoiceConfig) ([]byte, error) {
	header := http.Header{}
	if c.apiKey != "" {
		header.Set("Authorization", "Bearer "+c.apiKey)
	}
	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	start := sessionMessage{
		Event: "start",
		Request: &ttsReq{
			Model:       c.model,
			ReferenceID: config.Voice,
			Format:      "mp3",
		},
	}
	if err := conn.WriteJSON(start); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	for _, chunk := range splitChunks(text, textChunkRunes) {
		if err := conn.WriteJSON(sessionMessage{Event: "text", Text: chunk}); err != nil {
			return nil, fmt.Errorf("text: %w", err)
		}
	}
	if err := conn.WriteJSON(sessionMessage{Event: "stop"}); err != nil {
		return nil, fmt.Errorf("stop: %w", err)
	}

	var audio bytes.Buffer
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		deadline := time.Now().Add(readTimeout)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}
		if err := conn.SetReadDeadline(deadline); err != nil {
			return nil, err
		}

		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		switch msgType {
		case websocket.BinaryMessage:
			audio.Write(data)
		case websocket.TextMessage:
			var ev serverEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				return nil, fmt.Errorf("event decode: %w", err)
			}
			switch ev.Event {
			case "finish":
				return audio.Bytes(), nil
			case "log":
				// informational, keep reading
			default:
				return nil, fmt.Errorf("session error: %s %s", ev.Event, ev.Message)
			}
		}
	}
}

func splitChunks(s string, n int) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	var out []string
	for len(runes) > n {
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	return append(out, string(runes))
}
