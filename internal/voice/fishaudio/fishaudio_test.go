package fishaudio

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"teachassist/internal/voice"
)

var upgrader = websocket.Upgrader{}

// wsURL rewrites an httptest server URL to the ws scheme.
func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSynthesizeAudio_Session(t *testing.T) {
	t.Parallel()
	var gotAuth string
	var gotStart sessionMessage
	var gotText []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			var msg sessionMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			switch msg.Event {
			case "start":
				gotStart = msg
			case "text":
				gotText = append(gotText, msg.Text)
			case "stop":
				conn.WriteMessage(websocket.BinaryMessage, []byte("chunk-1|"))
				conn.WriteMessage(websocket.BinaryMessage, []byte("chunk-2"))
				fin, _ := json.Marshal(serverEvent{Event: "finish"})
				conn.WriteMessage(websocket.TextMessage, fin)
				return
			}
		}
	}))
	defer srv.Close()

	c := NewClient("fa-key", WithURL(wsURL(srv)), WithModel("speech-test"))
	got, err := c.SynthesizeAudio(context.Background(), "Welcome to today's lesson", voice.VoiceConfig{Voice: "ref-42"})
	if err != nil {
		t.Fatalf("SynthesizeAudio: %v", err)
	}
	if !bytes.Equal(got, []byte("chunk-1|chunk-2")) {
		t.Fatalf("audio: %q", got)
	}
	if gotAuth != "Bearer fa-key" {
		t.Fatalf("auth: %q", gotAuth)
	}
	if gotStart.Request == nil || gotStart.Request.Model != "speech-test" || gotStart.Request.ReferenceID != "ref-42" {
		t.Fatalf("start message: %+v", gotStart)
	}
	if len(gotText) != 1 || gotText[0] != "Welcome to today's lesson" {
		t.Fatalf("text chunks: %v", gotText)
	}
}

func TestSynthesizeAudio_LongTextChunked(t *testing.T) {
	t.Parallel()
	var gotText []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var msg sessionMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Event == "text" {
				gotText = append(gotText, msg.Text)
			}
			if msg.Event == "stop" {
				fin, _ := json.Marshal(serverEvent{Event: "finish"})
				conn.WriteMessage(websocket.TextMessage, fin)
				return
			}
		}
	}))
	defer srv.Close()

	long := strings.Repeat("a", textChunkRunes*2+10)
	c := NewClient("", WithURL(wsURL(srv)))
	if _, err := c.SynthesizeAudio(context.Background(), long, voice.VoiceConfig{}); err != nil {
		t.Fatalf("SynthesizeAudio: %v", err)
	}
	if len(gotText) != 3 {
		t.Fatalf("chunks: %d", len(gotText))
	}
	if strings.Join(gotText, "") != long {
		t.Fatalf("chunks do not reassemble input")
	}
}

func TestSynthesizeAudio_ServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var msg sessionMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Event == "stop" {
				ev, _ := json.Marshal(serverEvent{Event: "error", Message: "quota exceeded"})
				conn.WriteMessage(websocket.TextMessage, ev)
				return
			}
		}
	}))
	defer srv.Close()

	c := NewClient("k", WithURL(wsURL(srv)))
	_, err := c.SynthesizeAudio(context.Background(), "hi", voice.VoiceConfig{})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("want session error, got %v", err)
	}
}

func TestSynthesizeAudio_DialFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad", WithURL(wsURL(srv)))
	if _, err := c.SynthesizeAudio(context.Background(), "hi", voice.VoiceConfig{}); err == nil {
		t.Fatalf("want dial error")
	}
}

func TestSplitChunks(t *testing.T) {
	t.Parallel()
	if got := splitChunks("", 5); got != nil {
		t.Fatalf("empty input: %v", got)
	}
	got := splitChunks("abcdefg", 3)
	want := []string{"abc", "def", "g"}
	if len(got) != len(want) {
		t.Fatalf("chunks: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chunk %d: %q", i, got[i])
		}
	}
}
