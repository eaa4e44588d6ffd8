// Package openai adapts the OpenAI audio endpoints to the voice interfaces.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"teachassist/internal/voice"
)

const (
	defaultBaseURL  = "https://api.openai.com/v1"
	defaultSTTModel = "whisper-1"
	defaultTTSModel = "tts-1"
	defaultVoice    = "alloy"
)

// Client talks to the OpenAI audio API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	sttModel   string
	ttsModel   string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(cl *Client) { cl.baseURL = u }
}

// WithModels overrides the transcription and synthesis models.
func WithModels(stt, tts string) Option {
	return func(cl *Client) {
		if stt != "" {
			cl.sttModel = stt
		}
		if tts != "" {
			cl.ttsModel = tts
		}
	}
}

// NewClient constructs a Client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		sttModel:   defaultSTTModel,
		ttsModel:   defaultTTSModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// TranscribeAudio uploads audio as a multipart form and returns the text.
func (c *Client) TranscribeAudio(ctx context.Context, audioData []byte, config voice.AudioConfig) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", "audio."+fileExt(config.Encoding))
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audioData); err != nil {
		return "", err
	}
	if err := w.WriteField("model", c.sttModel); err != nil {
		return "", err
	}
	if config.Language != "" {
		if err := w.WriteField("language", config.Language); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcribe request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError("transcribe", resp)
	}
	var tr transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("transcribe decode: %w", err)
	}
	return tr.Text, nil
}

type speechRequest struct {
	Model string  `json:"model"`
	Input string  `json:"input"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed,omitempty"`
}

// SynthesizeAudio posts text and returns the raw audio bytes.
func (c *Client) SynthesizeAudio(ctx context.Context, text string, config voice.VoiceConfig) ([]byte, error) {
	v := config.Voice
	if v == "" {
		v = defaultVoice
	}
	var speed float64
	if config.SpeakRate != "" {
		s, err := strconv.ParseFloat(config.SpeakRate, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid speak rate %q: %w", config.SpeakRate, err)
		}
		speed = s
	}
	payload, err := json.Marshal(speechRequest{
		Model: c.ttsModel,
		Input: text,
		Voice: v,
		Speed: speed,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("synthesize", resp)
	}
	return io.ReadAll(resp.Body)
}

func fileExt(encoding string) string {
	switch encoding {
	case "", "wav", "LINEAR16":
		return "wav"
	default:
		return encoding
	}
}

func apiError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, bytes.TrimSpace(b))
}
