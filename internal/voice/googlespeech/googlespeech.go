// Package googlespeech adapts the Google Cloud Speech and Text-to-Speech
// REST endpoints to the voice interfaces using API-key auth.
package googlespeech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"teachassist/internal/voice"
)

const (
	defaultRecognizeURL  = "https://speech.googleapis.com/v1/speech:recognize"
	defaultSynthesizeURL = "https://texttospeech.googleapis.com/v1/text:synthesize"

	defaultLanguage   = "en-US"
	defaultSampleRate = 16000
)

// Client talks to the Google speech REST APIs.
type Client struct {
	httpClient    *http.Client
	apiKey        string
	recognizeURL  string
	synthesizeURL string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithEndpoints overrides the API endpoints.
func WithEndpoints(recognize, synthesize string) Option {
	return func(cl *Client) {
		if recognize != "" {
			cl.recognizeURL = recognize
		}
		if synthesize != "" {
			cl.synthesizeURL = synthesize
		}
	}
}

// NewClient constructs a Client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient:    http.DefaultClient,
		apiKey:        apiKey,
		recognizeURL:  defaultRecognizeURL,
		synthesizeURL: defaultSynthesizeURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding        string `json:"encoding,omitempty"`
	SampleRateHertz int    `json:"sampleRateHertz"`
	LanguageCode    string `json:"languageCode"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
}

// TranscribeAudio posts base64 audio to speech:recognize and joins the top
// alternative of each result.
func (c *Client) TranscribeAudio(ctx context.Context, audioData []byte, config voice.AudioConfig) (string, error) {
	rate := config.SampleRate
	if rate == 0 {
		rate = defaultSampleRate
	}
	lang := config.Language
	if lang == "" {
		lang = defaultLanguage
	}
	body := recognizeRequest{
		Config: recognizeConfig{
			Encoding:        config.Encoding,
			SampleRateHertz: rate,
			LanguageCode:    lang,
		},
		Audio: recognizeAudio{Content: base64.StdEncoding.EncodeToString(audioData)},
	}

	var rr recognizeResponse
	if err := c.post(ctx, c.recognizeURL, body, &rr); err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	var out string
	for _, res := range rr.Results {
		if len(res.Alternatives) == 0 {
			continue
		}
		if out != "" {
			out += " "
		}
		out += res.Alternatives[0].Transcript
	}
	return out, nil
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name,omitempty"`
		SSMLGender   string `json:"ssmlGender,omitempty"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// SynthesizeAudio posts text to text:synthesize and decodes the base64 audio.
func (c *Client) SynthesizeAudio(ctx context.Context, text string, config voice.VoiceConfig) ([]byte, error) {
	var body synthesizeRequest
	body.Input.Text = text
	body.Voice.LanguageCode = config.Language
	if body.Voice.LanguageCode == "" {
		body.Voice.LanguageCode = defaultLanguage
	}
	body.Voice.Name = config.Voice
	body.Voice.SSMLGender = config.Gender
	body.AudioConfig.AudioEncoding = "MP3"

	var sr synthesizeResponse
	if err := c.post(ctx, c.synthesizeURL, body, &sr); err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(sr.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("synthesize decode: %w", err)
	}
	return audio, nil
}

func (c *Client) post(ctx context.Context, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"?key="+c.apiKey, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(b))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
