// Package voice defines the provider-neutral speech interfaces and the
// wake-word matcher. Concrete adapters live in the subpackages.
package voice

import (
	"context"
	"strings"
)

// SpeechToText abstracts speech recognition services.
type SpeechToText interface {
	// TranscribeAudio converts audio data to text.
	TranscribeAudio(ctx context.Context, audioData []byte, config AudioConfig) (string, error)
}

// TextToSpeech abstracts text-to-speech services.
type TextToSpeech interface {
	// SynthesizeAudio converts text to audio data.
	SynthesizeAudio(ctx context.Context, text string, config VoiceConfig) ([]byte, error)
}

// AudioConfig represents audio configuration for speech recognition.
type AudioConfig struct {
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
	Language   string `json:"language"`
}

// VoiceConfig represents voice configuration for TTS.
type VoiceConfig struct {
	Voice     string `json:"voice"`
	Language  string `json:"language"`
	Gender    string `json:"gender"`
	SpeakRate string `json:"speak_rate"`
}

// WakeWordDetector scans transcripts for any of a set of trigger phrases.
// Matching is case-insensitive and ignores surrounding punctuation handled
// by simple containment.
type WakeWordDetector struct {
	phrases []string
}

// NewWakeWordDetector builds a detector; empty phrases are dropped.
func NewWakeWordDetector(phrases ...string) *WakeWordDetector {
	d := &WakeWordDetector{}
	for _, p := range phrases {
		p = strings.TrimSpace(strings.ToLower(p))
		if p != "" {
			d.phrases = append(d.phrases, p)
		}
	}
	return d
}

// Detect reports whether the transcript contains a trigger phrase and
// returns the remainder of the transcript after the first match.
func (d *WakeWordDetector) Detect(transcript string) (rest string, ok bool) {
	lower := strings.ToLower(transcript)
	for _, p := range d.phrases {
		idx := strings.Index(lower, p)
		if idx < 0 {
			continue
		}
		rest = strings.TrimLeft(transcript[idx+len(p):], " ,.!?")
		return rest, true
	}
	return "", false
}
