package repositories

import "context"

// Synthesizer abstracts text-to-speech services
type Synthesizer interface {
	// SynthesizeAudio converts text to audio data
	SynthesizeAudio(ctx context.Context, text string, config VoiceConfig) ([]byte, error)
}

// VoiceConfig represents voice configuration for TTS
type VoiceConfig struct {
	Language     string  `json:"language"`
	Voice        string  `json:"voice"`
	SpeakingRate float64 `json:"speaking_rate"`
	Pitch        float64 `json:"pitch"`
}
