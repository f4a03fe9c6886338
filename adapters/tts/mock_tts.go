package tts

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kalike/kalike-server/domain/repositories"
)

// MockSynthesizer is a placeholder implementation for text-to-speech.
// It records call counts so tests can assert how often the upstream
// provider was actually invoked.
type MockSynthesizer struct {
	mu     sync.Mutex
	calls  int
	audio  []byte
	err    error
	logger *zap.Logger
}

// Ensure MockSynthesizer implements the Synthesizer interface
var _ repositories.Synthesizer = (*MockSynthesizer)(nil)

// NewMockSynthesizer creates a new mock text-to-speech service that
// returns the given audio bytes for every request
func NewMockSynthesizer(audio []byte, logger *zap.Logger) *MockSynthesizer {
	return &MockSynthesizer{
		audio:  audio,
		logger: logger,
	}
}

// Fail makes all subsequent synthesis calls return the given error
func (m *MockSynthesizer) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times SynthesizeAudio has been invoked
func (m *MockSynthesizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// SynthesizeAudio implements repositories.Synthesizer
func (m *MockSynthesizer) SynthesizeAudio(ctx context.Context, text string, config repositories.VoiceConfig) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++

	m.logger.Info("Mock synthesis",
		zap.String("text", text),
		zap.String("voice", config.Voice),
		zap.Int("call", m.calls))

	if m.err != nil {
		return nil, m.err
	}

	audio := make([]byte, len(m.audio))
	copy(audio, m.audio)
	return audio, nil
}
