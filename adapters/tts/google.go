package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kalike/kalike-server/domain/entities"
	"github.com/kalike/kalike-server/domain/repositories"
)

const (
	defaultEndpoint      = "https://texttospeech.googleapis.com/v1/text:synthesize"
	defaultAudioEncoding = "MP3"
	defaultTimeout       = 15 * time.Second
)

// GoogleTTSConfig holds configuration for the GoogleTTS adapter
// Required fields:
// - APIKey: Google Cloud API key with Text-to-Speech enabled
// Optional fields with defaults:
// - Endpoint: the synthesis endpoint (default: the public v1 endpoint)
// - AudioEncoding: the encoding requested from the API (default: "MP3")
// - Timeout: bound on the upstream call (default: 15s)
type GoogleTTSConfig struct {
	APIKey        string
	Endpoint      string
	AudioEncoding string
	Timeout       time.Duration
}

// GoogleTTS implements the Synthesizer interface against the Google
// Cloud Text-to-Speech REST API
type GoogleTTS struct {
	apiKey        string
	endpoint      string
	audioEncoding string
	client        *http.Client
	logger        *zap.Logger
}

// Ensure GoogleTTS implements the Synthesizer interface
var _ repositories.Synthesizer = (*GoogleTTS)(nil)

type googleVoiceSelection struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
}

type googleAudioConfig struct {
	AudioEncoding string  `json:"audioEncoding"`
	SpeakingRate  float64 `json:"speakingRate"`
	Pitch         float64 `json:"pitch"`
}

type googleSynthesisInput struct {
	Text string `json:"text"`
}

// googleSynthesizeRequest represents the request payload for the
// text:synthesize endpoint
type googleSynthesizeRequest struct {
	Input       googleSynthesisInput `json:"input"`
	Voice       googleVoiceSelection `json:"voice"`
	AudioConfig googleAudioConfig    `json:"audioConfig"`
}

type googleSynthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// ValidateGoogleTTSConfig validates the GoogleTTSConfig
func ValidateGoogleTTSConfig(config GoogleTTSConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("google TTS API key is required")
	}

	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %v", config.Timeout)
	}

	return nil
}

// NewGoogleTTS creates a new Google Cloud TTS instance
func NewGoogleTTS(config GoogleTTSConfig, logger *zap.Logger) (*GoogleTTS, error) {
	if err := ValidateGoogleTTSConfig(config); err != nil {
		return nil, err
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
		logger.Info("Using default synthesis endpoint", zap.String("endpoint", endpoint))
	}

	audioEncoding := config.AudioEncoding
	if audioEncoding == "" {
		audioEncoding = defaultAudioEncoding
		logger.Info("Using default audio encoding", zap.String("audioEncoding", audioEncoding))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
		logger.Info("Using default upstream timeout", zap.Duration("timeout", timeout))
	}

	return &GoogleTTS{
		apiKey:        config.APIKey,
		endpoint:      endpoint,
		audioEncoding: audioEncoding,
		client:        &http.Client{Timeout: timeout},
		logger:        logger,
	}, nil
}

// SynthesizeAudio converts text to audio via the Google Cloud TTS API.
// Any transport failure, non-2xx response, or missing audio payload is
// reported as an UpstreamError; no retries are attempted here.
func (g *GoogleTTS) SynthesizeAudio(ctx context.Context, text string, config repositories.VoiceConfig) ([]byte, error) {
	g.logger.Info("Calling upstream synthesis",
		zap.String("language", config.Language),
		zap.String("voice", config.Voice),
		zap.Int("textLength", len(text)))

	request := googleSynthesizeRequest{
		Input: googleSynthesisInput{Text: text},
		Voice: googleVoiceSelection{
			LanguageCode: config.Language,
			Name:         config.Voice,
		},
		AudioConfig: googleAudioConfig{
			AudioEncoding: g.audioEncoding,
			SpeakingRate:  config.SpeakingRate,
			Pitch:         config.Pitch,
		},
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// The API key travels as a query credential, mirroring the
	// key-restricted project setup
	endpoint := g.endpoint + "?key=" + url.QueryEscape(g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.logger.Error("Upstream request failed", zap.Error(err))
		return nil, &entities.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		g.logger.Error("Upstream returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return nil, &entities.UpstreamError{
			StatusCode: resp.StatusCode,
			Detail:     string(errorBody),
		}
	}

	var synthesisResponse googleSynthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&synthesisResponse); err != nil {
		return nil, &entities.UpstreamError{Detail: "malformed response body", Err: err}
	}

	if synthesisResponse.AudioContent == "" {
		return nil, &entities.UpstreamError{Detail: "no audio content in response"}
	}

	audioData, err := base64.StdEncoding.DecodeString(synthesisResponse.AudioContent)
	if err != nil {
		return nil, &entities.UpstreamError{Detail: "invalid base64 audio content", Err: err}
	}

	g.logger.Info("Upstream synthesis completed", zap.Int("audioSize", len(audioData)))

	return audioData, nil
}
