package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kalike/kalike-server/domain/entities"
	"github.com/kalike/kalike-server/domain/repositories"
)

// SpeechServiceConfig holds configuration for the speech service
type SpeechServiceConfig struct {
	// PublicBaseURL is the externally reachable prefix under which the
	// cache directory is served by a separate static file server
	PublicBaseURL string
	// FileExtension is the artifact extension including the dot, e.g. ".mp3"
	FileExtension string
	// DefaultLanguage is applied when the request carries no language code
	DefaultLanguage string
	// DefaultVoice is applied when the request carries no voice name
	DefaultVoice string
	// SpeakingRate and Pitch are fixed tuning parameters passed to the
	// upstream provider; they are not request-controlled
	SpeakingRate float64
	Pitch        float64
}

// SpeechService orchestrates the synthesize-and-cache flow: it
// deduplicates repeated requests against the artifact store and calls
// the upstream provider only on cache miss
type SpeechService struct {
	synthesizer repositories.Synthesizer
	store       repositories.ArtifactStore
	config      SpeechServiceConfig
	logger      *zap.Logger
}

// NewSpeechService creates a new speech service
func NewSpeechService(
	synthesizer repositories.Synthesizer,
	store repositories.ArtifactStore,
	config SpeechServiceConfig,
	logger *zap.Logger,
) *SpeechService {
	return &SpeechService{
		synthesizer: synthesizer,
		store:       store,
		config:      config,
		logger:      logger,
	}
}

// Synthesize resolves a synthesis request to a stable public audio URL.
// Identical (text, language, voice) resolve via the cache after the
// first successful synthesis, with no further upstream cost. Concurrent
// first requests for the same identity may both call upstream; the
// duplicate write is harmless because writes are atomic and content for
// a given key never changes.
func (s *SpeechService) Synthesize(ctx context.Context, req entities.SynthesisRequest) (*entities.SynthesisResult, error) {
	if req.Language == "" {
		req.Language = s.config.DefaultLanguage
	}
	if req.Voice == "" {
		req.Voice = s.config.DefaultVoice
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	name := req.CacheKey() + s.config.FileExtension

	exists, err := s.store.Exists(ctx, name)
	if err != nil {
		return nil, err
	}

	if exists {
		s.logger.Debug("Cache hit", zap.String("artifact", name))
		return &entities.SynthesisResult{
			AudioURL: s.publicURL(name),
			Cached:   true,
		}, nil
	}

	s.logger.Info("Cache miss, synthesizing",
		zap.String("artifact", name),
		zap.String("language", req.Language),
		zap.String("voice", req.Voice))

	audio, err := s.synthesizer.SynthesizeAudio(ctx, req.Text, repositories.VoiceConfig{
		Language:     req.Language,
		Voice:        req.Voice,
		SpeakingRate: s.config.SpeakingRate,
		Pitch:        s.config.Pitch,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.WriteAtomic(ctx, name, audio); err != nil {
		return nil, err
	}

	s.logger.Info("Artifact cached",
		zap.String("artifact", name),
		zap.Int("bytes", len(audio)))

	return &entities.SynthesisResult{
		AudioURL: s.publicURL(name),
		Cached:   false,
	}, nil
}

func (s *SpeechService) publicURL(name string) string {
	return strings.TrimSuffix(s.config.PublicBaseURL, "/") + "/" + name
}
