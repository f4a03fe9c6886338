package entities

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// SynthesisRequest is the logical unit of work for the TTS gateway.
// Text is kept verbatim; two texts differing only in whitespace are
// cache-distinct on purpose.
type SynthesisRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Voice    string `json:"voice"`
}

// SynthesisResult is the outcome of a synthesize call
type SynthesisResult struct {
	AudioURL string `json:"audioUrl"`
	Cached   bool   `json:"cached"`
}

// CacheEntry represents one persisted audio artifact
type CacheEntry struct {
	Name      string    `json:"name"` // filename, `<key>.<ext>`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks that the request carries synthesizable text
func (r *SynthesisRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrInvalidRequest
	}
	return nil
}

// CacheKey derives the deterministic identity of the request.
// Identical (text, language, voice) always produce the same key, so a
// synthesis result is paid for at most once per identity. MD5 is a cache
// key here, not a security boundary.
func (r *SynthesisRequest) CacheKey() string {
	sum := md5.Sum([]byte(r.Text + r.Language + r.Voice))
	return hex.EncodeToString(sum[:])
}
