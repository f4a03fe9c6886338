package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kalike/kalike-server/domain/entities"
	"github.com/kalike/kalike-server/domain/repositories"
	"github.com/kalike/kalike-server/internal/auth"
	"github.com/kalike/kalike-server/usecase"
)

// InitRoutes initializes all API routes
func InitRoutes(
	e *echo.Echo,
	speechService *usecase.SpeechService,
	evictionService *usecase.EvictionService,
	store repositories.ArtifactStore,
	jwtSecret []byte,
	logger *zap.Logger,
) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "kalike-server",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	// Speech synthesis, reachable via GET or POST
	speechHandler := func(c echo.Context) error {
		return synthesizeSpeech(c, speechService, logger)
	}
	v1.GET("/speech", speechHandler)
	v1.POST("/speech", speechHandler)

	// Admin surface, JWT protected
	admin := v1.Group("/admin", serviceAuth(jwtSecret, logger))
	admin.POST("/sweep", func(c echo.Context) error {
		return triggerSweep(c, evictionService, logger)
	})
	admin.GET("/stats", func(c echo.Context) error {
		return cacheStats(c, store, logger)
	})
}

// requestParam reads a parameter from the form body, falling back to
// the query string so both GET and POST callers work
func requestParam(c echo.Context, name string) string {
	if v := c.FormValue(name); v != "" {
		return v
	}
	return c.QueryParam(name)
}

func synthesizeSpeech(c echo.Context, speechService *usecase.SpeechService, logger *zap.Logger) error {
	req := entities.SynthesisRequest{
		Text:     requestParam(c, "text"),
		Language: requestParam(c, "language"),
		Voice:    requestParam(c, "voice"),
	}

	result, err := speechService.Synthesize(c.Request().Context(), req)
	if err != nil {
		return speechError(c, err, logger)
	}

	return c.JSON(http.StatusOK, SpeechResponse{
		AudioURL: result.AudioURL,
		Cached:   result.Cached,
	})
}

// speechError maps the gateway's error taxonomy onto the HTTP contract:
// invalid requests are the client's fault, everything else is a 500 the
// client treats as "server TTS unavailable" before falling back to
// on-device synthesis
func speechError(c echo.Context, err error, logger *zap.Logger) error {
	if errors.Is(err, entities.ErrInvalidRequest) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "No text provided",
		})
	}

	var upstreamErr *entities.UpstreamError
	if errors.As(err, &upstreamErr) {
		logger.Error("Upstream synthesis failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to generate speech",
			Message: upstreamErr.Error(),
		})
	}

	var storageErr *entities.StorageError
	if errors.As(err, &storageErr) {
		logger.Error("Artifact storage failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to save audio file",
			Message: storageErr.Error(),
		})
	}

	logger.Error("Speech synthesis failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "Failed to generate speech",
		Message: err.Error(),
	})
}

func triggerSweep(c echo.Context, evictionService *usecase.EvictionService, logger *zap.Logger) error {
	removed, err := evictionService.RunSweep(c.Request().Context())
	if err != nil {
		logger.Error("Admin-triggered sweep failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "sweep_failed",
			Message: err.Error(),
		})
	}

	logger.Info("Admin-triggered sweep completed", zap.Int("removed", removed))
	return c.JSON(http.StatusOK, SweepResponse{Removed: removed})
}

func cacheStats(c echo.Context, store repositories.ArtifactStore, logger *zap.Logger) error {
	cacheEntries, err := store.List(c.Request().Context())
	if err != nil {
		logger.Error("Failed to list cache entries", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "stats_failed",
			Message: err.Error(),
		})
	}

	var totalBytes int64
	for _, entry := range cacheEntries {
		totalBytes += entry.Size
	}

	return c.JSON(http.StatusOK, StatsResponse{
		Artifacts:  len(cacheEntries),
		TotalBytes: totalBytes,
	})
}

// serviceAuth guards the admin group with bearer token authentication
func serviceAuth(secret []byte, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var token string
			authHeader := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}

			if token == "" {
				logger.Warn("Admin request rejected: missing token")
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:   "missing_token",
					Message: "JWT token is required in Authorization header",
				})
			}

			claims, err := auth.ValidateToken(secret, token)
			if err != nil {
				logger.Warn("Admin request rejected: invalid token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:   "invalid_token",
					Message: "Invalid or expired JWT token",
				})
			}

			if claims.Role != "service" {
				logger.Warn("Admin request rejected: invalid role",
					zap.String("role", claims.Role))
				return c.JSON(http.StatusForbidden, ErrorResponse{
					Error:   "invalid_role",
					Message: "Only service tokens may access admin endpoints",
				})
			}

			return next(c)
		}
	}
}
