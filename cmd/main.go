package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kalike/kalike-server/adapters/storage"
	"github.com/kalike/kalike-server/adapters/tts"
	"github.com/kalike/kalike-server/internal/api"
	"github.com/kalike/kalike-server/internal/auth"
	"github.com/kalike/kalike-server/internal/config"
	"github.com/kalike/kalike-server/usecase"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kalike-server",
		Short: "TTS synthesis-and-cache gateway for the Kalike learning app",
	}

	rootCmd.AddCommand(serveCmd(), sweepCmd(), tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	// A missing .env file is fine; the environment may be set directly
	_ = godotenv.Load()
	return config.Load()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway and the background eviction sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, _ := zap.NewProduction()
			defer logger.Sync()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateForServe(); err != nil {
				return err
			}

			// Initialize adapters
			store, err := storage.NewFilesystemStore(cfg.CacheDir, logger)
			if err != nil {
				return err
			}

			synthesizer, err := tts.NewGoogleTTS(tts.GoogleTTSConfig{
				APIKey:   cfg.TTSAPIKey,
				Endpoint: cfg.TTSEndpoint,
				Timeout:  cfg.UpstreamTimeout,
			}, logger)
			if err != nil {
				return err
			}

			// Initialize usecase services
			speechService := usecase.NewSpeechService(synthesizer, store, usecase.SpeechServiceConfig{
				PublicBaseURL:   cfg.PublicBaseURL,
				FileExtension:   cfg.FileExtension,
				DefaultLanguage: cfg.DefaultLanguage,
				DefaultVoice:    cfg.DefaultVoice,
				SpeakingRate:    cfg.SpeakingRate,
				Pitch:           cfg.Pitch,
			}, logger)

			evictionService := usecase.NewEvictionService(store, cfg.EvictionMaxAge, cfg.EvictionInterval, logger)
			if cfg.EvictionEnabled {
				evictionService.Start()
				defer evictionService.Stop()
			} else {
				logger.Info("Eviction disabled, artifacts are kept indefinitely")
			}

			// Create Echo instance
			e := echo.New()
			e.HideBanner = true

			// Middleware
			e.Use(middleware.Logger())
			e.Use(middleware.Recover())
			e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
				AllowOrigins: []string{"*"},
				AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowHeaders: []string{echo.HeaderContentType},
			}))

			// Serve the cache directory directly for single-host
			// deployments; larger setups point PUBLIC_BASE_URL at a
			// dedicated static file server instead
			e.Static("/cache", cfg.CacheDir)

			api.InitRoutes(e, speechService, evictionService, store, []byte(cfg.JWTSecret), logger)

			// Start server
			go func() {
				if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
					logger.Fatal("shutting down the server", zap.Error(err))
				}
			}()

			logger.Info("Gateway started",
				zap.String("port", cfg.Port),
				zap.String("cacheDir", cfg.CacheDir),
				zap.String("publicBaseURL", cfg.PublicBaseURL))

			// Wait for interrupt signal to gracefully shutdown the server
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			<-quit

			logger.Info("Server is shutting down...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := e.Shutdown(ctx); err != nil {
				logger.Fatal("Server forced to shutdown", zap.Error(err))
			}

			logger.Info("Server exited")
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a single eviction sweep and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, _ := zap.NewProduction()
			defer logger.Sync()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := storage.NewFilesystemStore(cfg.CacheDir, logger)
			if err != nil {
				return err
			}

			evictionService := usecase.NewEvictionService(store, cfg.EvictionMaxAge, cfg.EvictionInterval, logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			removed, err := evictionService.RunSweep(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Removed %d stale artifacts\n", removed)
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a service token for the admin endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is required")
			}

			token, err := auth.GenerateServiceToken([]byte(cfg.JWTSecret), subject, ttl)
			if err != nil {
				return err
			}

			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "ops", "subject recorded in the token claims")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
