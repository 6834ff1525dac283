package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ewilliams-labs/timbre/internal/adapters/identity"
	"github.com/ewilliams-labs/timbre/internal/adapters/preview"
	"github.com/ewilliams-labs/timbre/internal/adapters/rest"
	"github.com/ewilliams-labs/timbre/internal/adapters/sqlite"
	"github.com/ewilliams-labs/timbre/internal/config"
	"github.com/ewilliams-labs/timbre/internal/core/genre"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
	"github.com/ewilliams-labs/timbre/internal/core/services"
	"github.com/ewilliams-labs/timbre/internal/dsp"
)

func main() {
	// 1. Configuration (Environment Variables)
	_ = godotenv.Load()
	cfg := config.Load()

	// 2. Initialize "Driven" Adapters (The Tools)
	// -- Database Adapter
	store, err := sqlite.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer store.Close()

	// -- Preview Loader
	httpClient := &http.Client{Timeout: cfg.PreviewTimeout}
	loader := preview.NewLoader(httpClient, cfg.PreviewMaxSeconds)

	// -- Token Verifier
	var verifier ports.TokenVerifier
	if cfg.GoogleAudience != "" {
		verifier = identity.NewGoogleVerifier(cfg.GoogleAudience)
	} else {
		log.Println("WARN main: GOOGLE_AUDIENCE not set, protected routes will answer 501")
	}

	// 3. Initialize Core Logic (The Driver)
	// We inject the specific adapters into the agnostic service.
	extractor := services.NewExtractor(dsp.New(dsp.DefaultConfig()))
	svc := services.NewAnalysisService(loader, extractor, genre.DefaultRules(), store)

	// 4. Initialize "Driving" Adapter (The Interface)
	handler := rest.NewHandler(svc, verifier)

	// 5. Start the Server
	log.Println("------------------------------------------------")
	log.Printf("🎶 Timbre API is running on http://localhost%s", cfg.Addr)
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
