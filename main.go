package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/iammuhammadnoumankhan/talkflow/internal/adapter/llm"
	"github.com/iammuhammadnoumankhan/talkflow/internal/config"
	"github.com/iammuhammadnoumankhan/talkflow/internal/policy"
	"github.com/iammuhammadnoumankhan/talkflow/internal/repository"
	"github.com/iammuhammadnoumankhan/talkflow/internal/service"
	handler "github.com/iammuhammadnoumankhan/talkflow/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting talkflow...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Ollama Host: %s", cfg.OllamaHost)
	log.Printf("Store Backend: %s", cfg.StoreBackend)

	// Initialize store
	db, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize LLM client
	llmClient := llm.NewLLMClientForMode(cfg.Mode, cfg.OllamaHost, cfg.RequestTimeout())

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.LoadEngine(ctx, cfg.PolicyFile)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize service
	svc := service.New(db, llmClient, cfg, policyEngine)

	// Create Echo server
	server := handler.NewServer(cfg, svc)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down talkflow...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("talkflow stopped")
}

func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreSQLite:
		log.Printf("Database: %s", cfg.DatabaseURL)
		return store.NewSQLiteStore(cfg.DatabaseURL)
	default:
		return store.NewMemoryStore(), nil
	}
}
