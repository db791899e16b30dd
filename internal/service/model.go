package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
)

const healthCheckTimeout = 5 * time.Second

// ListModels returns the models the backend serves.
func (s *Service) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	models, err := s.llmClient.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	infos := make([]domain.ModelInfo, 0, len(models))
	for _, m := range models {
		infos = append(infos, domain.ModelInfo{
			Name:       m.Name,
			ModifiedAt: m.ModifiedAt,
			Size:       m.Size,
			Digest:     m.Digest,
			Details:    m.Details,
		})
	}
	return infos, nil
}

// Health reports whether the backend answers a model listing.
func (s *Service) Health(ctx context.Context) domain.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if _, err := s.llmClient.ListModels(ctx); err != nil {
		log.Printf("WARN: health check failed: %v", err)
		return domain.HealthStatus{Status: "unhealthy", Ollama: "disconnected"}
	}
	return domain.HealthStatus{Status: "healthy", Ollama: "connected"}
}
