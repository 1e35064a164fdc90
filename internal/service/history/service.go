package history

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/vidfetch/internal/domain"
	"github.com/vertextoedge/vidfetch/internal/port"
)

// Config contains history service configuration
type Config struct {
	// MaxAge is how long records are kept; zero keeps them forever
	MaxAge time.Duration

	// ListLimit is the number of records Recent returns
	ListLimit int
}

// DefaultConfig returns default history configuration
func DefaultConfig() *Config {
	return &Config{
		MaxAge:    30 * 24 * time.Hour,
		ListLimit: 20,
	}
}

// Service reads and maintains the download history
type Service struct {
	config *Config
	repo   port.HistoryRepository
	logger *zap.Logger
}

// New creates a new history Service
func New(cfg *Config, repo port.HistoryRepository, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		config: cfg,
		repo:   repo,
		logger: logger,
	}
}

// Recent returns the configured number of most recent records
func (s *Service) Recent() ([]*domain.HistoryRecord, error) {
	return s.List(s.config.ListLimit)
}

// List returns at most limit records, newest first
func (s *Service) List(limit int) ([]*domain.HistoryRecord, error) {
	records, err := s.repo.List(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return records, nil
}

// Total returns the number of stored records
func (s *Service) Total() (int, error) {
	n, err := s.repo.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// Get returns a single record
func (s *Service) Get(id string) (*domain.HistoryRecord, error) {
	return s.repo.Get(id)
}

// Prune removes records older than MaxAge
func (s *Service) Prune() (int, error) {
	if s.config.MaxAge <= 0 {
		return 0, nil
	}

	removed, err := s.repo.PruneOlderThan(s.config.MaxAge)
	if err != nil {
		s.logger.Error("failed to prune history", zap.Error(err))
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("pruned download history",
			zap.Int("count", removed),
			zap.Duration("max_age", s.config.MaxAge))
	}
	return removed, nil
}

// Recorder returns an event handler that writes terminal transfers to this history
func (s *Service) Recorder() *Recorder {
	return NewRecorder(s.repo, s.logger)
}
