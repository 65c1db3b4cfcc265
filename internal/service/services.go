package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ptt-dev/ptt/internal/config"
	"github.com/ptt-dev/ptt/internal/log"
	"github.com/ptt-dev/ptt/internal/session"
	"github.com/ptt-dev/ptt/internal/storage"
)

// Services holds all service instances used by the application
type Services struct {
	Tracker *Tracker
	Timer   *TimerService
	Config  *ConfigService
	Logger  *log.Logger

	backend storage.Backend
}

// NewServices resolves the configuration, opens the configured storage
// backend and hydrates the stores. A nil logger is replaced by one writing to
// stderr at the configured level.
func NewServices(ctx context.Context, logger *log.Logger) (*Services, error) {
	cfg, configPath, err := config.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logger == nil {
		logCfg := log.DefaultConfig()
		logCfg.Level = log.ParseLevel(cfg.LogLevel)
		logger = log.New(logCfg)
		log.SetDefault(logger)
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	sessionPath, err := session.GetSessionPath()
	if err != nil {
		return nil, err
	}

	backend, err := storage.Open(cfg.StorageBackend, dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageBackend, err)
	}

	return NewServicesWith(ctx, backend, sessionPath, configPath, cfg, logger), nil
}

// NewServicesWith creates a new Services instance over an open backend
// (useful for testing)
func NewServicesWith(ctx context.Context, backend storage.Backend, sessionPath, configPath string, cfg config.Config, logger *log.Logger) *Services {
	if logger == nil {
		logger = log.Discard()
	}
	tracker := NewTracker(ctx, backend, cfg.MustLocation(), logger)

	return &Services{
		Tracker: tracker,
		Timer:   NewTimerService(sessionPath, tracker, cfg, logger),
		Config:  NewConfigService(configPath, cfg),
		Logger:  logger,
		backend: backend,
	}
}

// SetClock replaces the wall clock of every service.
func (s *Services) SetClock(now func() time.Time) {
	s.Tracker.now = now
	s.Timer.now = now
}

// Close releases the storage backend.
func (s *Services) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}
