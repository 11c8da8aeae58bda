package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/quotebill/quotebill/internal/platform/cache"
	"github.com/quotebill/quotebill/internal/shared"
)

// Store is the cache used for settings reads.
type Store interface {
	Get(ctx context.Context, id string, dst any) error
	Set(ctx context.Context, id string, value any) error
	Delete(ctx context.Context, id string) error
}

// Service loads and saves company settings.
type Service struct {
	repo     Repository
	cache    Store
	logger   *slog.Logger
	validate *validator.Validate
	loads    singleflight.Group

	// mu guards generations and orders cache writes from loads against the
	// invalidation in Save. A load only caches what it read if no Save for
	// the same user finished in between.
	mu          sync.Mutex
	generations map[string]uint64
}

// NewService constructs the settings service. store may be nil.
func NewService(repo Repository, store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        repo,
		cache:       store,
		logger:      logger,
		validate:    shared.NewValidator(),
		generations: make(map[string]uint64),
	}
}

// Load returns the user's settings, or Defaults when none are saved.
// Concurrent loads for the same user share one repository read, which runs
// detached from any single caller's cancellation.
func (s *Service) Load(ctx context.Context, userID uuid.UUID) (Settings, error) {
	key := userID.String()
	if s.cache != nil {
		var cached Settings
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("settings cache read", slog.String("user_id", key), slog.Any("error", err))
		}
	}

	v, err, _ := s.loads.Do(key, func() (any, error) {
		loadCtx := context.WithoutCancel(ctx)
		generation := s.generation(key)
		loaded, err := s.repo.Get(loadCtx, userID)
		if errors.Is(err, ErrNotFound) {
			loaded = Defaults()
			loaded.UserID = userID
			err = nil
		}
		if err != nil {
			return Settings{}, err
		}
		s.store(loadCtx, key, generation, loaded)
		return loaded, nil
	})
	if err != nil {
		return Settings{}, err
	}
	return v.(Settings), nil
}

// Save validates and persists the settings, then drops the cached copy.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, req SaveRequest) (Settings, error) {
	if err := shared.ValidateStruct(s.validate, req); err != nil {
		return Settings{}, fmt.Errorf("settings: %w", err)
	}
	current := Settings{UserID: userID}
	saved, err := s.repo.Upsert(ctx, req.apply(current))
	if err != nil {
		return Settings{}, err
	}
	s.invalidate(ctx, userID.String())
	return saved, nil
}

func (s *Service) generation(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[key]
}

func (s *Service) invalidate(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[key]++
	s.loads.Forget(key)
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("settings cache invalidate", slog.String("user_id", key), slog.Any("error", err))
	}
}

func (s *Service) store(ctx context.Context, key string, generation uint64, value Settings) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[key] != generation {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("settings cache write", slog.String("user_id", key), slog.Any("error", err))
	}
}
