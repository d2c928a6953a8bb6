package screen

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bobby-s-dev/weather-screen/internal/models"
	"go.uber.org/zap"
)

// Store holds the single live screen. Writers replace it whole, so readers
// never see fields from two different snapshots.
type Store struct {
	mu           sync.RWMutex
	current      models.Screen
	live         bool
	discardStale bool
	issued       atomic.Uint64
	discarded    atomic.Uint64
	logger       *zap.Logger
}

func NewStore(discardStale bool, logger *zap.Logger) *Store {
	return &Store{
		discardStale: discardStale,
		logger:       logger,
	}
}

// Begin hands out the generation for a new query.
func (s *Store) Begin() uint64 {
	return s.issued.Add(1)
}

// Apply makes sc the live screen. With stale discarding on, a completion
// older than the live screen is dropped and Apply returns false.
func (s *Store) Apply(generation uint64, sc models.Screen) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discardStale && s.live && generation <= s.current.Generation {
		s.discarded.Add(1)
		s.logger.Debug("Discarding stale screen",
			zap.Uint64("generation", generation),
			zap.Uint64("live_generation", s.current.Generation))
		return false
	}

	sc.Generation = generation
	sc.UpdatedAt = time.Now()
	s.current = sc
	s.live = true
	return true
}

// Current returns a copy of the live screen; ok is false until the first
// successful query.
func (s *Store) Current() (models.Screen, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.live
}

func (s *Store) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"live":            s.live,
		"live_generation": s.current.Generation,
		"issued":          s.issued.Load(),
		"stale_discarded": s.discarded.Load(),
		"discard_stale":   s.discardStale,
	}
}
