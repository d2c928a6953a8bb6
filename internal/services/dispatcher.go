package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bobby-s-dev/weather-screen/internal/config"
	"github.com/bobby-s-dev/weather-screen/internal/models"
	"github.com/bobby-s-dev/weather-screen/internal/presenter"
	"github.com/bobby-s-dev/weather-screen/internal/screen"
	"github.com/bobby-s-dev/weather-screen/pkg/client"
	"go.uber.org/zap"
)

var ErrEmptyCity = errors.New("city name is empty")

type WeatherClient interface {
	GetCurrentWeather(ctx context.Context, city string) (*models.WeatherSnapshot, error)
}

// Dispatcher issues one provider query per call and hands every successful
// result to the screen store. Earlier queries are never cancelled.
type Dispatcher struct {
	client    WeatherClient
	presenter *presenter.Presenter
	store     *screen.Store
	logger    *zap.Logger
	now       func() time.Time
	wg        sync.WaitGroup

	mu           sync.RWMutex
	lastSuccess  time.Time
	lastCity     string
	successCount int
	failureCount int
}

func NewDispatcher(weatherClient WeatherClient, p *presenter.Presenter, store *screen.Store, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		client:    weatherClient,
		presenter: p,
		store:     store,
		logger:    logger,
		now:       time.Now,
	}
}

// New wires the OpenWeatherMap client, presenter and store from cfg.
func New(cfg *config.Config, logger *zap.Logger) *Dispatcher {
	clientConfig := client.ClientConfig{
		Timeout:        cfg.WeatherAPI.Timeout,
		MaxRetries:     cfg.Retry.MaxRetries,
		RetryDelay:     cfg.Retry.Delay,
		Multiplier:     cfg.Retry.Multiplier,
		Threshold:      cfg.CircuitBreaker.Threshold,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}

	openWeatherClient := client.NewOpenWeatherClient(
		cfg.WeatherAPI.OpenWeatherAPIKey,
		cfg.WeatherAPI.OpenWeatherURL,
		clientConfig,
		logger,
	)
	logger.Info("OpenWeatherMap client initialized")

	return NewDispatcher(
		openWeatherClient,
		presenter.New(cfg.Screen.Locale, cfg.Screen.Timezone),
		screen.NewStore(cfg.Screen.DiscardStaleResponse, logger),
		logger,
	)
}

// WithClock replaces the clock used for the day and date labels.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

func (d *Dispatcher) Store() *screen.Store {
	return d.store
}

// Dispatch returns at once with the query's generation. The channel yields
// exactly one result and is then closed.
func (d *Dispatcher) Dispatch(ctx context.Context, city string) (uint64, <-chan models.DispatchResult) {
	results := make(chan models.DispatchResult, 1)

	if city == "" {
		d.logger.Warn("Ignoring query with empty city name")
		results <- models.DispatchResult{Err: ErrEmptyCity}
		close(results)
		return 0, results
	}

	generation := d.store.Begin()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(results)
		results <- d.fetch(ctx, city, generation)
	}()

	return generation, results
}

// Wait blocks until every dispatched query has completed.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) fetch(ctx context.Context, city string, generation uint64) models.DispatchResult {
	result := models.DispatchResult{City: city, Generation: generation}
	startTime := time.Now()

	snapshot, err := d.client.GetCurrentWeather(ctx, city)
	if err != nil {
		// the screen keeps whatever it showed before
		d.logger.Warn("Failed to fetch current weather",
			zap.String("city", city),
			zap.Uint64("generation", generation),
			zap.String("kind", failureKind(err)),
			zap.Error(err))
		d.mu.Lock()
		d.failureCount++
		d.mu.Unlock()
		result.Err = err
		return result
	}

	result.Snapshot = snapshot
	result.Applied = d.store.Apply(generation, d.presenter.Present(snapshot, d.now()))

	d.mu.Lock()
	d.successCount++
	if result.Applied {
		d.lastSuccess = time.Now()
		d.lastCity = city
	}
	d.mu.Unlock()

	d.logger.Info("Weather fetch completed",
		zap.String("city", city),
		zap.String("condition", snapshot.Condition),
		zap.Uint64("generation", generation),
		zap.Bool("applied", result.Applied),
		zap.Duration("duration", time.Since(startTime)))

	return result
}

func (d *Dispatcher) GetLastSuccessTime() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastSuccess
}

func (d *Dispatcher) GetStats() map[string]interface{} {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return map[string]interface{}{
		"last_success_time": d.lastSuccess,
		"last_city":         d.lastCity,
		"success_count":     d.successCount,
		"failure_count":     d.failureCount,
		"screen":            d.store.GetStats(),
	}
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, client.ErrStatus):
		return "status"
	case errors.Is(err, client.ErrDecode):
		return "decode"
	case errors.Is(err, client.ErrTransport):
		return "transport"
	default:
		return "unknown"
	}
}
