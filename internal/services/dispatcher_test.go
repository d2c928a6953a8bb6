package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bobby-s-dev/weather-screen/internal/config"
	"github.com/bobby-s-dev/weather-screen/internal/models"
	"github.com/bobby-s-dev/weather-screen/internal/presenter"
	"github.com/bobby-s-dev/weather-screen/internal/screen"
	"github.com/bobby-s-dev/weather-screen/pkg/client"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

const clearSkyBody = `{
	"weather": [{"main": "Clear Sky"}],
	"main": {"temp": 15.4, "temp_max": 18.2, "temp_min": 11.6, "humidity": 40, "pressure": 1012},
	"wind": {"speed": 3.2},
	"sys": {"sunrise": 1700000000, "sunset": 1700036000}
}`

var fixedNow = time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC)

func newProviderDispatcher(t *testing.T, url string, logger *zap.Logger) *Dispatcher {
	t.Helper()
	c := client.NewOpenWeatherClient("test-key", url, client.ClientConfig{Threshold: 5}, logger)
	return NewDispatcher(c, presenter.New("en_US", time.UTC), screen.NewStore(true, logger), logger).
		WithClock(func() time.Time { return fixedNow })
}

func TestDispatchEndToEnd(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "baku" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(clearSkyBody))
	}))
	defer ts.Close()

	d := newProviderDispatcher(t, ts.URL, zaptest.NewLogger(t))
	generation, results := d.Dispatch(context.Background(), "baku")

	result := <-results
	if result.Err != nil {
		t.Fatalf("expected success, got %v", result.Err)
	}
	if !result.Applied || result.Generation != generation {
		t.Fatalf("unexpected result: %+v", result)
	}

	sc, ok := d.Store().Current()
	if !ok {
		t.Fatal("expected a live screen")
	}
	checks := []struct{ name, got, want string }{
		{"temperature", sc.Temperature, "15 °C"},
		{"condition", sc.Condition, "Clear Sky"},
		{"weather", sc.Weather, "Clear Sky"},
		{"theme", string(sc.Theme.Name), string(models.ThemeSunny)},
		{"humidity", sc.Humidity, "40 %"},
		{"wind", sc.WindSpeed, "3.2 m/s"},
		{"pressure", sc.Pressure, "1012 hPa"},
		{"city", sc.CityName, "Baku"},
		{"max", sc.MaxTemperature, "Max Temp: 18 °C"},
		{"min", sc.MinTemperature, "Min Temp: 11 °C"},
		{"sunrise", sc.Sunrise, "22:13"},
		{"sunset", sc.Sunset, "08:13"},
		{"day", sc.Day, "Thursday"},
		{"date", sc.Date, "15 October 2026"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}

	if _, open := <-results; open {
		t.Fatal("results channel should be closed after one result")
	}
}

func TestFailedDispatchLeavesScreenUntouched(t *testing.T) {
	bodies := map[string]func(w http.ResponseWriter){
		"status": func(w http.ResponseWriter) { w.WriteHeader(http.StatusInternalServerError) },
		"decode": func(w http.ResponseWriter) { _, _ = w.Write([]byte(`{"main": [`)) },
	}
	for name, fail := range bodies {
		fail := fail
		t.Run(name, func(t *testing.T) {
			var failing atomic.Bool
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if failing.Load() {
					fail(w)
					return
				}
				_, _ = w.Write([]byte(clearSkyBody))
			}))
			defer ts.Close()

			core, logs := observer.New(zap.WarnLevel)
			d := newProviderDispatcher(t, ts.URL, zap.New(core))

			_, results := d.Dispatch(context.Background(), "baku")
			<-results
			before, _ := d.Store().Current()

			failing.Store(true)
			_, results = d.Dispatch(context.Background(), "oslo")
			result := <-results
			if result.Err == nil || result.Applied {
				t.Fatalf("expected failed, unapplied result: %+v", result)
			}

			after, _ := d.Store().Current()
			if after != before {
				t.Fatalf("screen changed after failure:\nbefore %+v\n after %+v", before, after)
			}

			entries := logs.FilterMessage("Failed to fetch current weather").All()
			if len(entries) != 1 {
				t.Fatalf("expected one failure log, got %d", len(entries))
			}
			if kind := entries[0].ContextMap()["kind"]; kind != name {
				t.Fatalf("expected kind %q, got %v", name, kind)
			}
			if got := d.GetStats()["failure_count"]; got != 1 {
				t.Fatalf("expected failure_count 1, got %v", got)
			}
		})
	}
}

func TestDispatchEmptyCity(t *testing.T) {
	d := NewDispatcher(nil, presenter.New("", time.UTC), screen.NewStore(true, zaptest.NewLogger(t)), zaptest.NewLogger(t))

	generation, results := d.Dispatch(context.Background(), "")
	result := <-results
	if generation != 0 || !errors.Is(result.Err, ErrEmptyCity) {
		t.Fatalf("expected ErrEmptyCity, got gen=%d %+v", generation, result)
	}
	if _, ok := d.Store().Current(); ok {
		t.Fatal("screen should still be empty")
	}
}

// gatedClient completes each city only when its gate is closed.
type gatedClient struct {
	gates map[string]chan struct{}
}

func (g *gatedClient) GetCurrentWeather(ctx context.Context, city string) (*models.WeatherSnapshot, error) {
	select {
	case <-g.gates[city]:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &models.WeatherSnapshot{City: city, Temp: 10, Condition: "Snow"}, nil
}

func TestOutOfOrderCompletions(t *testing.T) {
	cases := []struct {
		name         string
		discardStale bool
		wantCity     string
		wantApplied  bool
	}{
		{name: "stale discarded", discardStale: true, wantCity: "Second", wantApplied: false},
		{name: "last write wins", discardStale: false, wantCity: "First", wantApplied: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			logger := zaptest.NewLogger(t)
			gc := &gatedClient{gates: map[string]chan struct{}{
				"first":  make(chan struct{}),
				"second": make(chan struct{}),
			}}
			d := NewDispatcher(gc, presenter.New("", time.UTC), screen.NewStore(tc.discardStale, logger), logger)

			_, first := d.Dispatch(context.Background(), "first")
			_, second := d.Dispatch(context.Background(), "second")

			close(gc.gates["second"])
			if r := <-second; !r.Applied {
				t.Fatalf("newest query should apply: %+v", r)
			}

			close(gc.gates["first"])
			if r := <-first; r.Applied != tc.wantApplied {
				t.Fatalf("expected applied=%v for the older query, got %+v", tc.wantApplied, r)
			}

			d.Wait()
			sc, _ := d.Store().Current()
			if sc.CityName != tc.wantCity {
				t.Fatalf("expected %q on screen, got %q", tc.wantCity, sc.CityName)
			}
			if sc.Theme.Name != models.ThemeSnowy {
				t.Fatalf("expected snowy theme, got %q", sc.Theme.Name)
			}
		})
	}
}

func TestDefaultConfigSendsEveryQueryAfterFailures(t *testing.T) {
	var calls int32
	var recovered atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if !recovered.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(clearSkyBody))
	}))
	defer ts.Close()

	for _, key := range []string{"CIRCUIT_BREAKER_THRESHOLD", "CIRCUIT_BREAKER_TIMEOUT", "MAX_RETRIES", "HTTP_TIMEOUT", "LOCALE", "TIMEZONE"} {
		t.Setenv(key, "")
	}
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("OPENWEATHER_URL", ts.URL)

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	d := New(cfg, zaptest.NewLogger(t))

	for i := 0; i < 5; i++ {
		_, results := d.Dispatch(context.Background(), "baku")
		if r := <-results; !errors.Is(r.Err, client.ErrStatus) {
			t.Fatalf("attempt %d: expected ErrStatus, got %v", i, r.Err)
		}
	}

	recovered.Store(true)
	_, results := d.Dispatch(context.Background(), "baku")
	r := <-results
	if r.Err != nil || !r.Applied {
		t.Fatalf("query after recovery should reach the provider and apply: %+v", r)
	}
	if got := atomic.LoadInt32(&calls); got != 6 {
		t.Fatalf("expected 6 upstream calls, got %d", got)
	}
	if sc, _ := d.Store().Current(); sc.CityName != "Baku" {
		t.Fatalf("expected Baku on screen, got %q", sc.CityName)
	}
}
