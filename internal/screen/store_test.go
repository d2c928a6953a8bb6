package screen

import (
	"testing"

	"github.com/bobby-s-dev/weather-screen/internal/models"
	"go.uber.org/zap/zaptest"
)

func TestCurrentBeforeFirstApply(t *testing.T) {
	s := NewStore(true, zaptest.NewLogger(t))
	if _, ok := s.Current(); ok {
		t.Fatal("expected no live screen")
	}
}

func TestApplyReplacesWholeScreen(t *testing.T) {
	s := NewStore(true, zaptest.NewLogger(t))

	g1 := s.Begin()
	s.Apply(g1, models.Screen{CityName: "Baku", Temperature: "15 °C", Humidity: "40 %"})

	g2 := s.Begin()
	if !s.Apply(g2, models.Screen{CityName: "Oslo", Temperature: "2 °C"}) {
		t.Fatal("newer generation should apply")
	}

	sc, ok := s.Current()
	if !ok {
		t.Fatal("expected a live screen")
	}
	if sc.CityName != "Oslo" || sc.Temperature != "2 °C" || sc.Humidity != "" {
		t.Fatalf("screen mixes snapshots: %+v", sc)
	}
	if sc.Generation != g2 {
		t.Fatalf("expected generation %d, got %d", g2, sc.Generation)
	}
	if sc.UpdatedAt.IsZero() {
		t.Fatal("expected UpdatedAt to be set")
	}
}

func TestApplyDiscardsStaleGeneration(t *testing.T) {
	s := NewStore(true, zaptest.NewLogger(t))

	older := s.Begin()
	newer := s.Begin()

	if !s.Apply(newer, models.Screen{CityName: "Newer"}) {
		t.Fatal("newer should apply")
	}
	if s.Apply(older, models.Screen{CityName: "Older"}) {
		t.Fatal("older completion should be discarded")
	}

	sc, _ := s.Current()
	if sc.CityName != "Newer" {
		t.Fatalf("expected Newer, got %q", sc.CityName)
	}
	if got := s.GetStats()["stale_discarded"]; got != uint64(1) {
		t.Fatalf("expected one discard, got %v", got)
	}
}

func TestApplyLastWriteWinsWithoutGuard(t *testing.T) {
	s := NewStore(false, zaptest.NewLogger(t))

	older := s.Begin()
	newer := s.Begin()

	s.Apply(newer, models.Screen{CityName: "Newer"})
	if !s.Apply(older, models.Screen{CityName: "Older"}) {
		t.Fatal("without the guard every completion applies")
	}

	sc, _ := s.Current()
	if sc.CityName != "Older" {
		t.Fatalf("expected last write to win, got %q", sc.CityName)
	}
}
