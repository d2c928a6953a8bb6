package models

import (
	"time"
)

// UnknownCondition is reported when the provider sends no condition entries.
const UnknownCondition = "unknown"

// WeatherSnapshot is the result of one successful query. It is never stored;
// the next successful query supersedes it.
type WeatherSnapshot struct {
	City      string  `json:"city"`
	Temp      float64 `json:"temp"`
	TempMax   float64 `json:"temp_max"`
	TempMin   float64 `json:"temp_min"`
	Humidity  int     `json:"humidity"`
	WindSpeed float64 `json:"wind_speed"`
	Pressure  int     `json:"pressure"`
	Sunrise   int64   `json:"sunrise"`
	Sunset    int64   `json:"sunset"`
	Condition string  `json:"condition"`
}

type ThemeName string

const (
	ThemeCloudy ThemeName = "cloudy"
	ThemeSunny  ThemeName = "sunny"
	ThemeRainy  ThemeName = "rainy"
	ThemeSnowy  ThemeName = "snowy"
)

// Theme pairs a background image with an animation. Assets are referenced by
// name only; the embedding UI resolves them.
type Theme struct {
	Name       ThemeName `json:"name"`
	Background string    `json:"background"`
	Animation  string    `json:"animation"`
}

// Screen is every display field of the live snapshot, already formatted.
type Screen struct {
	Temperature    string `json:"temperature"`
	Weather        string `json:"weather"`
	MaxTemperature string `json:"max_temperature"`
	MinTemperature string `json:"min_temperature"`
	Humidity       string `json:"humidity"`
	WindSpeed      string `json:"wind_speed"`
	Sunrise        string `json:"sunrise"`
	Sunset         string `json:"sunset"`
	Pressure       string `json:"pressure"`
	Condition      string `json:"condition"`
	Day            string `json:"day"`
	Date           string `json:"date"`
	CityName       string `json:"city_name"`

	Theme Theme `json:"theme"`
	// AnimationStartedAt marks where the theme animation was (re)started.
	AnimationStartedAt time.Time `json:"animation_started_at"`

	Generation uint64    `json:"generation"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DispatchResult is what a single asynchronous query resolves to.
type DispatchResult struct {
	City       string
	Generation uint64
	Snapshot   *WeatherSnapshot
	// Applied is false when the query failed or a newer screen was already live.
	Applied bool
	Err     error
}
