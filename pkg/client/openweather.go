package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/bobby-s-dev/weather-screen/internal/models"
	"go.uber.org/zap"
)

const (
	DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5"
	metricUnits           = "metric"
)

type OpenWeatherClient struct {
	*BaseClient
	apiKey  string
	baseURL string
}

// OpenWeatherCurrentResponse holds the subset of /weather the screen shows.
// main, wind and sys are pointers so a body without them fails to decode.
type OpenWeatherCurrentResponse struct {
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp     float64 `json:"temp"`
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Pressure int     `json:"pressure"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys *struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Name string `json:"name"`
}

func NewOpenWeatherClient(apiKey, baseURL string, config ClientConfig, logger *zap.Logger) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	baseClient := NewBaseClient("openweather", config, logger)
	return &OpenWeatherClient{
		BaseClient: baseClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// CurrentWeatherURL builds the request for city. The credential and unit
// system are fixed per client.
func (c *OpenWeatherClient) CurrentWeatherURL(city string) string {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", metricUnits)
	return c.baseURL + "/weather?" + q.Encode()
}

func (c *OpenWeatherClient) GetCurrentWeather(ctx context.Context, city string) (*models.WeatherSnapshot, error) {
	data, err := c.GetWithRetry(ctx, c.CurrentWeatherURL(city))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	response, err := decodeCurrent(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	condition := models.UnknownCondition
	if len(response.Weather) > 0 {
		condition = response.Weather[0].Main
	}

	return &models.WeatherSnapshot{
		City:      city,
		Temp:      response.Main.Temp,
		TempMax:   response.Main.TempMax,
		TempMin:   response.Main.TempMin,
		Humidity:  response.Main.Humidity,
		WindSpeed: response.Wind.Speed,
		Pressure:  response.Main.Pressure,
		Sunrise:   response.Sys.Sunrise,
		Sunset:    response.Sys.Sunset,
		Condition: condition,
	}, nil
}

func decodeCurrent(data []byte) (*OpenWeatherCurrentResponse, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: empty body", ErrDecode)
	}

	var response OpenWeatherCurrentResponse
	if err := json.Unmarshal(trimmed, &response); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	switch {
	case response.Main == nil:
		return nil, fmt.Errorf("%w: missing main", ErrDecode)
	case response.Wind == nil:
		return nil, fmt.Errorf("%w: missing wind", ErrDecode)
	case response.Sys == nil:
		return nil, fmt.Errorf("%w: missing sys", ErrDecode)
	}

	return &response, nil
}
