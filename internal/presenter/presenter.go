// Package presenter turns a weather snapshot into the strings the screen
// shows and picks its theme.
package presenter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bobby-s-dev/weather-screen/internal/models"
	"github.com/goodsign/monday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	clockLayout = "15:04"
	dayLayout   = "Monday"
	dateLayout  = "02 January 2006"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = monday.LocaleEnUS

// Presenter formats snapshots for one locale and timezone.
type Presenter struct {
	locale   monday.Locale
	location *time.Location
}

// New returns a presenter for one locale and timezone. An empty locale means
// en_US and a nil location means time.Local.
func New(locale string, location *time.Location) *Presenter {
	l := monday.Locale(locale)
	if locale == "" {
		l = DefaultLocale
	}
	if location == nil {
		location = time.Local
	}
	return &Presenter{locale: l, location: location}
}

// Present formats every field of snapshot. now drives the day and date
// labels; the snapshot's own timestamps are only used for sunrise and sunset.
func (p *Presenter) Present(snapshot *models.WeatherSnapshot, now time.Time) models.Screen {
	return models.Screen{
		Temperature:    Temperature(snapshot.Temp),
		Weather:        snapshot.Condition,
		MaxTemperature: "Max Temp: " + Temperature(snapshot.TempMax),
		MinTemperature: "Min Temp: " + Temperature(snapshot.TempMin),
		Humidity:       fmt.Sprintf("%d %%", snapshot.Humidity),
		WindSpeed:      formatDecimal(snapshot.WindSpeed) + " m/s",
		Sunrise:        p.Clock(snapshot.Sunrise),
		Sunset:         p.Clock(snapshot.Sunset),
		Pressure:       fmt.Sprintf("%d hPa", snapshot.Pressure),
		Condition:      snapshot.Condition,
		Day:            Capitalize(p.DayName(now)),
		Date:           p.Date(now),
		CityName:       Capitalize(snapshot.City),
		Theme:          ThemeFor(snapshot.Condition),
		// the animation restarts with every presented snapshot
		AnimationStartedAt: now,
	}
}

// Temperature truncates toward zero.
func Temperature(celsius float64) string {
	return fmt.Sprintf("%d °C", int64(math.Trunc(celsius)))
}

// Clock renders unix seconds as 24-hour HH:mm in the presenter's timezone.
func (p *Presenter) Clock(unixSeconds int64) string {
	return time.Unix(unixSeconds, 0).In(p.location).Format(clockLayout)
}

// DayName is the full weekday name of now, as written in the locale.
func (p *Presenter) DayName(now time.Time) string {
	return monday.Format(now.In(p.location), dayLayout, p.locale)
}

// Date renders now as "dd MMMM yyyy" in the locale.
func (p *Presenter) Date(now time.Time) string {
	return monday.Format(now.In(p.location), dateLayout, p.locale)
}

// Capitalize upper-cases the first character and lower-cases the rest.
// Full case mapping applies, so a leading "ß" becomes "SS".
func Capitalize(text string) string {
	if text == "" {
		return text
	}
	_, size := utf8.DecodeRuneInString(text)
	// Casers keep state between calls and must not be shared across goroutines.
	return cases.Upper(language.Und).String(text[:size]) + cases.Lower(language.Und).String(text[size:])
}

// formatDecimal always keeps a fractional digit: 3 -> "3.0", 3.25 -> "3.25".
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsNaN(v) || math.IsInf(v, 0) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}
