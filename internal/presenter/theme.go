package presenter

import (
	"github.com/bobby-s-dev/weather-screen/internal/models"
)

var themes = map[models.ThemeName]models.Theme{
	models.ThemeCloudy: {Name: models.ThemeCloudy, Background: "cloud_background", Animation: "cloud"},
	models.ThemeSunny:  {Name: models.ThemeSunny, Background: "sunny_background", Animation: "sun"},
	models.ThemeRainy:  {Name: models.ThemeRainy, Background: "rain_background", Animation: "rain"},
	models.ThemeSnowy:  {Name: models.ThemeSnowy, Background: "snow_background", Animation: "snow"},
}

// Labels are matched exactly, case included.
var conditionThemes = map[string]models.ThemeName{
	"Haze":          models.ThemeCloudy,
	"Partly Clouds": models.ThemeCloudy,
	"Clouds":        models.ThemeCloudy,
	"Overcast":      models.ThemeCloudy,
	"Mist":          models.ThemeCloudy,
	"Foggy":         models.ThemeCloudy,
	"Fog":           models.ThemeCloudy,

	"Clear Sky": models.ThemeSunny,
	"Sunny":     models.ThemeSunny,
	"Clear":     models.ThemeSunny,

	"Light Rain":    models.ThemeRainy,
	"Drizzle":       models.ThemeRainy,
	"Moderate Rain": models.ThemeRainy,
	"Showers":       models.ThemeRainy,
	"Heavy Rain":    models.ThemeRainy,
	"Rain":          models.ThemeRainy,

	"Light Snow":    models.ThemeSnowy,
	"Moderate Snow": models.ThemeSnowy,
	"Heavy Snow":    models.ThemeSnowy,
	"Blizzard":      models.ThemeSnowy,
	"Snow":          models.ThemeSnowy,
}

const defaultTheme = models.ThemeSunny

// ThemeFor never fails: labels outside the table get the sunny theme.
func ThemeFor(condition string) models.Theme {
	name, ok := conditionThemes[condition]
	if !ok {
		name = defaultTheme
	}
	return themes[name]
}

// ThemeTable returns a copy of the condition label table.
func ThemeTable() map[string]models.ThemeName {
	table := make(map[string]models.ThemeName, len(conditionThemes))
	for label, name := range conditionThemes {
		table[label] = name
	}
	return table
}
