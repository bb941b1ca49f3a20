package config

import "strings"

type Geocode struct{}

var _ GeocodeConfig = Geocode{}

func (Geocode) GetOpenWeatherAPIKey() string {
	return GetEnv("OPENWEATHER_API_KEY", "")
}

func (Geocode) GetGeocodeBaseURL() string {
	return strings.TrimRight(GetEnv("OPENWEATHER_GEO_URL", "https://api.openweathermap.org/geo/1.0"), "/")
}
