// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package weather

import (
	"context"
	"fmt"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/logging"
)

const openMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

// openMeteo fetches current conditions from the free OpenMeteo API.
// It never resolves a place name.
type openMeteo struct {
	coords  Coordinates
	units   UnitSystem
	baseURL string
	http    *transport
	cm      *cache.Manager
	log     *logging.Logger
}

func newOpenMeteo(coords Coordinates, units UnitSystem, cm *cache.Manager, log *logging.Logger) *openMeteo {
	return &openMeteo{
		coords:  coords,
		units:   units,
		baseURL: openMeteoBaseURL,
		http:    newTransport(),
		cm:      cm,
		log:     log,
	}
}

type openMeteoResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
		Time        string  `json:"time"`
	} `json:"current_weather"`
}

// Fetch implements Provider.
func (p *openMeteo) Fetch(ctx context.Context) (Report, *dracerr.Error) {
	return cache.GetOrSet(p.cm, cacheKey, func() (Report, *dracerr.Error) {
		unit := "celsius"
		if p.units == Imperial {
			unit = "fahrenheit"
		}

		url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&current_weather=true&temperature_unit=%s",
			p.baseURL, p.coords.Lat, p.coords.Lon, unit)

		var resp openMeteoResponse
		if derr := p.http.fetchJSON(ctx, url, &resp); derr != nil {
			return Report{}, derr
		}

		if resp.CurrentWeather.Time == "" {
			return Report{}, dracerr.New(dracerr.ParseError, "no current_weather block in OpenMeteo response")
		}

		timestamp, derr := ParseISO8601(resp.CurrentWeather.Time)
		if derr != nil {
			return Report{}, derr
		}

		return Report{
			Temperature: resp.CurrentWeather.Temperature,
			Description: DescribeWMO(resp.CurrentWeather.WeatherCode),
			Timestamp:   timestamp,
		}, nil
	})
}
