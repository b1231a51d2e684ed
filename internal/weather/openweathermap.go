// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/logging"
)

const owmBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// openWeatherMap is the only provider that accepts a city name and the
// only one that resolves a place name for the report.
type openWeatherMap struct {
	location Location
	units    UnitSystem
	apiKey   string
	baseURL  string
	http     *transport
	cm       *cache.Manager
	log      *logging.Logger
}

func newOpenWeatherMap(location Location, units UnitSystem, apiKey string, cm *cache.Manager, log *logging.Logger) *openWeatherMap {
	return &openWeatherMap{
		location: location,
		units:    units,
		apiKey:   apiKey,
		baseURL:  owmBaseURL,
		http:     newTransport(),
		cm:       cm,
		log:      log,
	}
}

type owmResponse struct {
	// Cod is a number on success and sometimes a quoted string on
	// errors, so it is parsed by hand.
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
	Name    string          `json:"name"`
	Main    struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Dt int64 `json:"dt"`
}

// Fetch implements Provider.
func (p *openWeatherMap) Fetch(ctx context.Context) (Report, *dracerr.Error) {
	return cache.GetOrSet(p.cm, cacheKey, func() (Report, *dracerr.Error) {
		query := url.Values{}
		if p.location.City != "" {
			query.Set("q", p.location.City)
		} else {
			query.Set("lat", fmt.Sprintf("%.4f", p.location.Coords.Lat))
			query.Set("lon", fmt.Sprintf("%.4f", p.location.Coords.Lon))
		}
		query.Set("appid", p.apiKey)
		query.Set("units", p.units.String())

		body, _, derr := p.http.fetchBody(ctx, p.baseURL+"?"+query.Encode())
		if derr != nil {
			return Report{}, derr
		}

		var resp owmResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return Report{}, dracerr.Newf(dracerr.ParseError, "failed to parse JSON response: %v", err)
		}

		if derr := checkOWMCod(resp.Cod, resp.Message); derr != nil {
			return Report{}, derr
		}

		if len(resp.Weather) == 0 {
			return Report{}, dracerr.New(dracerr.ParseError, "no weather block in OpenWeatherMap response")
		}

		return Report{
			Temperature: resp.Main.Temp,
			Name:        resp.Name,
			Description: resp.Weather[0].Description,
			Timestamp:   resp.Dt,
		}, nil
	})
}

// checkOWMCod maps the API's embedded status field: 401 is a bad key, 404
// an unknown location, and anything else non-200 (429 included) means the
// service is unusable right now.
func checkOWMCod(raw json.RawMessage, message string) *dracerr.Error {
	if len(raw) == 0 {
		return dracerr.New(dracerr.ParseError, "no cod field in OpenWeatherMap response")
	}

	cod, err := strconv.Atoi(strings.Trim(string(raw), `"`))
	if err != nil {
		return dracerr.Newf(dracerr.ParseError, "unparseable cod field %s", raw)
	}

	switch cod {
	case 200:
		return nil
	case 401:
		return dracerr.Newf(dracerr.PermissionDenied, "OpenWeatherMap rejected the API key: %s", message)
	case 404:
		return dracerr.Newf(dracerr.NotFound, "OpenWeatherMap location not found: %s", message)
	default:
		return dracerr.Newf(dracerr.ApiUnavailable, "OpenWeatherMap returned cod %d: %s", cod, message)
	}
}
