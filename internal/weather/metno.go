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

const metNoBaseURL = "https://api.met.no/weatherapi/locationforecast/2.0/compact"

// metNo fetches the first timeseries entry from the Norwegian
// Meteorological Institute's location forecast. The API only speaks
// Celsius; imperial conversion happens client-side.
type metNo struct {
	coords  Coordinates
	units   UnitSystem
	baseURL string
	http    *transport
	cm      *cache.Manager
	log     *logging.Logger
}

func newMetNo(coords Coordinates, units UnitSystem, cm *cache.Manager, log *logging.Logger) *metNo {
	return &metNo{
		coords:  coords,
		units:   units,
		baseURL: metNoBaseURL,
		http:    newTransport(),
		cm:      cm,
		log:     log,
	}
}

type metNoResponse struct {
	Properties struct {
		Timeseries []struct {
			Time string `json:"time"`
			Data struct {
				Instant struct {
					Details struct {
						AirTemperature float64 `json:"air_temperature"`
					} `json:"details"`
				} `json:"instant"`
				Next1Hours *struct {
					Summary struct {
						SymbolCode string `json:"symbol_code"`
					} `json:"summary"`
				} `json:"next_1_hours"`
			} `json:"data"`
		} `json:"timeseries"`
	} `json:"properties"`
}

// Fetch implements Provider.
func (p *metNo) Fetch(ctx context.Context) (Report, *dracerr.Error) {
	return cache.GetOrSet(p.cm, cacheKey, func() (Report, *dracerr.Error) {
		url := fmt.Sprintf("%s?lat=%.4f&lon=%.4f", p.baseURL, p.coords.Lat, p.coords.Lon)

		var resp metNoResponse
		if derr := p.http.fetchJSON(ctx, url, &resp); derr != nil {
			return Report{}, derr
		}

		if len(resp.Properties.Timeseries) == 0 {
			return Report{}, dracerr.New(dracerr.ParseError, "no timeseries data in met.no response")
		}

		entry := resp.Properties.Timeseries[0]

		temp := entry.Data.Instant.Details.AirTemperature
		if p.units == Imperial {
			temp = temp*9.0/5.0 + 32.0
		}

		var description string
		if entry.Data.Next1Hours != nil {
			description = describeMetNoSymbol(entry.Data.Next1Hours.Summary.SymbolCode)
		}

		timestamp, derr := ParseISO8601(entry.Time)
		if derr != nil {
			return Report{}, derr
		}

		return Report{
			Temperature: temp,
			Description: description,
			Timestamp:   timestamp,
		}, nil
	})
}
