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
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pupbrained/draconisplusplus-sub000/internal/version"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

const (
	totalTimeout   = 10 * time.Second
	connectTimeout = 5 * time.Second

	// maxResponseBytes bounds a misbehaving endpoint; real responses are
	// a few kilobytes.
	maxResponseBytes = 1 << 20
)

// userAgent identifies draconis to weather APIs. met.no's terms require a
// contactable identifier.
var userAgent = "draconis/" + version.Version + " github.com/pupbrained/draconisplusplus-sub000"

// transport is the HTTP client shared by the providers: bounded timeouts,
// no redirects, and client-side throttling toward the free APIs.
type transport struct {
	client  *http.Client
	limiter *rate.Limiter
}

func newTransport() *transport {
	dialer := &net.Dialer{Timeout: connectTimeout}

	return &transport{
		client: &http.Client{
			Timeout: totalTimeout,
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				TLSHandshakeTimeout: connectTimeout,
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// fetchBody performs a GET and returns the body and status code. Any
// transport-level failure is ApiUnavailable; status interpretation is the
// caller's business.
func (t *transport) fetchBody(ctx context.Context, url string) ([]byte, int, *dracerr.Error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, 0, dracerr.Newf(dracerr.ApiUnavailable, "rate limiter interrupted: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, dracerr.Newf(dracerr.ApiUnavailable, "building weather request: %v", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, 0, dracerr.Newf(dracerr.ApiUnavailable, "weather API unreachable: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, 0, dracerr.Newf(dracerr.ApiUnavailable, "reading weather response: %v", err)
	}

	return body, resp.StatusCode, nil
}

// fetchJSON performs a GET expecting a 200 with a JSON body decoded into
// out. Shape violations are ParseError.
func (t *transport) fetchJSON(ctx context.Context, url string, out any) *dracerr.Error {
	body, status, derr := t.fetchBody(ctx, url)
	if derr != nil {
		return derr
	}

	if status != http.StatusOK {
		return dracerr.Newf(dracerr.ApiUnavailable, "weather API returned status %d", status)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return dracerr.Newf(dracerr.ParseError, "failed to parse JSON response: %v", err)
	}
	return nil
}
