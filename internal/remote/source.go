// Copyright (C) 2025-2026 Blockkit, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package remote fetches raw pattern records from the pattern directory
// over HTTP.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blockkit/patterncache/internal/pattern"
)

const (
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize bounds how much of a directory response we will
	// read. 8 MB is far beyond any sane catalog.
	MaxResponseSize = 8 * 1024 * 1024
)

// FetchError is returned for any failed directory fetch: transport
// errors, non-200 statuses, oversized or malformed responses.
type FetchError struct {
	Reason string // stable reason for metrics/log grouping
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch patterns (%s): %v", e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func fetchErr(reason string, err error) *FetchError {
	recordFetchError(reason)
	return &FetchError{Reason: reason, Err: err}
}

// Source retrieves the pattern catalog from a directory endpoint.
type Source struct {
	client *http.Client
	url    string
}

// NewSource creates a directory client for the given endpoint URL.
// A non-positive timeout falls back to DefaultTimeout.
func NewSource(url string, timeout time.Duration) *Source {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Source{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

// Fetch downloads and decodes the raw pattern list. Records come back
// untrusted and unfiltered; exclusion filtering happens in the caller.
func (s *Source) Fetch(ctx context.Context) ([]pattern.Pattern, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fetchErr("bad_request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fetchErr("http_error", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fetchErr("bad_status", fmt.Errorf("directory returned status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fetchErr("read_error", err)
	}
	if int64(len(data)) > MaxResponseSize {
		return nil, fetchErr("size_exceeded", fmt.Errorf("response exceeds max size (%d bytes)", MaxResponseSize))
	}

	var patterns []pattern.Pattern
	if err := json.Unmarshal(data, &patterns); err != nil {
		return nil, fetchErr("decode_error", err)
	}
	return patterns, nil
}
