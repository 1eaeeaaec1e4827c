// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package fetch downloads list sources over HTTP with retry and
// exponential backoff.
package fetch

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"grimm.is/dnswatch/internal/brand"
	"grimm.is/dnswatch/internal/clock"
	"grimm.is/dnswatch/internal/errors"
	"grimm.is/dnswatch/internal/logging"
	"grimm.is/dnswatch/internal/metrics"
)

// userAgent mirrors the compatibility agent some list hosts expect.
var userAgent = fmt.Sprintf("Mozilla/5.0 (compatible; %s/1.0)", brand.Name)

// maxListSize caps a single downloaded list at 10MB.
const maxListSize = 10 * 1024 * 1024

// Fetcher retrieves text resources with retry. It is stateless across
// calls apart from the reused HTTP client.
type Fetcher struct {
	client      *http.Client
	maxAttempts int
	logger      *logging.Logger
	metrics     *metrics.Registry
}

// New creates a Fetcher. maxAttempts is the total number of tries per
// URL; timeout bounds each individual request.
func New(maxAttempts int, timeout time.Duration, logger *logging.Logger, reg *metrics.Registry) *Fetcher {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Fetcher{
		client:      &http.Client{Timeout: timeout},
		maxAttempts: maxAttempts,
		logger:      logger,
		metrics:     reg,
	}
}

// Fetch downloads url, retrying transport-level failures (connection
// errors, timeouts, non-2xx statuses) up to maxAttempts times. Attempt
// i (0-indexed) is followed by a 2^i second backoff; there is no wait
// after the final attempt, and a canceled context interrupts the
// backoff immediately. On exhaustion the returned error carries the URL
// and the last cause.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := clock.SleepContext(ctx, time.Duration(1<<(attempt-1))*time.Second); err != nil {
				return "", errors.Wrapf(err, errors.KindTransient, "fetch of %s canceled", url)
			}
		}
		if err := ctx.Err(); err != nil {
			return "", errors.Wrapf(err, errors.KindTransient, "fetch of %s canceled", url)
		}

		f.logger.Info("downloading list", "url", url, "attempt", attempt+1, "max_attempts", f.maxAttempts)
		f.metrics.IncFetchAttempt()

		text, err := f.fetchOnce(ctx, url)
		if err == nil {
			return text, nil
		}
		lastErr = err
		f.metrics.IncFetchFailure()
		f.logger.Warn("fetch attempt failed", "url", url, "attempt", attempt+1, "error", err)
	}
	return "", errors.Wrapf(lastErr, errors.KindTransient, "download of %s failed after %d attempts", url, f.maxAttempts)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	if strings.HasSuffix(url, ".gz") || resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxListSize))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
