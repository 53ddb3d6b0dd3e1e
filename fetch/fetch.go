// Copyright 2025 The ChapterDB Authors
// This file is part of ChapterDB.
//
// ChapterDB is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ChapterDB is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with ChapterDB. If not, see <http://www.gnu.org/licenses/>.

// Package fetch pulls Chapter files by CID through an IPFS gateway for
// obtain_relevant_data (spec.md §4.6). Transport-level retry/backoff is
// hashicorp/go-retryablehttp's job; the spec's own "fetch, verify, on
// mismatch delete and retry exactly once" rule (§7, IntegrityFailure) is
// layered on top with cenkalti/backoff/v4 bounded to two attempts.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/thomaso-mirodin/intmath/intgr"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	cidpkg "github.com/chapterdb/todd/cid"
)

// ErrIntegrityFailure is returned when a fetched payload's CID does not
// match the requested one, even after the one allowed retry (spec.md §7).
var ErrIntegrityFailure = errors.New("fetch: integrity check failed")

// defaultGatewayURLTemplate matches original_source/src/ipfs.rs's default
// gateway.
const defaultGatewayURLTemplate = "https://ipfs.io/ipfs/%s"

// Result is one completed fetch, returned alongside its CID for callers
// collecting throughput metrics.
type Result struct {
	CIDv0    string
	Bytes    []byte
	Duration time.Duration
}

// Fetcher retrieves content-addressed payloads from a pluggable gateway,
// bounding concurrency with a semaphore and throttling with a rate limiter.
type Fetcher struct {
	GatewayURLTemplate string
	client             *retryablehttp.Client
	sem                *semaphore.Weighted
	limiter            *rate.Limiter
}

// New builds a Fetcher. concurrency bounds simultaneous in-flight requests;
// ratePerSecond throttles request starts (0 disables throttling).
func New(gatewayURLTemplate string, concurrency int, ratePerSecond float64) *Fetcher {
	if gatewayURLTemplate == "" {
		gatewayURLTemplate = defaultGatewayURLTemplate
	}
	concurrency = intgr.Max(1, concurrency)

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 3

	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}

	return &Fetcher{
		GatewayURLTemplate: gatewayURLTemplate,
		client:             client,
		sem:                semaphore.NewWeighted(int64(concurrency)),
		limiter:            limiter,
	}
}

// Fetch retrieves the payload for cidV0, verifying its CID on arrival.
// On a mismatch it retries exactly once before returning ErrIntegrityFailure
// (spec.md §7's IntegrityFailure row: "fetcher deletes and retries-once").
func (f *Fetcher) Fetch(ctx context.Context, cidV0 string) (Result, error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return Result{}, err
	}
	defer f.sem.Release(1)

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return Result{}, err
		}
	}

	start := time.Now()

	var body []byte
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(0), 1)
	err := backoff.Retry(func() error {
		b, fetchErr := f.fetchOnce(ctx, cidV0)
		if fetchErr != nil {
			return backoff.Permanent(fetchErr)
		}
		got, hashErr := cidpkg.Of(b)
		if hashErr != nil {
			return backoff.Permanent(hashErr)
		}
		if got != cidV0 {
			return errors.Wrapf(ErrIntegrityFailure, "cid %s", cidV0)
		}
		body = b
		return nil
	}, policy)

	if err != nil {
		if errors.Is(err, ErrIntegrityFailure) {
			return Result{}, errors.Wrapf(ErrIntegrityFailure, "cid %s: mismatched after retry", cidV0)
		}
		return Result{}, err
	}

	return Result{CIDv0: cidV0, Bytes: body, Duration: time.Since(start)}, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, cidV0 string) ([]byte, error) {
	url := fmt.Sprintf(f.GatewayURLTemplate, cidV0)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch: building request for %s", cidV0)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch: requesting %s", cidV0)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch: gateway returned %s for %s", resp.Status, cidV0)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch: reading body for %s", cidV0)
	}
	return b, nil
}
