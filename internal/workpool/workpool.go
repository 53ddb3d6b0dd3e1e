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

// Package workpool is the one bounded-concurrency helper shared by the
// engine's per-cell build fan-out and the fetcher's concurrent download
// pool (spec.md §5), so the two endorsed concurrency points in this module
// share a single reviewed implementation rather than two bespoke ones.
package workpool

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool runs bounded-concurrency work under a shared semaphore, stopping at
// the first error (errgroup's usual "first error wins, context cancelled"
// behavior).
type Pool struct {
	sem *semaphore.Weighted
	g   *errgroup.Group
	ctx context.Context
}

// New builds a Pool bounded to at most `concurrency` simultaneously running
// tasks, derived from ctx so an error in one task cancels the others'
// pending Acquire calls.
func New(ctx context.Context, concurrency int) (*Pool, context.Context) {
	if concurrency < 1 {
		concurrency = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	return &Pool{sem: semaphore.NewWeighted(int64(concurrency)), g: g, ctx: gctx}, gctx
}

// Go schedules fn and returns at once. fn runs in its own goroutine, which
// first waits on the semaphore for a free slot.
func (p *Pool) Go(fn func(ctx context.Context) error) {
	p.g.Go(func() error {
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			return err
		}
		defer p.sem.Release(1)
		return fn(p.ctx)
	})
}

// Wait blocks until every scheduled task has returned, and returns the
// first non-nil error any of them produced.
func (p *Pool) Wait() error {
	return p.g.Wait()
}
