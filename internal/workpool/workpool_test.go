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

package workpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolRunsAllTasks(t *testing.T) {
	pool, _ := New(context.Background(), 4)
	var count int64
	for i := 0; i < 50; i++ {
		pool.Go(func(ctx context.Context) error {
			atomic.AddInt64(&count, 1)
			return nil
		})
	}
	require.NoError(t, pool.Wait())
	require.Equal(t, int64(50), count)
}

func TestPoolPropagatesFirstError(t *testing.T) {
	boom := errors.New("boom")
	pool, _ := New(context.Background(), 2)
	pool.Go(func(ctx context.Context) error { return boom })
	pool.Go(func(ctx context.Context) error { return nil })

	err := pool.Wait()
	require.ErrorIs(t, err, boom)
}

func TestPoolBoundsConcurrency(t *testing.T) {
	pool, _ := New(context.Background(), 2)
	var inFlight, maxInFlight int64
	for i := 0; i < 20; i++ {
		pool.Go(func(ctx context.Context) error {
			n := atomic.AddInt64(&inFlight, 1)
			for {
				old := atomic.LoadInt64(&maxInFlight)
				if n <= old || atomic.CompareAndSwapInt64(&maxInFlight, old, n) {
					break
				}
			}
			atomic.AddInt64(&inFlight, -1)
			return nil
		})
	}
	require.NoError(t, pool.Wait())
	require.LessOrEqual(t, maxInFlight, int64(2))
}
