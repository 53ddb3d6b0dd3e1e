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

// Package engine is the orchestrator spec.md §4.6 describes: it owns a
// resolved Layout and Spec and implements every top-level operation
// (full_transform, extend, repair_from_raw, get_sample_data, find,
// generate_manifest, check_completeness, obtain_relevant_data) on top of
// them. The (ChapterId, VolumeId) build fan-out runs on a bounded
// internal/workpool.Pool; every worker owns a disjoint cell, so the
// single-Chapter sorted-write invariant holds without any cross-worker
// coordination beyond the pool's semaphore.
package engine

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/thomaso-mirodin/intmath/intgr"
	"go.uber.org/zap"

	"github.com/chapterdb/todd/auditor"
	"github.com/chapterdb/todd/config"
	"github.com/chapterdb/todd/fetch"
	"github.com/chapterdb/todd/internal/workpool"
	"github.com/chapterdb/todd/layout"
	"github.com/chapterdb/todd/manifest"
	"github.com/chapterdb/todd/model"
	"github.com/chapterdb/todd/spec"
)

// Stats summarizes one full_transform/extend/repair_from_raw run
// (original_source/src/lib.rs and examples/maintainer_* — dropped by the
// distillation, supplemented here).
type Stats struct {
	ChaptersWritten      int
	ChaptersSkippedEmpty int
	Duration             time.Duration
}

// Engine bundles a resolved Layout, its Spec, and the engine-wide knobs
// every operation needs.
type Engine struct {
	Layout *layout.Layout
	Spec   spec.Spec
	Config config.Config
	Logger *zap.Logger

	// chapterCache holds recently-decoded Chapters, keyed by on-disk path,
	// so a caller issuing many Find calls against the same hot Chapter
	// doesn't pay the read+decode cost every time. Nil when
	// Config.ChapterCacheSize <= 0.
	chapterCache *lru.Cache[string, model.Chapter]
}

// New builds an Engine. A nil logger is replaced with a discarding one.
func New(l *layout.Layout, s spec.Spec, cfg config.Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{Layout: l, Spec: s, Config: cfg, Logger: logger}
	if cfg.ChapterCacheSize > 0 {
		cache, err := lru.New[string, model.Chapter](cfg.ChapterCacheSize)
		if err == nil {
			e.chapterCache = cache
		}
	}
	return e
}

// FullTransform implements spec.md §4.6's full_transform: for every
// (chapterId, volumeId) pair, extract and, if non-empty, write.
func (e *Engine) FullTransform(ctx context.Context) (Stats, error) {
	e.Logger.Info("full_transform starting")
	volumeIds, err := e.Spec.AllVolumeIds(ctx, e.Layout.RawSource())
	if err != nil {
		e.Logger.Error("full_transform failed deriving volume ids", zap.Error(err))
		return Stats{}, err
	}
	stats, err := e.buildCells(ctx, volumeIds)
	if err != nil {
		e.Logger.Error("full_transform failed", zap.Error(err))
		return stats, err
	}
	e.Logger.Info("full_transform complete",
		zap.Int("chaptersWritten", stats.ChaptersWritten),
		zap.Int("chaptersSkippedEmpty", stats.ChaptersSkippedEmpty),
		zap.Duration("duration", stats.Duration))
	return stats, nil
}

// Extend implements spec.md §4.6's extend: find the highest sealed Volume
// already on disk, and sweep every new complete Volume since. Returns a
// zero Stats with no error if there is nothing new. Regenerates the
// manifest after any writes.
func (e *Engine) Extend(ctx context.Context) (Stats, error) {
	e.Logger.Info("extend starting")
	onDisk, found, err := e.Layout.LatestVolumeOnDisk(ctx)
	if err != nil {
		e.Logger.Error("extend failed reading latest on-disk volume", zap.Error(err))
		return Stats{}, err
	}
	start := uint64(0)
	if found {
		start = onDisk.NthPosition() + 1
	}

	latest, err := e.Spec.Extractor().LatestPossibleVolume(ctx, e.Layout.RawSource())
	if err != nil {
		if errors.Is(err, spec.ErrInsufficientData) {
			e.Logger.Info("extend found nothing new: insufficient raw data")
			return Stats{}, nil
		}
		e.Logger.Error("extend failed deriving latest possible volume", zap.Error(err))
		return Stats{}, err
	}
	if latest.NthPosition() < start {
		e.Logger.Info("extend found nothing new: already caught up")
		return Stats{}, nil
	}

	allVolumeIds, err := e.Spec.AllVolumeIds(ctx, e.Layout.RawSource())
	if err != nil {
		e.Logger.Error("extend failed deriving volume ids", zap.Error(err))
		return Stats{}, err
	}
	var newVolumeIds []model.VolumeId
	for _, v := range allVolumeIds {
		if v.NthPosition() >= start {
			newVolumeIds = append(newVolumeIds, v)
		}
	}
	if len(newVolumeIds) == 0 {
		e.Logger.Info("extend found nothing new")
		return Stats{}, nil
	}

	stats, err := e.buildCells(ctx, newVolumeIds)
	if err != nil {
		e.Logger.Error("extend failed building new volumes", zap.Error(err))
		return stats, err
	}
	if _, err := e.GenerateManifest(ctx); err != nil {
		e.Logger.Error("extend failed regenerating manifest", zap.Error(err))
		return stats, err
	}
	e.Logger.Info("extend complete",
		zap.Int("newVolumes", len(newVolumeIds)),
		zap.Int("chaptersWritten", stats.ChaptersWritten),
		zap.Duration("duration", stats.Duration))
	return stats, nil
}

// RepairFromRaw implements spec.md §4.6's repair_from_raw: like
// FullTransform, but skips any cell whose file already exists on disk.
func (e *Engine) RepairFromRaw(ctx context.Context) (Stats, error) {
	e.Logger.Info("repair_from_raw starting")
	volumeIds, err := e.Spec.AllVolumeIds(ctx, e.Layout.RawSource())
	if err != nil {
		e.Logger.Error("repair_from_raw failed deriving volume ids", zap.Error(err))
		return Stats{}, err
	}
	stats, err := e.buildCellsSkippingExisting(ctx, volumeIds)
	if err != nil {
		e.Logger.Error("repair_from_raw failed", zap.Error(err))
		return stats, err
	}
	e.Logger.Info("repair_from_raw complete",
		zap.Int("chaptersWritten", stats.ChaptersWritten),
		zap.Int("chaptersSkippedEmpty", stats.ChaptersSkippedEmpty),
		zap.Duration("duration", stats.Duration))
	return stats, nil
}

// GetSampleData implements spec.md §4.6's get_sample_data: copy a bundled
// raw sample if one exists, otherwise fetch remotely, then run
// full_transform and generate the manifest. Never overwrites an already
// populated raw source directory.
func (e *Engine) GetSampleData(ctx context.Context) (Stats, error) {
	e.Logger.Info("get_sample_data starting")
	rawDir := e.Layout.RawSource()
	fs := e.Layout.Fs()

	populated, err := dirHasEntries(fs, rawDir)
	if err != nil {
		e.Logger.Error("get_sample_data failed probing raw source dir", zap.Error(err))
		return Stats{}, err
	}
	if !populated {
		obtainer := e.Spec.SampleObtainer()
		if bundled, ok := obtainer.BundledSamplePath(); ok {
			e.Logger.Info("get_sample_data copying bundled sample", zap.String("bundledDir", bundled))
			if err := copyDir(fs, bundled, rawDir); err != nil {
				e.Logger.Error("get_sample_data failed copying bundled sample", zap.Error(err))
				return Stats{}, err
			}
		} else {
			e.Logger.Info("get_sample_data fetching remote sample")
			if err := obtainer.FetchRemoteSample(ctx, rawDir); err != nil {
				e.Logger.Error("get_sample_data failed fetching remote sample", zap.Error(err))
				return Stats{}, err
			}
		}
	} else {
		e.Logger.Info("get_sample_data raw source already populated, skipping fetch")
	}

	stats, err := e.FullTransform(ctx)
	if err != nil {
		e.Logger.Error("get_sample_data failed transforming sample", zap.Error(err))
		return stats, err
	}
	// Sample data is intentionally sparse (spec.md §4.7 non-goal), so this
	// is the one caller that needs the allowSparse exemption.
	if _, err := e.GenerateManifestSparse(ctx); err != nil {
		e.Logger.Error("get_sample_data failed generating sparse manifest", zap.Error(err))
		return stats, err
	}
	e.Logger.Info("get_sample_data complete", zap.Int("chaptersWritten", stats.ChaptersWritten))
	return stats, nil
}

// Find implements spec.md §4.6's find: normalize rawKey, derive the
// ChapterId, and scan every on-disk Volume file for that chapter in Volume
// order, collecting matching values.
func (e *Engine) Find(ctx context.Context, rawKey string) ([]model.RecordValue, error) {
	e.Logger.Debug("find starting", zap.String("rawKey", rawKey))
	query, err := e.Spec.RawKeyAsRecordKey(rawKey)
	if err != nil {
		e.Logger.Error("find failed parsing raw key", zap.String("rawKey", rawKey), zap.Error(err))
		return nil, err
	}
	chapterId := e.Spec.RecordKeyToChapterId(query)

	dir := e.Layout.ChapterDir(chapterId)
	fs := e.Layout.Fs()
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		e.Logger.Debug("find: chapter directory absent, no matches", zap.String("chapterDir", dir))
		return nil, nil // absent chapter directory: no matches, not an error
	}

	ext := "." + e.Spec.Codec().Ext()
	suffix := "_" + chapterId.InterfaceId() + ext
	type found struct {
		volumeId model.VolumeId
		name     string
	}
	var files []found
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		volIdStr := strings.TrimSuffix(name, suffix)
		volumeId, err := e.Spec.VolumeIdFromInterfaceId(volIdStr)
		if err != nil {
			continue
		}
		files = append(files, found{volumeId: volumeId, name: name})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].volumeId.NthPosition() < files[j].volumeId.NthPosition()
	})

	var values []model.RecordValue
	for _, f := range files {
		path := dir + "/" + f.name
		ch, cached := e.cachedChapter(path)
		if !cached {
			raw, err := afero.ReadFile(fs, path)
			if err != nil {
				e.Logger.Error("find failed reading chapter file", zap.String("path", path), zap.Error(err))
				return nil, errors.Wrapf(err, "engine: reading %s", f.name)
			}
			ch, err = e.Spec.Codec().Deserialize(raw)
			if err != nil {
				e.Logger.Error("find failed decoding chapter file", zap.String("path", path), zap.Error(err))
				return nil, errors.Wrapf(err, "engine: decoding %s", f.name)
			}
			e.cacheChapter(path, ch)
		}
		for _, rec := range ch.Records() {
			if e.Spec.KeyMatchesQuery(rec.Key, query) {
				values = append(values, rec.Value)
			}
		}
	}
	e.Logger.Debug("find complete", zap.String("rawKey", rawKey), zap.Int("matches", len(values)))
	return values, nil
}

func (e *Engine) cachedChapter(path string) (model.Chapter, bool) {
	if e.chapterCache == nil {
		return nil, false
	}
	return e.chapterCache.Get(path)
}

func (e *Engine) cacheChapter(path string, ch model.Chapter) {
	if e.chapterCache == nil {
		return
	}
	e.chapterCache.Add(path, ch)
}

// GenerateManifest implements spec.md §4.7 under the Layout's advisory
// single-writer lock, refusing an incomplete Default-mode dataset.
func (e *Engine) GenerateManifest(ctx context.Context) (*manifest.Manifest, error) {
	return e.generateManifest(ctx, false)
}

// GenerateManifestSparse is GenerateManifest with the Sample-mode
// allowSparse=true non-goal exemption (spec.md §4.7).
func (e *Engine) GenerateManifestSparse(ctx context.Context) (*manifest.Manifest, error) {
	return e.generateManifest(ctx, true)
}

func (e *Engine) generateManifest(ctx context.Context, allowSparse bool) (*manifest.Manifest, error) {
	e.Logger.Info("generate_manifest starting", zap.Bool("allowSparse", allowSparse))
	var m *manifest.Manifest
	err := e.Layout.LockManifest(ctx, func() error {
		var genErr error
		m, genErr = manifest.Generate(e.Layout, e.Spec, allowSparse)
		if genErr != nil {
			return genErr
		}
		return manifest.Write(e.Layout, m)
	})
	if err != nil {
		e.Logger.Error("generate_manifest failed", zap.Error(err))
		return nil, err
	}
	e.Logger.Info("generate_manifest complete", zap.Int("entries", len(m.ChapterCIDs)))
	return m, nil
}

// CheckCompleteness implements spec.md §4.6's check_completeness, reading
// the manifest from disk and delegating classification to the auditor.
func (e *Engine) CheckCompleteness(ctx context.Context, opts auditor.Options) (*auditor.Audit, error) {
	e.Logger.Info("check_completeness starting", zap.Bool("strictHash", opts.StrictHash))
	m, err := manifest.Read(e.Layout, e.Spec.SpecVersion())
	if err != nil {
		e.Logger.Error("check_completeness failed reading manifest", zap.Error(err))
		return nil, err
	}
	audit, err := auditor.Run(e.Layout, e.Spec, m, opts)
	if err != nil {
		e.Logger.Error("check_completeness failed", zap.Error(err))
		return nil, err
	}
	e.Logger.Info("check_completeness complete")
	return audit, nil
}

// ObtainRelevantData implements spec.md §4.6's obtain_relevant_data: for
// each user key, derive its ChapterId, find manifest entries under those
// chapters absent locally, and fetch+write them. Each fetch is verified by
// Fetcher.Fetch before being committed to disk.
func (e *Engine) ObtainRelevantData(ctx context.Context, userKeys []string, fetcher *fetch.Fetcher) error {
	e.Logger.Info("obtain_relevant_data starting", zap.Int("userKeys", len(userKeys)))
	m, err := manifest.Read(e.Layout, e.Spec.SpecVersion())
	if err != nil {
		e.Logger.Error("obtain_relevant_data failed reading manifest", zap.Error(err))
		return err
	}

	wantChapters := make(map[string]bool)
	for _, raw := range userKeys {
		key, err := e.Spec.RawKeyAsRecordKey(raw)
		if err != nil {
			e.Logger.Error("obtain_relevant_data failed parsing user key", zap.String("rawKey", raw), zap.Error(err))
			return err
		}
		wantChapters[e.Spec.RecordKeyToChapterId(key).InterfaceId()] = true
	}

	fs := e.Layout.Fs()
	byChapter := manifest.EntriesByChapter(m)
	concurrency := intgr.Max(1, e.Config.DownloadConcurrency)
	pool, _ := workpool.New(ctx, concurrency)

	for chapterInterfaceId := range wantChapters {
		for _, entry := range byChapter[chapterInterfaceId] {
			entry := entry
			chapterId, err := e.Spec.ChapterIdFromInterfaceId(chapterInterfaceId)
			if err != nil {
				e.Logger.Error("obtain_relevant_data failed parsing chapter interface id",
					zap.String("chapterInterfaceId", chapterInterfaceId), zap.Error(err))
				return err
			}
			volumeId, err := e.Spec.VolumeIdFromInterfaceId(entry.VolumeInterfaceId)
			if err != nil {
				e.Logger.Error("obtain_relevant_data failed parsing volume interface id",
					zap.String("volumeInterfaceId", entry.VolumeInterfaceId), zap.Error(err))
				return err
			}
			path := e.Layout.ChapterFilePath(chapterId, volumeId)
			if ok, _ := afero.Exists(fs, path); ok {
				continue
			}

			pool.Go(func(ctx context.Context) error {
				res, err := fetcher.Fetch(ctx, entry.CIDv0)
				if err != nil {
					e.Logger.Error("obtain_relevant_data failed fetching", zap.String("cid", entry.CIDv0), zap.Error(err))
					return err
				}
				if err := fs.MkdirAll(e.Layout.ChapterDir(chapterId), 0o755); err != nil {
					return errors.Wrapf(err, "engine: creating %s", e.Layout.ChapterDir(chapterId))
				}
				return afero.WriteFile(fs, path, res.Bytes, 0o644)
			})
		}
	}
	if err := pool.Wait(); err != nil {
		e.Logger.Error("obtain_relevant_data failed", zap.Error(err))
		return err
	}
	e.Logger.Info("obtain_relevant_data complete")
	return nil
}

// buildCells runs the extractor over every (chapterId, volumeId) pair and
// writes each non-empty result, bounded by Config.BuildWorkers.
func (e *Engine) buildCells(ctx context.Context, volumeIds []model.VolumeId) (Stats, error) {
	return e.build(ctx, volumeIds, false)
}

// buildCellsSkippingExisting is buildCells for repair_from_raw: any cell
// whose file already exists on disk is left untouched.
func (e *Engine) buildCellsSkippingExisting(ctx context.Context, volumeIds []model.VolumeId) (Stats, error) {
	return e.build(ctx, volumeIds, true)
}

func (e *Engine) build(ctx context.Context, volumeIds []model.VolumeId, skipExisting bool) (Stats, error) {
	start := time.Now()
	concurrency := intgr.Max(1, e.Config.BuildWorkers)
	pool, _ := workpool.New(ctx, concurrency)

	var written, skippedEmpty int64
	fs := e.Layout.Fs()

	for _, chapterId := range e.Spec.AllChapterIds() {
		for _, volumeId := range volumeIds {
			chapterId, volumeId := chapterId, volumeId
			pool.Go(func(ctx context.Context) error {
				path := e.Layout.ChapterFilePath(chapterId, volumeId)
				if skipExisting {
					if ok, _ := afero.Exists(fs, path); ok {
						return nil
					}
				}

				ch, ok, err := e.Spec.Extractor().ChapterFromRaw(ctx, chapterId, volumeId, e.Layout.RawSource())
				if err != nil {
					return err
				}
				if !ok {
					atomic.AddInt64(&skippedEmpty, 1)
					return nil
				}

				b, err := e.Spec.Codec().Serialize(ch)
				if err != nil {
					return err
				}
				if err := fs.MkdirAll(e.Layout.ChapterDir(chapterId), 0o755); err != nil {
					return errors.Wrapf(err, "engine: creating %s", e.Layout.ChapterDir(chapterId))
				}
				if err := afero.WriteFile(fs, path, b, 0o644); err != nil {
					return errors.Wrapf(err, "engine: writing %s", path)
				}
				atomic.AddInt64(&written, 1)
				return nil
			})
		}
	}

	if err := pool.Wait(); err != nil {
		e.Logger.Error("build fan-out failed", zap.Error(err))
		return Stats{}, err
	}
	stats := Stats{
		ChaptersWritten:      int(written),
		ChaptersSkippedEmpty: int(skippedEmpty),
		Duration:             time.Since(start),
	}
	e.Logger.Debug("build fan-out complete",
		zap.Int("volumes", len(volumeIds)),
		zap.Int("chaptersWritten", stats.ChaptersWritten),
		zap.Int("chaptersSkippedEmpty", stats.ChaptersSkippedEmpty),
		zap.Bool("skipExisting", skipExisting))
	return stats, nil
}

func dirHasEntries(fs afero.Fs, dir string) (bool, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return false, nil
	}
	return len(entries) > 0, nil
}

func copyDir(fs afero.Fs, src, dst string) error {
	entries, err := afero.ReadDir(fs, src)
	if err != nil {
		return errors.Wrapf(err, "engine: reading sample dir %s", src)
	}
	if err := fs.MkdirAll(dst, 0o755); err != nil {
		return errors.Wrapf(err, "engine: creating %s", dst)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		b, err := afero.ReadFile(fs, src+"/"+entry.Name())
		if err != nil {
			return errors.Wrapf(err, "engine: reading %s", entry.Name())
		}
		if err := afero.WriteFile(fs, dst+"/"+entry.Name(), b, 0o644); err != nil {
			return errors.Wrapf(err, "engine: writing %s", entry.Name())
		}
	}
	return nil
}
