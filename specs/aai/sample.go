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

package aai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/chapterdb/todd/spec"
)

// sampleChunkURLs are the upstream chunk files covering the documented
// sample window (blocks ~11.28M-15.51M, spec.md's worked example), fetched
// only when no bundled sample is present on disk.
var sampleChunkURLs = []string{
	"https://unchainedindex.io/sample/011_280_000-011_400_000.bin",
	"https://unchainedindex.io/sample/011_400_000-012_400_000.bin",
	"https://unchainedindex.io/sample/012_400_000-013_400_000.bin",
	"https://unchainedindex.io/sample/013_400_000-014_400_000.bin",
	"https://unchainedindex.io/sample/014_400_000-015_510_000.bin",
}

// SampleSource implements spec.SampleObtainer for aai. Fs is injected so
// tests can exercise it against an in-memory afero.Fs rather than the real
// disk.
type SampleSource struct {
	Fs         afero.Fs
	BundledDir string
	HTTP       *retryablehttp.Client
}

var _ spec.SampleObtainer = (*SampleSource)(nil)

// NewSampleSource wires a SampleSource against the real filesystem and a
// retrying HTTP client, mirroring the rest of this module's fetch policy.
func NewSampleSource(bundledDir string) *SampleSource {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil
	return &SampleSource{Fs: afero.NewOsFs(), BundledDir: bundledDir, HTTP: client}
}

// BundledSamplePath implements spec.SampleObtainer.
func (s *SampleSource) BundledSamplePath() (string, bool) {
	if s.BundledDir == "" {
		return "", false
	}
	ok, err := afero.DirExists(s.Fs, s.BundledDir)
	if err != nil || !ok {
		return "", false
	}
	entries, err := afero.ReadDir(s.Fs, s.BundledDir)
	if err != nil || len(entries) == 0 {
		return "", false
	}
	return s.BundledDir, true
}

// FetchRemoteSample implements spec.SampleObtainer: pulls the five
// documented sample chunk files down into destDir over HTTP, retrying
// transient failures (spec.md §1's "never overwrites existing non-sample
// data" is the engine's responsibility, not this method's).
func (s *SampleSource) FetchRemoteSample(ctx context.Context, destDir string) error {
	if err := s.Fs.MkdirAll(destDir, 0o755); err != nil {
		return errors.Wrap(err, "aai: creating sample destination")
	}
	for _, url := range sampleChunkURLs {
		if err := s.fetchOne(ctx, url, destDir); err != nil {
			return errors.Wrapf(err, "aai: fetching sample chunk %s", url)
		}
	}
	return nil
}

func (s *SampleSource) fetchOne(ctx context.Context, url, destDir string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	out, err := s.Fs.Create(filepath.Join(destDir, filepath.Base(url)))
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}
