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

package nametags

import (
	"context"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/chapterdb/todd/spec"
)

// sampleArchiveURL is the remote sample dataset for the well-known set of
// addresses spec.md §1's worked examples reference.
const sampleArchiveURL = "https://raw.githubusercontent.com/chapterdb/todd-samples/main/nametags-sample.json"

// SampleSource implements spec.SampleObtainer for nametags.
type SampleSource struct {
	Fs         afero.Fs
	BundledDir string
	HTTP       *retryablehttp.Client
	// ArchiveURL overrides sampleArchiveURL; empty uses the default.
	ArchiveURL string
}

var _ spec.SampleObtainer = (*SampleSource)(nil)

// NewSampleSource wires a SampleSource against the real filesystem.
func NewSampleSource(bundledDir string) *SampleSource {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil
	return &SampleSource{Fs: afero.NewOsFs(), BundledDir: bundledDir, HTTP: client}
}

func (s *SampleSource) archiveURL() string {
	if s.ArchiveURL != "" {
		return s.ArchiveURL
	}
	return sampleArchiveURL
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

// FetchRemoteSample implements spec.SampleObtainer: downloads a single JSON
// document of {address: {names, tags}} entries and materializes one
// per-record file per the raw-source convention (spec.md §6, "filename IS
// the key"), so destDir comes out immediately readable by FsRawSource — the
// same one-file-per-record contract specs/aai/sample.go's fetchOne honors
// by writing one real chunk file per URL instead of a single combined blob.
func (s *SampleSource) FetchRemoteSample(ctx context.Context, destDir string) error {
	if err := s.Fs.MkdirAll(destDir, 0o755); err != nil {
		return errors.Wrap(err, "nametags: creating sample destination")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.archiveURL(), nil)
	if err != nil {
		return errors.Wrap(err, "nametags: building sample request")
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return errors.Wrap(err, "nametags: fetching sample archive")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("nametags: unexpected sample archive status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "nametags: reading sample archive body")
	}

	var byAddress map[string]NameTags
	if err := jsonAPI.Unmarshal(body, &byAddress); err != nil {
		return errors.Wrap(err, "nametags: decoding sample archive")
	}

	for rawAddr, nt := range byAddress {
		addr, err := ParseAddress(rawAddr)
		if err != nil {
			continue // skip malformed keys rather than fail the whole sample
		}
		b, err := jsonAPI.Marshal(nt)
		if err != nil {
			return errors.Wrapf(err, "nametags: encoding sample record %s", rawAddr)
		}
		if err := afero.WriteFile(s.Fs, destDir+"/"+recordFileName(addr), b, 0o644); err != nil {
			return errors.Wrapf(err, "nametags: writing sample record %s", rawAddr)
		}
	}
	return nil
}
