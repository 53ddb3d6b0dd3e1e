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

package signatures

import (
	"context"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/chapterdb/todd/spec"
)

// sampleArchiveURL mirrors the well-known public 4byte signature database
// spec.md's worked example (`find("ddf252ad")` -> ERC-20 Transfer) draws
// from.
const sampleArchiveURL = "https://www.4byte.directory/api/v1/signatures/?format=json"

// SampleSource implements spec.SampleObtainer for signatures.
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

// remoteSignatureEntry is one row of the 4byte.directory "results" array:
// a single text signature and the selector it hashes to.
type remoteSignatureEntry struct {
	HexSignature  string `json:"hex_signature"`
	TextSignature string `json:"text_signature"`
}

// remoteSignaturePage is the 4byte.directory response envelope.
type remoteSignaturePage struct {
	Results []remoteSignatureEntry `json:"results"`
}

// FetchRemoteSample implements spec.SampleObtainer: downloads one page of
// the 4byte.directory signature database and materializes one file per
// selector under destDir (spec.md §6, "filename IS the key"), grouping the
// (possibly several) colliding text signatures for a given selector into
// that selector's single record file — mirroring specs/aai/sample.go's
// fetchOne, which writes one real file per unit of remote data rather than
// one combined blob.
func (s *SampleSource) FetchRemoteSample(ctx context.Context, destDir string) error {
	if err := s.Fs.MkdirAll(destDir, 0o755); err != nil {
		return errors.Wrap(err, "signatures: creating sample destination")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.archiveURL(), nil)
	if err != nil {
		return errors.Wrap(err, "signatures: building sample request")
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return errors.Wrap(err, "signatures: fetching sample archive")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("signatures: unexpected sample archive status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "signatures: reading sample archive body")
	}

	var page remoteSignaturePage
	if err := jsonAPI.Unmarshal(body, &page); err != nil {
		return errors.Wrap(err, "signatures: decoding sample archive")
	}

	bySelector := map[Selector]Texts{}
	for _, entry := range page.Results {
		sel, err := ParseSelector(entry.HexSignature)
		if err != nil {
			continue // skip malformed selectors rather than fail the whole sample
		}
		bySelector[sel] = append(bySelector[sel], entry.TextSignature)
	}

	for sel, texts := range bySelector {
		b, err := jsonAPI.Marshal(texts)
		if err != nil {
			return errors.Wrapf(err, "signatures: encoding sample record %s", sel)
		}
		if err := afero.WriteFile(s.Fs, destDir+"/"+recordFileName(sel), b, 0o644); err != nil {
			return errors.Wrapf(err, "signatures: writing sample record %s", sel)
		}
	}
	return nil
}
