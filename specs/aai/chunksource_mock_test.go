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

package aai_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/chapterdb/todd/specs/aai"
	"github.com/chapterdb/todd/specs/aai/mocks"
)

// TestExtractorLatestPossibleVolumeUsesGeneratedMock exercises the same
// LatestPossibleVolume path extractor_test.go covers with a hand-written
// fake, but via an EXPECT()-style generated mock — useful when a test wants
// to assert the extractor called the source with exact arguments rather
// than just checking its return value.
func TestExtractorLatestPossibleVolumeUsesGeneratedMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockChunkSource(ctrl)
	source.EXPECT().
		HighestCompleteBlock(gomock.Any(), "rawdir").
		Return(uint64(aai.BlockRangeWidth*2), true, nil)

	e := &aai.Extractor{Source: source}
	volumeId, err := e.LatestPossibleVolume(context.Background(), "rawdir")
	require.NoError(t, err)
	require.Equal(t, aai.NthVolumeId(1), volumeId)
}

func TestExtractorLatestPossibleVolumeInsufficientDataViaMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockChunkSource(ctrl)
	source.EXPECT().
		HighestCompleteBlock(gomock.Any(), "rawdir").
		Return(uint64(0), false, nil)

	e := &aai.Extractor{Source: source}
	_, err := e.LatestPossibleVolume(context.Background(), "rawdir")
	require.Error(t, err)
}
