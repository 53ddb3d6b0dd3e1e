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
	"github.com/chapterdb/todd/codec"
	"github.com/chapterdb/todd/model"
)

// sszCodec implements codec.ChapterCodec for the aai Chapter shape. Record
// layout: [20]address, then a List<Appearance, Nmax> of (block uint64,
// index uint32) pairs — a fixed-size element list, so no per-appearance
// offset table is needed, only a count.
type sszCodec struct{}

// NewCodec returns the ssz+snappy Codec this spec uses (spec.md §4.1 table).
func NewCodec() *codec.Codec {
	return codec.NewSSZSnappy(sszCodec{})
}

func (sszCodec) MarshalChapter(ch model.Chapter) ([]byte, error) {
	records := ch.Records()
	w := codec.NewWriter(codec.HeaderLength + len(records)*32)
	codec.WriteHeader(w, uint16(ch.ChapterId().Index()), ch.VolumeId().NthPosition(), uint32(len(records)))
	for _, rec := range records {
		addr := rec.Key.(Address)
		w.WriteFixedBytes(addr[:])
		apps := rec.Value.(Appearances)
		w.WriteUint32(uint32(len(apps)))
		for _, a := range apps {
			w.WriteUint64(a.Block)
			w.WriteUint32(a.Index)
		}
	}
	return w.Bytes(), nil
}

func (sszCodec) UnmarshalChapter(b []byte) (model.Chapter, error) {
	r := codec.NewReader(b)
	hdr, err := codec.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	records := make([]model.Record, 0, hdr.RecordCount)
	for i := uint32(0); i < hdr.RecordCount; i++ {
		addrBytes, err := r.ReadFixedBytes(AddressWidth)
		if err != nil {
			return nil, err
		}
		var addr Address
		copy(addr[:], addrBytes)
		count, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		apps := make(Appearances, count)
		for j := uint32(0); j < count; j++ {
			block, err := r.ReadUint64()
			if err != nil {
				return nil, err
			}
			index, err := r.ReadUint32()
			if err != nil {
				return nil, err
			}
			apps[j] = Appearance{Block: block, Index: index}
		}
		records = append(records, model.Record{Key: addr, Value: apps})
	}
	if err := r.ExpectDone(); err != nil {
		return nil, err
	}
	chapterId := NthChapterId(int(hdr.ChapterIndex))
	volumeId := NthVolumeId(hdr.VolumePosition)
	return NewChapter(chapterId, volumeId, records), nil
}
