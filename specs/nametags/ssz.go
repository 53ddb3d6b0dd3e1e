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
	"github.com/chapterdb/todd/codec"
	"github.com/chapterdb/todd/model"
)

// sszCodec implements codec.ChapterCodec for the nametags Chapter shape.
// Record layout: [20]address, then a List<string> of names, then a
// List<string> of tags — each string list written as a count followed by
// that many WriteVarBytes strings, the same "count then variable section"
// shape the aai codec uses for its Appearance lists.
type sszCodec struct{}

// NewCodec returns the ssz+snappy Codec this spec uses (spec.md §4.1 table).
func NewCodec() *codec.Codec {
	return codec.NewSSZSnappy(sszCodec{})
}

func writeStringList(w *codec.Writer, ss []string) {
	w.WriteUint32(uint32(len(ss)))
	for _, s := range ss {
		w.WriteVarBytes([]byte(s))
	}
}

func readStringList(r *codec.Reader) ([]string, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	out := make([]string, count)
	for i := uint32(0); i < count; i++ {
		b, err := r.ReadVarBytes()
		if err != nil {
			return nil, err
		}
		out[i] = string(b)
	}
	return out, nil
}

func (sszCodec) MarshalChapter(ch model.Chapter) ([]byte, error) {
	records := ch.Records()
	w := codec.NewWriter(codec.HeaderLength + len(records)*64)
	codec.WriteHeader(w, uint16(ch.ChapterId().Index()), ch.VolumeId().NthPosition(), uint32(len(records)))
	for _, rec := range records {
		addr := rec.Key.(Address)
		w.WriteFixedBytes(addr[:])
		val := rec.Value.(NameTags)
		writeStringList(w, val.Names)
		writeStringList(w, val.Tags)
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
		names, err := readStringList(r)
		if err != nil {
			return nil, err
		}
		tags, err := readStringList(r)
		if err != nil {
			return nil, err
		}
		records = append(records, model.Record{Key: addr, Value: NameTags{Names: names, Tags: tags}})
	}
	if err := r.ExpectDone(); err != nil {
		return nil, err
	}
	chapterId := NthChapterId(int(hdr.ChapterIndex))
	volumeId := NthVolumeId(hdr.VolumePosition)
	return NewChapter(chapterId, volumeId, records), nil
}
