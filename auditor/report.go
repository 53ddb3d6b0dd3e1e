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

package auditor

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// FormatTable renders an Audit as the kind of human-readable table an
// operator running check_completeness from a terminal expects — one row per
// Chapter that isn't cleanly Complete, plus a summary line.
func (a *Audit) FormatTable() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Chapter", "Status", "Ok", "Absent", "BadHash"})

	for _, ca := range a.Incomplete {
		t.AppendRow(table.Row{
			ca.Id.InterfaceId(),
			"incomplete",
			len(ca.Ok),
			len(ca.Absent),
			len(ca.BadHash),
		})
	}
	for _, id := range a.Absent {
		t.AppendRow(table.Row{id.InterfaceId(), "absent", 0, 0, 0})
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		len(a.Complete),
		len(a.Absent),
		len(a.Incomplete),
	})
	return t.Render()
}
