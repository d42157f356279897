package reader

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/tsawler/pdftext/core"
)

var objHeaderPattern = regexp.MustCompile(`(?m)(?:^|[\r\n\s])(\d{1,10})\s+(\d{1,5})\s+obj\b`)

// reconstruct rebuilds the cross-reference table by scanning the whole file
// for "num gen obj" headers. Later definitions win, matching incremental
// updates. The trailer is taken from the last trailer dictionary or xref
// stream; failing that, the catalog is located by its /Type.
func (r *Reader) reconstruct() (*core.XRefTable, error) {
	data := make([]byte, r.size)
	n, err := r.src.ReadAt(data, 0)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read file for repair: %w", err)
	}
	data = data[:n]

	table := core.NewXRefTable()
	for _, m := range objHeaderPattern.FindAllSubmatchIndex(data, -1) {
		num, _ := strconv.Atoi(string(data[m[2]:m[3]]))
		gen, _ := strconv.Atoi(string(data[m[4]:m[5]]))
		table.Entries[num] = core.XRefEntry{Type: core.XRefInUse, Offset: int64(m[2]), Generation: gen}
	}
	if table.Size() == 0 {
		return nil, fmt.Errorf("no objects found while scanning file")
	}

	// swap the table in so objects can be loaded while repairing
	r.xref = table
	r.addObjectStreamEntries(table)

	if trailer, ok := lastTrailer(data); ok {
		table.Trailer = trailer
	}
	if !table.Trailer.Has("Root") {
		if root, ok := r.findCatalog(table); ok {
			table.Trailer["Root"] = root
		}
	}
	if !table.Trailer.Has("Root") {
		return nil, fmt.Errorf("no document catalog found while scanning file")
	}
	return table, nil
}

// addObjectStreamEntries registers the objects held in every object stream
// found by the scan, unless they were also found directly.
func (r *Reader) addObjectStreamEntries(table *core.XRefTable) {
	direct := make([]int, 0, len(table.Entries))
	for num := range table.Entries {
		direct = append(direct, num)
	}
	for _, num := range direct {
		obj, err := r.GetObject(num)
		if err != nil {
			continue
		}
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		if typ, _ := stream.Dict.GetName("Type"); typ != "ObjStm" {
			continue
		}
		stm, err := core.NewObjectStream(stream)
		if err != nil {
			continue
		}
		r.objStms[num] = stm
		for i := 0; i < stm.Len(); i++ {
			inner := stm.Number(i)
			if _, exists := table.Entries[inner]; !exists {
				table.Entries[inner] = core.XRefEntry{Type: core.XRefCompressed, StreamNumber: num, Index: i}
			}
		}
	}
}

// lastTrailer parses the last "trailer <<...>>" in data, or the dictionary
// of the last xref stream.
func lastTrailer(data []byte) (core.Dict, bool) {
	if idx := bytes.LastIndex(data, []byte("trailer")); idx >= 0 {
		obj, err := core.NewParser(bytes.NewReader(data[idx+len("trailer"):])).ParseObject()
		if dict, ok := obj.(core.Dict); err == nil && ok && dict.Has("Root") {
			return dict, true
		}
	}
	if idx := bytes.LastIndex(data, []byte("/XRef")); idx >= 0 {
		start := bytes.LastIndex(data[:idx], []byte("<<"))
		for tries := 0; start >= 0 && tries < 8; tries++ {
			obj, err := core.NewParser(bytes.NewReader(data[start:])).ParseObject()
			if dict, ok := obj.(core.Dict); err == nil && ok && dict.Has("Root") {
				return dict, true
			}
			start = bytes.LastIndex(data[:start], []byte("<<"))
		}
	}
	return nil, false
}

func (r *Reader) findCatalog(table *core.XRefTable) (core.IndirectRef, bool) {
	for num, entry := range table.Entries {
		obj, err := r.GetObject(num)
		if err != nil {
			continue
		}
		if dict, ok := obj.(core.Dict); ok {
			if typ, _ := dict.GetName("Type"); typ == "Catalog" {
				return core.IndirectRef{Number: num, Generation: entry.Generation}, true
			}
		}
	}
	return core.IndirectRef{}, false
}
