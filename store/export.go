package store

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/pretty"

	"github.com/fvdb/fvdb/atomicfile"
	"github.com/fvdb/fvdb/record"
	"github.com/fvdb/fvdb/u"
)

// exchange helpers: everything here is built on the codec's
// per-record forms and Get/Set/Size, nothing reaches into the file

// ExportMarkup writes every record's markup form inside an
// <fv_data> envelope
func (s *FileStore) ExportMarkup(w io.Writer) error {
	if _, err := io.WriteString(w, "<fv_data>\n"); err != nil {
		return err
	}
	for i := 0; i < s.Size(); i++ {
		if _, err := io.WriteString(w, s.Get(i).Markup()+"\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</fv_data>\n")
	return err
}

// ImportMarkup appends every <record> element found in r to the
// store. Fields not declared by the store are skipped, per the markup
// codec's rules.
func (s *FileStore) ImportMarkup(r io.Reader) error {
	d, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	text := string(u.NormalizeNewlines(d))
	const openTag, closeTag = "<record>", "</record>"
	for {
		start := strings.Index(text, openTag)
		if start == -1 {
			break
		}
		end := strings.Index(text[start:], closeTag)
		if end == -1 {
			break
		}
		chunk := text[start : start+end+len(closeTag)]
		rec := record.ParseMarkup(chunk, s.fields, false)
		if err = s.Set(s.Size(), rec); err != nil {
			return err
		}
		text = text[start+end+len(closeTag):]
	}
	return nil
}

// ExportJSON dumps the store as a pretty-printed nested mapping:
// record index => field => values. Undefined fields are omitted.
func (s *FileStore) ExportJSON() ([]byte, error) {
	m := make(map[string]map[string][]string, s.Size())
	for i := 0; i < s.Size(); i++ {
		r := s.Get(i)
		fm := map[string][]string{}
		for _, f := range r.Fields() {
			if vals := r.GetAll(f); vals != nil {
				fm[f] = vals
			}
		}
		m[strconv.Itoa(i)] = fm
	}
	d, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(d), nil
}

// ImportJSON appends records from a nested id => field => values
// mapping, the legacy hash-dump exchange form. Ids sort numerically
// when they can, so a dump keyed 0..N-1 imports in order.
func (s *FileStore) ImportJSON(d []byte) error {
	var m map[string]map[string][]string
	if err := json.Unmarshal(d, &m); err != nil {
		return fmt.Errorf("bad dump: %w", err)
	}
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids {
		rec := record.FromMap(m[id], s.fields, false)
		if err := s.Set(s.Size(), rec); err != nil {
			return err
		}
	}
	return nil
}

// Backup snapshots the store to dstPath, atomically, compressed the
// way the destination extension asks for (.gz, .zst, .br)
func (s *FileStore) Backup(dstPath string) error {
	d, err := u.CompressDataByExt(dstPath, s.fileData())
	if err != nil {
		return err
	}
	return atomicfile.WriteFile(dstPath, d)
}
