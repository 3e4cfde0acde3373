// Package store implements a file-backed collection of Field:Value
// text records. The backing file is a sequence of record texts
// separated by a line containing exactly "=". The first slot is the
// field-declaration record: every legal field name with an empty
// value, in declaration order. Data records are exposed at logical
// indices 0..Size()-1.
//
// Every mutation writes the whole file through immediately, in place,
// so an advisory flock taken on the open descriptor stays valid
// across writes. Parsed records are kept in a bounded FIFO cache.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fvdb/fvdb/record"
	"github.com/fvdb/fvdb/u"
	"github.com/fvdb/fvdb/vlog"
)

var (
	// ErrOpen means the backing file is unusable and there are no
	// field definitions to create it from
	ErrOpen = errors.New("cannot open store")

	// ErrLocked means the advisory lock is unavailable
	ErrLocked = errors.New("store lock unavailable")
)

const defaultCacheSize = 64

// Options configures Open. The zero value opens an existing store
// read-write with the default cache size.
type Options struct {
	// max number of parsed records kept in memory.
	// 0 means defaultCacheSize, negative disables caching.
	CacheSize int
	// parse every record at open (cache grows to hold them all)
	Preload bool
	ReadOnly bool
	// create the backing file if it doesn't exist; a new file also
	// needs Fields
	Create bool
	// field names for a newly created store, declaration order
	Fields []string
	Logger *vlog.Logger
}

// FileStore owns one backing file worth of records
type FileStore struct {
	path     string
	readOnly bool
	fields   *record.FieldSet

	// raw record texts, slots[0] is the field-declaration record
	slots []string

	f *os.File

	cache     map[int]*record.Record
	order     []int // insertion order, oldest first
	cacheSize int

	log *vlog.Logger
}

// Open opens or creates the store at path. A path with a compressed
// extension (.gz, .zst, .br, .bz2) is decompressed and the store is
// forced read-only. An empty or new file needs opts.Fields for its
// header; otherwise the header is read from slot 0.
func Open(path string, opts *Options) (*FileStore, error) {
	if opts == nil {
		opts = &Options{}
	}
	s := &FileStore{
		path:      path,
		readOnly:  opts.ReadOnly,
		cacheSize: opts.CacheSize,
		cache:     map[int]*record.Record{},
		log:       opts.Logger,
	}
	if s.cacheSize == 0 {
		s.cacheSize = defaultCacheSize
	}
	if s.cacheSize < 0 {
		s.cacheSize = 0
	}

	var data []byte
	var err error
	if !opts.Create && !u.FileExists(path) {
		return nil, fmt.Errorf("%w: %s does not exist", ErrOpen, path)
	}
	if u.IsCompressedPath(path) {
		s.readOnly = true
		data, err = u.ReadFileMaybeCompressed(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrOpen, err)
		}
		// still keep a descriptor open so Lock has something to lock
		s.f, err = os.Open(path)
	} else {
		flags := os.O_RDWR
		if s.readOnly {
			flags = os.O_RDONLY
		} else if opts.Create {
			flags |= os.O_CREATE
		}
		s.f, err = os.OpenFile(path, flags, 0644)
		if err == nil {
			data, err = io.ReadAll(s.f)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOpen, err)
	}

	data = u.NormalizeNewlines(data)
	if len(bytes.TrimSpace(data)) == 0 {
		if len(opts.Fields) == 0 {
			s.Close()
			return nil, fmt.Errorf("%w: %s is empty and no fields were given", ErrOpen, path)
		}
		s.fields = record.NewFieldSet(opts.Fields...)
		s.slots = []string{headerText(s.fields)}
		if !s.readOnly {
			if err = s.writeThrough(); err != nil {
				s.Close()
				return nil, err
			}
		}
	} else {
		s.slots = splitSlots(string(data))
		s.fields = record.NewFieldSet()
		record.Parse(s.slots[0], s.fields, true)
		if s.fields.Len() == 0 {
			s.Close()
			return nil, fmt.Errorf("%w: %s has no field declaration record", ErrOpen, path)
		}
	}

	if opts.Preload {
		if n := s.Size(); n > s.cacheSize {
			s.cacheSize = n
		}
		for i := 0; i < s.Size(); i++ {
			s.Get(i)
		}
	}
	s.log.Verbosef("store: opened %s (%d bytes), %d records, %d fields\n", path, u.FileSize(path), s.Size(), s.fields.Len())
	return s, nil
}

// Size returns the number of data records (the header slot excluded)
func (s *FileStore) Size() int {
	if len(s.slots) == 0 {
		return 0
	}
	return len(s.slots) - 1
}

// Fields returns the store's field names in declaration order
func (s *FileStore) Fields() []string {
	return s.fields.Names()
}

// FieldSet returns the store's field set. Shared with every record
// the store hands out.
func (s *FileStore) FieldSet() *record.FieldSet {
	return s.fields
}

// ReadOnly returns true if mutations are silently ignored
func (s *FileStore) ReadOnly() bool {
	return s.readOnly
}

// NewRecord returns an all-undefined record over the store's fields.
// It is not stored until passed to Set.
func (s *FileStore) NewRecord() *record.Record {
	return record.New(s.fields)
}

// Get returns the record at index, nil if index is out of range.
// Served from the cache when possible.
func (s *FileStore) Get(index int) *record.Record {
	if index < 0 || index >= s.Size() {
		return nil
	}
	if r, ok := s.cache[index]; ok {
		return r
	}
	r := record.Parse(s.slots[index+1], s.fields, false)
	s.cacheInsert(index, r)
	return r
}

// At adapts Get for selection sources
func (s *FileStore) At(index int) record.View {
	if r := s.Get(index); r != nil {
		return r
	}
	return nil
}

// Set persists r at index and writes the file through. An index at or
// past Size() appends instead. A no-op on a read-only store.
func (s *FileStore) Set(index int, r *record.Record) error {
	if s.readOnly {
		s.log.Verbosef("store: Set(%d) ignored, %s is read-only\n", index, s.path)
		return nil
	}
	if index < 0 {
		index = 0
	}
	if index >= s.Size() {
		index = s.Size()
		s.slots = append(s.slots, "")
	}
	s.slots[index+1] = record.Serialize(r, s.fields.Names())
	if err := s.writeThrough(); err != nil {
		return err
	}
	s.cacheInsert(index, r)
	return nil
}

// Delete removes the record at index; records after it shift down by
// one. A no-op on a read-only store or out-of-range index.
func (s *FileStore) Delete(index int) error {
	if s.readOnly {
		s.log.Verbosef("store: Delete(%d) ignored, %s is read-only\n", index, s.path)
		return nil
	}
	if index < 0 || index >= s.Size() {
		return nil
	}
	s.slots = append(s.slots[:index+1], s.slots[index+2:]...)
	if len(s.order) > 0 {
		// cached entries past the removed index shift down with it
		cache := make(map[int]*record.Record, len(s.cache))
		order := make([]int, 0, len(s.order))
		for _, i := range s.order {
			if i == index {
				continue
			}
			j := i
			if i > index {
				j = i - 1
			}
			cache[j] = s.cache[i]
			order = append(order, j)
		}
		s.cache, s.order = cache, order
	}
	return s.writeThrough()
}

// Clear removes every data record, preserving the field-declaration
// slot verbatim. A no-op on a read-only store.
func (s *FileStore) Clear() error {
	if s.readOnly {
		return nil
	}
	s.slots = s.slots[:1]
	s.resetCache()
	return s.writeThrough()
}

// LockMode selects the kind of advisory lock
type LockMode int

const (
	// LockShared is a read lock, many holders
	LockShared LockMode = iota
	// LockExclusive is a write lock, one holder
	LockExclusive
)

// Lock takes an advisory lock on the backing file. With wait false a
// contended lock fails immediately with ErrLocked. On success the
// parsed-record cache is discarded and the slots are re-read, since
// another process may have changed the file before we got the lock.
func (s *FileStore) Lock(mode LockMode, wait bool) error {
	if s.f == nil {
		return fmt.Errorf("%w: store is closed", ErrLocked)
	}
	if err := flockFile(s.f, mode == LockExclusive, wait); err != nil {
		return fmt.Errorf("%w: %s", ErrLocked, err)
	}
	s.resetCache()
	return s.reload()
}

// Unlock releases the advisory lock
func (s *FileStore) Unlock() error {
	if s.f == nil {
		return nil
	}
	return funlockFile(s.f)
}

// Close releases the backing file and drops all in-memory state
func (s *FileStore) Close() error {
	s.resetCache()
	s.slots = nil
	if s.f == nil {
		return nil
	}
	f := s.f
	s.f = nil
	return f.Close()
}

func (s *FileStore) resetCache() {
	s.cache = map[int]*record.Record{}
	s.order = nil
}

func (s *FileStore) cacheInsert(index int, r *record.Record) {
	if s.cacheSize <= 0 {
		return
	}
	if _, ok := s.cache[index]; !ok {
		s.order = append(s.order, index)
	}
	s.cache[index] = r
	for len(s.order) > s.cacheSize {
		old := s.order[0]
		s.order = s.order[1:]
		delete(s.cache, old)
		s.log.Verbosef("store: evicted record %d from cache\n", old)
	}
}

// reload re-reads the slots from disk, merging any field names
// another writer declared into the shared field set
func (s *FileStore) reload() error {
	var data []byte
	var err error
	if u.IsCompressedPath(s.path) {
		data, err = u.ReadFileMaybeCompressed(s.path)
	} else {
		if _, err = s.f.Seek(0, io.SeekStart); err != nil {
			return err
		}
		data, err = io.ReadAll(s.f)
	}
	if err != nil {
		return err
	}
	data = u.NormalizeNewlines(data)
	if len(bytes.TrimSpace(data)) == 0 {
		// file truncated under us, keep the header we have
		s.slots = s.slots[:1]
		return nil
	}
	s.slots = splitSlots(string(data))
	record.Parse(s.slots[0], s.fields, true)
	return nil
}

// writeThrough rewrites the backing file in place. In place, not via
// rename, so the descriptor (and any flock on it) stays valid.
func (s *FileStore) writeThrough() error {
	if s.f == nil {
		return nil
	}
	data := s.fileData()
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := s.f.Write(data); err != nil {
		return err
	}
	if err := s.f.Truncate(int64(len(data))); err != nil {
		return err
	}
	return s.f.Sync()
}

func (s *FileStore) fileData() []byte {
	var sb strings.Builder
	for _, slot := range s.slots {
		sb.WriteString(slot)
		sb.WriteString("\n=\n")
	}
	return []byte(sb.String())
}

// splitSlots splits file content into raw record texts on lines
// containing exactly "="
func splitSlots(content string) []string {
	var slots []string
	var cur []string
	for _, line := range strings.Split(content, "\n") {
		if line == "=" {
			slots = append(slots, strings.Join(cur, "\n"))
			cur = cur[:0]
			continue
		}
		cur = append(cur, line)
	}
	// content after the last "=", e.g. a hand-edited file missing its
	// final separator
	if rest := strings.Join(cur, "\n"); strings.TrimSpace(rest) != "" {
		slots = append(slots, rest)
	}
	return slots
}

// headerText renders the field-declaration record: every field with
// an empty value, declaration order
func headerText(fs *record.FieldSet) string {
	names := fs.Names()
	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(name)
		sb.WriteString(":")
	}
	return sb.String()
}
