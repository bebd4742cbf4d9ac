// Package db implements the persistent build database (spec.md §4.2, C4):
// an append-only, checksum-protected binary log of BuildResults, read back
// into memory at startup and compacted to one record per target on a
// clean close.
package db

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

type putRequest struct {
	result domain.BuildResult
	reply  chan error
}

// Database is the concrete ports.BuildDatabase backed by a single append-
// only file. All writes are serialised through a mailbox goroutine so
// concurrent Put calls from the worker pool never interleave their
// appends; reads consult an in-memory index kept current by that same
// goroutine.
type Database struct {
	path string
	file *os.File

	mu    sync.RWMutex
	index map[domain.Target]domain.BuildResult

	requests chan putRequest
	closed   chan struct{}
}

var _ ports.BuildDatabase = (*Database)(nil)

// Open opens (creating if absent) the database file at path, replays its
// records into memory, and starts the write mailbox. If the tail of the
// file is corrupt, Open truncates it to the last valid record, logs the
// truncation via logFn, and continues with whatever was readable
// (domain.ErrDatabaseCorrupt, §7 "never block a build on a corrupt
// database").
func Open(path string, logFn func(reason string)) (*Database, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, domain.FilePerm)
	if err != nil {
		return nil, err
	}

	index, validLength, corrupt := replay(f)
	if corrupt {
		if err := f.Truncate(validLength); err != nil {
			f.Close()
			return nil, err
		}
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			f.Close()
			return nil, err
		}
		if logFn != nil {
			logFn(domain.ErrDatabaseCorrupt.Error())
		}
	} else if _, err := f.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return nil, err
	}

	d := &Database{
		path:     path,
		file:     f,
		index:    index,
		requests: make(chan putRequest),
		closed:   make(chan struct{}),
	}
	go d.mailbox()
	return d, nil
}

// Get returns the last-persisted BuildResult for target.
func (d *Database) Get(target domain.Target) (domain.BuildResult, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	result, ok := d.index[target]
	return result, ok
}

// Put appends result to the log and updates the in-memory index, waiting
// for the mailbox goroutine to acknowledge the write.
func (d *Database) Put(result domain.BuildResult) error {
	reply := make(chan error, 1)
	d.requests <- putRequest{result: result, reply: reply}
	return <-reply
}

func (d *Database) mailbox() {
	defer close(d.closed)
	for req := range d.requests {
		err := appendRecord(d.file, req.result)
		if err == nil {
			d.mu.Lock()
			d.index[req.result.Target] = req.result
			d.mu.Unlock()
		}
		req.reply <- err
	}
}

// CloseAndFlush stops accepting writes, then rewrites the log as one
// record per target (its latest BuildResult), and closes the file.
func (d *Database) CloseAndFlush() error {
	close(d.requests)
	<-d.closed

	d.mu.RLock()
	results := make([]domain.BuildResult, 0, len(d.index))
	for _, r := range d.index {
		results = append(results, r)
	}
	d.mu.RUnlock()

	tmpPath := d.path + ".compact"
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		d.file.Close()
		return err
	}
	for _, r := range results {
		if err := appendRecord(tmp, r); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			d.file.Close()
			return err
		}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		d.file.Close()
		return err
	}
	if err := d.file.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, d.path)
}

func appendRecord(w io.Writer, result domain.BuildResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	checksum := xxhash.Sum64(payload)

	var header [8]byte
	binary.BigEndian.PutUint64(header[:], uint64(len(payload)))

	var trailer [8]byte
	binary.BigEndian.PutUint64(trailer[:], checksum)

	buf := bytes.NewBuffer(nil)
	buf.Write(header[:])
	buf.Write(payload)
	buf.Write(trailer[:])
	_, err = w.Write(buf.Bytes())
	return err
}

// replay reads every complete, checksum-valid record from the start of f,
// returning the index built from them, the byte offset through the last
// valid record, and whether the tail beyond that offset was corrupt.
func replay(f *os.File) (map[domain.Target]domain.BuildResult, int64, bool) {
	index := make(map[domain.Target]domain.BuildResult)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return index, 0, false
	}
	info, err := f.Stat()
	if err != nil {
		return index, 0, false
	}
	size := info.Size()

	var offset int64
	for {
		var header [8]byte
		n, err := io.ReadFull(f, header[:])
		if err == io.EOF && n == 0 {
			return index, offset, false
		}
		if err != nil {
			return index, offset, true
		}

		length := binary.BigEndian.Uint64(header[:])
		remaining := size - offset - 16
		if remaining < 0 || length > uint64(remaining) {
			return index, offset, true
		}
		payload := make([]byte, length)
		if _, err := io.ReadFull(f, payload); err != nil {
			return index, offset, true
		}

		var trailer [8]byte
		if _, err := io.ReadFull(f, trailer[:]); err != nil {
			return index, offset, true
		}
		checksum := binary.BigEndian.Uint64(trailer[:])
		if xxhash.Sum64(payload) != checksum {
			return index, offset, true
		}

		var result domain.BuildResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return index, offset, true
		}

		index[result.Target] = result
		offset += int64(8 + len(payload) + 8)
	}
}
