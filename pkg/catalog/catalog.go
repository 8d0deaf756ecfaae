// Package catalog keeps an inventory of table files found on disk, keyed by the
// table name in their header.
package catalog

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/tblman/pkg/header"
)

const entryPrefix = "tbl/"

// Entry describes one table file.
type Entry struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Description string    `json:"description"`
	Offset      uint32    `json:"offset"`
	NumBytes    uint32    `json:"num_bytes"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
	ScanID      string    `json:"scan_id"`
}

// ScanReport summarizes one Scan.
type ScanReport struct {
	ID      ksuid.KSUID
	Indexed int
	Skipped []string
}

// Catalog is a pebble database of entries.
type Catalog struct {
	db *pebble.DB
}

// Open opens or creates the catalog stored in dir.
func Open(dir string) (*Catalog, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return &Catalog{db: db}, nil
}

func entryKey(name, path string) []byte {
	return []byte(entryPrefix + name + "\x00" + path)
}

// Put stores e, replacing any entry for the same name and path.
func (c *Catalog) Put(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return c.db.Set(entryKey(e.Name, e.Path), data, pebble.NoSync)
}

// Delete removes the entry of path under name.
func (c *Catalog) Delete(name, path string) error {
	return c.db.Delete(entryKey(name, path), pebble.NoSync)
}

// Lookup returns the entries of a table name ordered by path.
func (c *Catalog) Lookup(name string) ([]Entry, error) {
	return c.list([]byte(entryPrefix + name + "\x00"))
}

// All returns every entry ordered by name then path.
func (c *Catalog) All() ([]Entry, error) {
	return c.list([]byte(entryPrefix))
}

func (c *Catalog) list(prefix []byte) ([]Entry, error) {
	iter, err := c.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		var e Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return nil, fmt.Errorf("corrupt catalog entry %q: %w", iter.Key(), err)
		}
		entries = append(entries, e)
	}
	return entries, iter.Error()
}

// upperBound returns the smallest key greater than every key with prefix.
func upperBound(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// Scan walks root and records every .tbl file whose header can be read. Files
// too short to hold a header are listed in the report and left out.
func (c *Catalog) Scan(root string, order binary.ByteOrder) (ScanReport, error) {
	report := ScanReport{ID: ksuid.New()}
	batch := c.db.NewBatch()
	defer batch.Close()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".tbl") {
			return nil
		}
		e, err := readEntry(path, order)
		if errors.Is(err, header.ErrShortBuffer) {
			report.Skipped = append(report.Skipped, path)
			return nil
		}
		if err != nil {
			return err
		}
		e.ScanID = report.ID.String()
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if err := batch.Set(entryKey(e.Name, e.Path), data, nil); err != nil {
			return err
		}
		report.Indexed++
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("scan %s: %w", root, err)
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return report, err
	}
	return report, nil
}

func readEntry(path string, order binary.ByteOrder) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}
	h, err := header.Read(data, order)
	if err != nil {
		return Entry{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Name:        h.Name(),
		Path:        abs,
		Description: h.DescriptionText(),
		Offset:      h.Offset,
		NumBytes:    h.NumBytes,
		Size:        info.Size(),
		ModTime:     info.ModTime().UTC(),
	}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}
