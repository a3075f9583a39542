// Package disk implements the ability to read and write accepted vertices
// to disk, one file per vertex.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"sync"

	"github.com/hongmengning/hathor-core/foundation/ledger/database"
)

// Disk represents the serialization implementation for reading and storing
// vertices in their own separate files on disk. This implements the
// database.Serializer interface.
type Disk struct {
	mu     sync.Mutex
	dbPath string
	next   uint64
}

// New constructs a Disk value for use, scanning the data path so new writes
// continue the acceptance sequence.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	d := Disk{dbPath: dbPath}

	entries, err := os.ReadDir(dbPath)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if path.Ext(name) != ".json" {
			continue
		}

		num, err := strconv.ParseUint(name[:len(name)-len(".json")], 10, 64)
		if err != nil {
			continue
		}

		if num > d.next {
			d.next = num
		}
	}

	return &d, nil
}

// Close in this implementation has nothing to do since a new file is
// written to disk for each new vertex and then immediately closed.
func (d *Disk) Close() error {
	return nil
}

// Write takes the specified vertex data and stores it on disk in a file
// labeled with the next acceptance sequence number.
func (d *Disk) Write(data database.VertexData) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Marshal the vertex for writing to disk in a more human readable format.
	doc, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.OpenFile(d.getPath(d.next+1), os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(doc); err != nil {
		return err
	}

	d.next++
	return nil
}

// GetVertex searches the storage on disk to locate and return the contents
// of the specified vertex by acceptance sequence number.
func (d *Disk) GetVertex(num uint64) (database.VertexData, error) {
	f, err := os.OpenFile(d.getPath(num), os.O_RDONLY, 0600)
	if err != nil {
		return database.VertexData{}, err
	}
	defer f.Close()

	var data database.VertexData
	if err := json.NewDecoder(f).Decode(&data); err != nil {
		return database.VertexData{}, err
	}

	return data, nil
}

// ForEach returns an iterator to walk through all the vertices in
// acceptance order, starting with sequence number 1.
func (d *Disk) ForEach() database.Iterator {
	return &DiskIterator{disk: d}
}

// Reset will clear out the vertex storage on disk.
func (d *Disk) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.RemoveAll(d.dbPath); err != nil {
		return err
	}
	d.next = 0

	return os.MkdirAll(d.dbPath, 0755)
}

// getPath forms the path to the specified vertex file.
func (d *Disk) getPath(num uint64) string {
	name := strconv.FormatUint(num, 10)
	return path.Join(d.dbPath, fmt.Sprintf("%s.json", name))
}

// =============================================================================

// DiskIterator represents the iteration implementation for walking through
// and reading vertices on disk. This implements the database.Iterator
// interface.
type DiskIterator struct {
	disk    *Disk  // Access to the Disk storage API.
	current uint64 // Current sequence number being iterated over.
	eoc     bool   // Represents the iterator is at the end of the storage.
}

// Next retrieves the next vertex from disk.
func (di *DiskIterator) Next() (database.VertexData, error) {
	if di.eoc {
		return database.VertexData{}, errors.New("end of storage")
	}

	di.current++
	data, err := di.disk.GetVertex(di.current)
	if errors.Is(err, fs.ErrNotExist) {
		di.eoc = true
	}

	return data, err
}

// Done returns the end of storage value.
func (di *DiskIterator) Done() bool {
	return di.eoc
}
