// Package memory implements the ability to read and write accepted vertices
// to memory using a slice.
package memory

import (
	"errors"
	"sync"

	"github.com/hongmengning/hathor-core/foundation/ledger/database"
)

// Memory represents the serialization implementation for reading and storing
// vertices in memory using a slice. This implements the database.Serializer
// interface.
type Memory struct {
	mu       sync.RWMutex
	vertices []database.VertexData
}

// New constructs a Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write takes the specified vertex data and stores it in memory.
func (m *Memory) Write(data database.VertexData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.vertices = append(m.vertices, data)

	return nil
}

// GetVertex searches the storage to locate and return the contents of the
// specified vertex by acceptance sequence number, starting at 1.
func (m *Memory) GetVertex(num uint64) (database.VertexData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l := uint64(len(m.vertices))
	if num == 0 || num > l {
		return database.VertexData{}, errors.New("vertex does not exist")
	}

	return m.vertices[num-1], nil
}

// ForEach returns an iterator to walk through all the vertices in
// acceptance order, starting with sequence number 1.
func (m *Memory) ForEach() database.Iterator {
	return &memoryIterator{storage: m}
}

// Reset will clear out the vertex storage.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.vertices = []database.VertexData{}
	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking through
// and reading vertices in memory. This implements the database.Iterator
// interface.
type memoryIterator struct {
	storage *Memory // Access to the storage API.
	current uint64  // Current sequence number being iterated over.
	eoc     bool    // Represents the iterator is at the end of the storage.
}

// Next retrieves the next vertex from memory.
func (mi *memoryIterator) Next() (database.VertexData, error) {
	if mi.eoc {
		return database.VertexData{}, errors.New("end of storage")
	}

	mi.current++
	data, err := mi.storage.GetVertex(mi.current)
	if err != nil {
		mi.eoc = true
	}

	return data, err
}

// Done returns the end of storage value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
