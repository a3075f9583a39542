// Package database handles the lower level support for maintaining the set
// of accepted vertices, their derived static metadata, and the dependency
// lookup the derivation algorithms run against.
package database

import (
	"fmt"
	"sync"

	"github.com/hongmengning/hathor-core/foundation/ledger/genesis"
	"github.com/hongmengning/hathor-core/foundation/ledger/vertex"
)

// Serializer interface represents the behavior required to be implemented by
// any package providing support for storing and reading accepted vertices.
type Serializer interface {
	Write(data VertexData) error
	GetVertex(num uint64) (VertexData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the stored vertices in
// acceptance order.
type Iterator interface {
	Next() (VertexData, error)
	Done() bool
}

// =============================================================================

// Database manages the accepted vertices of the ledger. Every vertex it
// holds carries its static metadata, so the lookup it provides satisfies the
// precondition the derivation algorithms depend on.
type Database struct {
	mu sync.RWMutex

	genesis     genesis.Genesis
	genesisBlk  *vertex.Block
	genesisTran *vertex.Transaction
	vertices    map[string]vertex.Vertex
	latestBlock *vertex.Block

	serializer Serializer
}

// New constructs a new database, seeds the genesis vertices with their
// derived metadata, and loads previously accepted vertices from storage. The
// records loaded from storage are decoded, never rederived.
func New(gen genesis.Genesis, serializer Serializer, evHandler func(v string, args ...any)) (*Database, error) {
	db := Database{
		genesis:    gen,
		vertices:   make(map[string]vertex.Vertex),
		serializer: serializer,
	}

	if err := db.seedGenesis(); err != nil {
		return nil, err
	}

	// Read all the accepted vertices from storage. Acceptance order on
	// storage is topological, so the latest block is found along the way.
	iter := serializer.ForEach()
	for data, err := iter.Next(); !iter.Done(); data, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		v, err := ToVertex(data)
		if err != nil {
			return nil, err
		}

		if v.Hash() != data.Hash {
			return nil, fmt.Errorf("vertex %s: stored hash does not match content, got %s", data.Hash, v.Hash())
		}

		db.vertices[v.Hash()] = v
		if b, ok := v.(*vertex.Block); ok {
			db.latestBlock = b
		}

		evHandler("database: load: vertex[%s] kind[%s]", v.Hash(), v.Kind())
	}

	return &db, nil
}

// seedGenesis creates the genesis block and genesis transaction and derives
// their metadata. Genesis vertices are deterministic from the genesis file,
// so they live in memory only and are never written to storage.
func (db *Database) seedGenesis() error {
	timeStamp := uint64(db.genesis.Date.Unix())

	gb := vertex.NewGenesisBlock(timeStamp)
	gbMeta, err := vertex.DeriveBlockStaticMetadata(gb, db.genesis, db.Lookup())
	if err != nil {
		return fmt.Errorf("derive genesis block: %w", err)
	}
	if err := gb.SetStaticMetadata(gbMeta); err != nil {
		return err
	}

	gtx := vertex.NewGenesisTransaction(timeStamp)
	gtxMeta, err := vertex.DeriveTransactionStaticMetadata(gtx, db.genesis, db.Lookup())
	if err != nil {
		return fmt.Errorf("derive genesis transaction: %w", err)
	}
	if err := gtx.SetStaticMetadata(gtxMeta); err != nil {
		return err
	}

	db.genesisBlk = gb
	db.genesisTran = gtx
	db.vertices[gb.Hash()] = gb
	db.vertices[gtx.Hash()] = gtx
	db.latestBlock = gb

	return nil
}

// Close closes the underlying vertex storage.
func (db *Database) Close() {
	db.serializer.Close()
}

// =============================================================================

// GetVertex returns the accepted vertex for the specified hash, with its
// static metadata attached.
func (db *Database) GetVertex(hash string) (vertex.Vertex, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	v, exists := db.vertices[hash]
	if !exists {
		return nil, fmt.Errorf("vertex %s: %w", hash, vertex.ErrVertexNotFound)
	}

	return v, nil
}

// Lookup returns the dependency lookup function the derivation algorithms
// consume. Resolution is a map access, so it meets the O(1) contract.
func (db *Database) Lookup() vertex.Lookup {
	return func(vertexHash string) (vertex.Vertex, error) {
		return db.GetVertex(vertexHash)
	}
}

// Add indexes a newly accepted vertex. The vertex must carry its static
// metadata already, since everything reachable through the lookup has to
// satisfy the derivation precondition.
func (db *Database) Add(v vertex.Vertex) error {
	if !v.HasStaticMetadata() {
		return fmt.Errorf("vertex %s: %w", v.Hash(), vertex.ErrMetadataNotDerived)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	hash := v.Hash()
	if _, exists := db.vertices[hash]; exists {
		return fmt.Errorf("vertex %s already accepted", hash)
	}

	db.vertices[hash] = v
	if b, ok := v.(*vertex.Block); ok {
		db.latestBlock = b
	}

	return nil
}

// Write persists a newly accepted vertex to storage.
func (db *Database) Write(v vertex.Vertex) error {
	data, err := NewVertexData(v)
	if err != nil {
		return err
	}

	return db.serializer.Write(data)
}

// LatestBlock returns the most recently accepted block.
func (db *Database) LatestBlock() *vertex.Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock
}

// GenesisBlock returns the genesis block vertex.
func (db *Database) GenesisBlock() *vertex.Block {
	return db.genesisBlk
}

// GenesisTransaction returns the genesis transaction vertex.
func (db *Database) GenesisTransaction() *vertex.Transaction {
	return db.genesisTran
}
