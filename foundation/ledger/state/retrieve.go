package state

import (
	"github.com/hongmengning/hathor-core/foundation/ledger/genesis"
	"github.com/hongmengning/hathor-core/foundation/ledger/vertex"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns the most recently accepted block.
func (s *State) RetrieveLatestBlock() *vertex.Block {
	return s.db.LatestBlock()
}

// RetrieveVertex returns the accepted vertex for the specified hash, with
// its static metadata attached.
func (s *State) RetrieveVertex(hash string) (vertex.Vertex, error) {
	return s.db.GetVertex(hash)
}

// RetrieveGenesisVertices returns the genesis block and genesis transaction.
func (s *State) RetrieveGenesisVertices() (*vertex.Block, *vertex.Transaction) {
	return s.db.GenesisBlock(), s.db.GenesisTransaction()
}
