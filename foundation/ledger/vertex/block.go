package vertex

// Block represents a block vertex. A block confirms work on the transaction
// DAG by referencing one parent block and zero or more transaction parents.
type Block struct {
	ParentBlockHash string   // Hash of the previous block in the chain. ZeroHash for genesis.
	TxParents       []string // Hashes of the transaction parents this block confirms.
	SignalBits      uint8    // Per-block feature activation signal bits, LSB first.
	TimeStamp       uint64   // Time the block was created.
	Nonce           uint64   // Value identified to solve the hash solution.

	genesis bool
	meta    *BlockStaticMetadata
}

// NewBlock constructs a block vertex from its structural fields.
func NewBlock(parentBlockHash string, txParents []string, signalBits uint8, timeStamp uint64, nonce uint64) *Block {
	return &Block{
		ParentBlockHash: parentBlockHash,
		TxParents:       txParents,
		SignalBits:      signalBits,
		TimeStamp:       timeStamp,
		Nonce:           nonce,
	}
}

// NewGenesisBlock constructs the unique first block of the chain.
func NewGenesisBlock(timeStamp uint64) *Block {
	return &Block{
		ParentBlockHash: ZeroHash,
		TimeStamp:       timeStamp,
		genesis:         true,
	}
}

// =============================================================================

// blockHashData is the set of fields the block hash covers.
type blockHashData struct {
	Kind            Kind     `json:"kind"`
	ParentBlockHash string   `json:"parent_block_hash"`
	TxParents       []string `json:"tx_parents"`
	SignalBits      uint8    `json:"signal_bits"`
	TimeStamp       uint64   `json:"timestamp"`
	Nonce           uint64   `json:"nonce"`
}

// Hash returns the unique hash for the block.
func (b *Block) Hash() string {
	return Hash(blockHashData{
		Kind:            KindBlock,
		ParentBlockHash: b.ParentBlockHash,
		TxParents:       b.TxParents,
		SignalBits:      b.SignalBits,
		TimeStamp:       b.TimeStamp,
		Nonce:           b.Nonce,
	})
}

// Kind returns the block vertex kind.
func (b *Block) Kind() Kind {
	return KindBlock
}

// IsGenesis reports whether this block is the genesis block.
func (b *Block) IsGenesis() bool {
	return b.genesis
}

// HasStaticMetadata reports whether the static metadata has been derived
// and attached to this block.
func (b *Block) HasStaticMetadata() bool {
	return b.meta != nil
}

// StaticMetadata returns the derived record for this block. The record is
// nil until the acceptance pipeline attaches it.
func (b *Block) StaticMetadata() *BlockStaticMetadata {
	return b.meta
}

// SetStaticMetadata attaches the derived record to this block. The record is
// written once and never replaced.
func (b *Block) SetStaticMetadata(meta *BlockStaticMetadata) error {
	if b.meta != nil {
		return ErrMetadataAlreadyDerived
	}

	b.meta = meta
	return nil
}

// FeatureSignalBits returns the block's feature activation bit vector with
// one entry per tracked bit position, least significant bit first.
func (b *Block) FeatureSignalBits(maxSignalBits uint8) []uint64 {
	bits := make([]uint64, maxSignalBits)
	for i := range bits {
		bits[i] = uint64(b.SignalBits>>i) & 1
	}

	return bits
}
