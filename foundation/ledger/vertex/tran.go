package vertex

// TxInput references the output of another vertex being spent. The referenced
// vertex is a block when a mining reward is being spent.
type TxInput struct {
	TxID  string `json:"tx_id"` // Hash of the vertex whose output is being spent.
	Index uint32 `json:"index"` // Position of the output inside that vertex.
}

// Transaction represents a transaction vertex in the DAG.
type Transaction struct {
	TxParents []string  // Hashes of the transaction parents.
	Inputs    []TxInput // Outputs being spent by this transaction.
	TimeStamp uint64    // Time the transaction was created.

	genesis bool
	meta    *TransactionStaticMetadata
}

// NewTransaction constructs a transaction vertex from its structural fields.
func NewTransaction(txParents []string, inputs []TxInput, timeStamp uint64) *Transaction {
	return &Transaction{
		TxParents: txParents,
		Inputs:    inputs,
		TimeStamp: timeStamp,
	}
}

// NewGenesisTransaction constructs the unique first transaction of the chain.
// It has no parents and no inputs.
func NewGenesisTransaction(timeStamp uint64) *Transaction {
	return &Transaction{
		TimeStamp: timeStamp,
		genesis:   true,
	}
}

// =============================================================================

// tranHashData is the set of fields the transaction hash covers.
type tranHashData struct {
	Kind      Kind      `json:"kind"`
	TxParents []string  `json:"tx_parents"`
	Inputs    []TxInput `json:"inputs"`
	TimeStamp uint64    `json:"timestamp"`
}

// Hash returns the unique hash for the transaction.
func (tx *Transaction) Hash() string {
	return Hash(tranHashData{
		Kind:      KindTransaction,
		TxParents: tx.TxParents,
		Inputs:    tx.Inputs,
		TimeStamp: tx.TimeStamp,
	})
}

// Kind returns the transaction vertex kind.
func (tx *Transaction) Kind() Kind {
	return KindTransaction
}

// IsGenesis reports whether this transaction is the genesis transaction.
func (tx *Transaction) IsGenesis() bool {
	return tx.genesis
}

// HasStaticMetadata reports whether the static metadata has been derived
// and attached to this transaction.
func (tx *Transaction) HasStaticMetadata() bool {
	return tx.meta != nil
}

// StaticMetadata returns the derived record for this transaction. The record
// is nil until the acceptance pipeline attaches it.
func (tx *Transaction) StaticMetadata() *TransactionStaticMetadata {
	return tx.meta
}

// SetStaticMetadata attaches the derived record to this transaction. The
// record is written once and never replaced.
func (tx *Transaction) SetStaticMetadata(meta *TransactionStaticMetadata) error {
	if tx.meta != nil {
		return ErrMetadataAlreadyDerived
	}

	tx.meta = meta
	return nil
}
