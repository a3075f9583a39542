package private

// blockProposal is the request form for a block received from a peer.
type blockProposal struct {
	ParentBlockHash string   `json:"parent_block_hash" validate:"required"`
	TxParents       []string `json:"tx_parents"`
	SignalBits      uint8    `json:"signal_bits"`
	TimeStamp       uint64   `json:"timestamp" validate:"required"`
	Nonce           uint64   `json:"nonce"`
}

// tranInput is the request form for a transaction input.
type tranInput struct {
	TxID  string `json:"tx_id" validate:"required"`
	Index uint32 `json:"index"`
}

// tranProposal is the request form for a transaction received from a peer.
type tranProposal struct {
	TxParents []string    `json:"tx_parents"`
	Inputs    []tranInput `json:"inputs" validate:"dive"`
	TimeStamp uint64      `json:"timestamp" validate:"required"`
}
