package database

import (
	"encoding/json"
	"fmt"

	"github.com/hongmengning/hathor-core/foundation/ledger/vertex"
)

// BlockData represents the structural fields of a block vertex on storage.
type BlockData struct {
	ParentBlockHash string   `json:"parent_block_hash"`
	TxParents       []string `json:"tx_parents,omitempty"`
	SignalBits      uint8    `json:"signal_bits"`
	TimeStamp       uint64   `json:"timestamp"`
	Nonce           uint64   `json:"nonce"`
}

// TranData represents the structural fields of a transaction vertex on storage.
type TranData struct {
	TxParents []string         `json:"tx_parents,omitempty"`
	Inputs    []vertex.TxInput `json:"inputs,omitempty"`
	TimeStamp uint64           `json:"timestamp"`
}

// VertexData represents what is written to storage for one accepted vertex.
// The static metadata travels as its own encoded document next to the kind
// tag the codec needs to decode it back. The encoding itself carries no kind
// discriminant.
type VertexData struct {
	Hash           string          `json:"hash"`
	Kind           vertex.Kind     `json:"kind"`
	Block          *BlockData      `json:"block,omitempty"`
	Tran           *TranData       `json:"tran,omitempty"`
	StaticMetadata json.RawMessage `json:"static_metadata"`
}

// =============================================================================

// NewVertexData constructs the value to serialize to storage. The vertex must
// already carry its static metadata since records are persisted exactly once,
// at acceptance.
func NewVertexData(v vertex.Vertex) (VertexData, error) {
	if !v.HasStaticMetadata() {
		return VertexData{}, fmt.Errorf("vertex %s: %w", v.Hash(), vertex.ErrMetadataNotDerived)
	}

	data := VertexData{
		Hash: v.Hash(),
		Kind: v.Kind(),
	}

	switch vtx := v.(type) {
	case *vertex.Block:
		data.Block = &BlockData{
			ParentBlockHash: vtx.ParentBlockHash,
			TxParents:       vtx.TxParents,
			SignalBits:      vtx.SignalBits,
			TimeStamp:       vtx.TimeStamp,
			Nonce:           vtx.Nonce,
		}

		meta, err := vtx.StaticMetadata().Encode()
		if err != nil {
			return VertexData{}, err
		}
		data.StaticMetadata = meta

	case *vertex.Transaction:
		data.Tran = &TranData{
			TxParents: vtx.TxParents,
			Inputs:    vtx.Inputs,
			TimeStamp: vtx.TimeStamp,
		}

		meta, err := vtx.StaticMetadata().Encode()
		if err != nil {
			return VertexData{}, err
		}
		data.StaticMetadata = meta

	default:
		return VertexData{}, vertex.ErrUnsupportedVertexKind
	}

	return data, nil
}

// ToVertex converts a VertexData back into a vertex with its static metadata
// attached. The record is decoded from the stored bytes, never rederived.
func ToVertex(data VertexData) (vertex.Vertex, error) {
	meta, err := vertex.DecodeStaticMetadata(data.StaticMetadata, data.Kind)
	if err != nil {
		return nil, fmt.Errorf("vertex %s: %w", data.Hash, err)
	}

	switch data.Kind {
	case vertex.KindBlock:
		if data.Block == nil {
			return nil, fmt.Errorf("vertex %s: missing block fields", data.Hash)
		}

		b := vertex.NewBlock(data.Block.ParentBlockHash, data.Block.TxParents, data.Block.SignalBits, data.Block.TimeStamp, data.Block.Nonce)
		if err := b.SetStaticMetadata(meta.(*vertex.BlockStaticMetadata)); err != nil {
			return nil, err
		}
		return b, nil

	case vertex.KindTransaction:
		if data.Tran == nil {
			return nil, fmt.Errorf("vertex %s: missing transaction fields", data.Hash)
		}

		tx := vertex.NewTransaction(data.Tran.TxParents, data.Tran.Inputs, data.Tran.TimeStamp)
		if err := tx.SetStaticMetadata(meta.(*vertex.TransactionStaticMetadata)); err != nil {
			return nil, err
		}
		return tx, nil
	}

	return nil, fmt.Errorf("vertex %s: %w", data.Hash, vertex.ErrUnsupportedVertexKind)
}
