package vertex

import (
	"encoding/json"
	"fmt"
)

// Feature identifies a protocol feature tracked by the activation process.
type Feature string

// FeatureState represents the activation state of a tracked feature.
type FeatureState string

// =============================================================================

// StaticMetadataBase holds the derived attributes common to both vertex
// kinds. Static metadata is not part of the signed vertex payload, but is
// fully determined by the vertex and its already processed dependencies.
// Once computed the values never change.
type StaticMetadataBase struct {
	// MinHeight is the minimum height the first block confirming this vertex
	// needs to have. It defers reward lock verification from the transaction
	// spending a reward to the block confirming that transaction.
	MinHeight uint64 `json:"min_height"`
}

// BlockStaticMetadata is the derived record for a block vertex.
type BlockStaticMetadata struct {
	StaticMetadataBase

	// Height is the number of blocks between this block and genesis.
	Height uint64 `json:"height"`

	// FeatureActivationBitCounts holds one entry per signal bit position. Each
	// value is the rolling count of set bits from the previous boundary block
	// up to this block, including it. LSB is on the left.
	FeatureActivationBitCounts []uint64 `json:"feature_activation_bit_counts"`

	// FeatureStates maps tracked features to their activation state. It is
	// part of the record shape for encoding stability but is populated by a
	// later protocol stage, so it is always empty here.
	FeatureStates map[Feature]FeatureState `json:"feature_states"`
}

// TransactionStaticMetadata is the derived record for a transaction vertex.
// It carries no fields beyond the base.
type TransactionStaticMetadata struct {
	StaticMetadataBase
}

// =============================================================================

// StaticMetadata is implemented by both derived record kinds.
type StaticMetadata interface {
	Encode() ([]byte, error)
}

// Encode converts the record to its canonical field-named byte encoding. The
// encoding carries no kind discriminant; the caller tracks the vertex kind
// separately.
func (m *BlockStaticMetadata) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Encode converts the record to its canonical field-named byte encoding.
func (m *TransactionStaticMetadata) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeStaticMetadata reconstructs a record from its byte encoding. The
// target kind comes from the caller since the encoding itself does not carry
// one. Fields added in later protocol versions decode to their zero values
// when missing, so already persisted records never need rewriting.
func DecodeStaticMetadata(data []byte, target Kind) (StaticMetadata, error) {
	switch target {
	case KindBlock:
		var meta BlockStaticMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, err
		}
		return &meta, nil

	case KindTransaction:
		var meta TransactionStaticMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, err
		}
		return &meta, nil
	}

	return nil, fmt.Errorf("decode static metadata for kind %q: %w", target, ErrUnsupportedVertexKind)
}
