// Package vertex implements the block and transaction vertices that form the
// two interleaved DAGs of the ledger, plus the static metadata records that
// are derived for each vertex exactly once at acceptance time.
package vertex

import (
	"crypto/sha256"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Kind identifies which of the two vertex kinds a value represents.
type Kind string

// Set of vertex kinds the ledger supports.
const (
	KindBlock       Kind = "block"
	KindTransaction Kind = "transaction"
)

// =============================================================================

// Set of errors for the vertex API. Dependency and ordering failures are
// treated as data integrity problems by the callers, not as conditions to
// retry.
var (
	ErrUnsupportedVertexKind  = errors.New("unsupported vertex kind")
	ErrVertexNotFound         = errors.New("vertex not found")
	ErrMetadataNotDerived     = errors.New("static metadata not derived")
	ErrMetadataAlreadyDerived = errors.New("static metadata already derived")
	ErrInvalidBlockParent     = errors.New("block parent is not a block")
)

// =============================================================================

// Vertex provides read access to the structural fields shared by blocks and
// transactions. The concrete types carry the kind specific fields.
type Vertex interface {
	Hash() string
	Kind() Kind
	IsGenesis() bool
	HasStaticMetadata() bool
}

// Lookup returns the vertex for the specified hash. Implementations must
// resolve in O(1) time and must return ErrVertexNotFound when the hash is
// unknown. A vertex returned for a direct dependency of a vertex being
// derived must already carry its static metadata.
type Lookup func(vertexHash string) (Vertex, error)

// =============================================================================

// Hash returns a unique string for the value.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// minHeightOf reads the derived min-height of a dependency. The topological
// precondition guarantees the metadata exists; a missing record means the
// caller processed vertices out of order.
func minHeightOf(v Vertex) (uint64, error) {
	switch vtx := v.(type) {
	case *Block:
		if vtx.meta == nil {
			return 0, ErrMetadataNotDerived
		}
		return vtx.meta.MinHeight, nil

	case *Transaction:
		if vtx.meta == nil {
			return 0, ErrMetadataNotDerived
		}
		return vtx.meta.MinHeight, nil
	}

	return 0, ErrUnsupportedVertexKind
}
