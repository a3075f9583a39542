package public

import (
	"encoding/json"

	"github.com/hongmengning/hathor-core/foundation/ledger/vertex"
)

// vertexInfo is the response form for a single vertex. The record document
// is the same compact form the node persists.
type vertexInfo struct {
	Hash           string          `json:"hash"`
	Kind           vertex.Kind     `json:"kind"`
	Genesis        bool            `json:"genesis"`
	StaticMetadata json.RawMessage `json:"static_metadata"`
}

// toVertexInfo constructs a vertexInfo from the specified vertex.
func toVertexInfo(v vertex.Vertex) (vertexInfo, error) {
	var doc []byte
	var err error

	switch vtx := v.(type) {
	case *vertex.Block:
		doc, err = vtx.StaticMetadata().Encode()
	case *vertex.Transaction:
		doc, err = vtx.StaticMetadata().Encode()
	}
	if err != nil {
		return vertexInfo{}, err
	}

	return vertexInfo{
		Hash:           v.Hash(),
		Kind:           v.Kind(),
		Genesis:        v.IsGenesis(),
		StaticMetadata: doc,
	}, nil
}
