package state

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hongmengning/hathor-core/foundation/ledger/vertex"
)

// ErrGenesisVertex is returned when a genesis vertex is submitted for
// acceptance. Genesis vertices are seeded when the database is opened.
var ErrGenesisVertex = errors.New("genesis vertices are seeded at open")

// =============================================================================

// AcceptVertex takes a vertex whose validity has already been established,
// derives its static metadata, and commits it to the ledger. Vertices must
// be accepted in topological order: every direct dependency has to be
// committed before the vertex that references it. The mutex makes the
// derive-attach-persist sequence a single-writer commit, which is what lets
// concurrent submitters rely on the precondition.
func (s *State) AcceptVertex(v vertex.Vertex) error {
	s.evHandler("state: acceptVertex: started: vertex[%s] kind[%s]", v.Hash(), v.Kind())
	defer s.evHandler("state: acceptVertex: completed: vertex[%s]", v.Hash())

	s.mu.Lock()
	defer s.mu.Unlock()

	// Deriving is a creation time operation. A vertex arriving with a record
	// already attached points at a bug in the caller.
	if v.HasStaticMetadata() {
		return fmt.Errorf("vertex %s: %w", v.Hash(), vertex.ErrMetadataAlreadyDerived)
	}

	if v.IsGenesis() {
		return fmt.Errorf("vertex %s: %w", v.Hash(), ErrGenesisVertex)
	}

	if _, err := s.db.GetVertex(v.Hash()); err == nil {
		return fmt.Errorf("vertex %s already accepted", v.Hash())
	}

	// Check the topological precondition at the boundary so an ordering bug
	// surfaces here instead of producing wrong numbers downstream.
	if err := s.checkDependencies(v); err != nil {
		return err
	}

	if err := s.deriveAttach(v); err != nil {
		return err
	}

	// Commit the vertex. From this point the record is a constant for the
	// lifetime of the node.
	if err := s.db.Add(v); err != nil {
		return err
	}
	if err := s.db.Write(v); err != nil {
		return err
	}

	s.acceptedEvent(v)

	return nil
}

// checkDependencies verifies that every vertex directly referenced is
// committed and carries its metadata.
func (s *State) checkDependencies(v vertex.Vertex) error {
	for _, hash := range directDependencies(v) {
		dep, err := s.db.GetVertex(hash)
		if err != nil {
			return fmt.Errorf("vertex %s: dependency not committed: %w", v.Hash(), err)
		}

		if !dep.HasStaticMetadata() {
			return fmt.Errorf("vertex %s: dependency %s: %w", v.Hash(), hash, vertex.ErrMetadataNotDerived)
		}
	}

	return nil
}

// deriveAttach runs the derivation for the vertex kind and attaches the
// resulting record.
func (s *State) deriveAttach(v vertex.Vertex) error {
	switch vtx := v.(type) {
	case *vertex.Block:
		meta, err := vertex.DeriveBlockStaticMetadata(vtx, s.genesis, s.db.Lookup())
		if err != nil {
			return err
		}
		return vtx.SetStaticMetadata(meta)

	case *vertex.Transaction:
		meta, err := vertex.DeriveTransactionStaticMetadata(vtx, s.genesis, s.db.Lookup())
		if err != nil {
			return err
		}
		return vtx.SetStaticMetadata(meta)
	}

	return fmt.Errorf("vertex %s: %w", v.Hash(), vertex.ErrUnsupportedVertexKind)
}

// directDependencies returns the hashes of every vertex the specified vertex
// directly references. The derivation never walks further than these.
func directDependencies(v vertex.Vertex) []string {
	switch vtx := v.(type) {
	case *vertex.Block:
		deps := make([]string, 0, 1+len(vtx.TxParents))
		deps = append(deps, vtx.ParentBlockHash)
		deps = append(deps, vtx.TxParents...)
		return deps

	case *vertex.Transaction:
		deps := make([]string, 0, len(vtx.TxParents)+len(vtx.Inputs))
		deps = append(deps, vtx.TxParents...)
		for _, in := range vtx.Inputs {
			deps = append(deps, in.TxID)
		}
		return deps
	}

	return nil
}

// acceptedEvent provides a specific event about a newly accepted vertex for
// application specific support.
func (s *State) acceptedEvent(v vertex.Vertex) {
	event := struct {
		Hash string      `json:"hash"`
		Kind vertex.Kind `json:"kind"`
	}{
		Hash: v.Hash(),
		Kind: v.Kind(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.evHandler("state: acceptedEvent: WARNING: %s", err)
		return
	}

	s.evHandler("viewer: vertex accepted: %s", data)
}
