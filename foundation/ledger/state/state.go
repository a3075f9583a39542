// Package state is the core API for the ledger and implements the acceptance
// pipeline that derives static metadata for every vertex exactly once.
package state

import (
	"sync"

	"github.com/hongmengning/hathor-core/foundation/ledger/database"
	"github.com/hongmengning/hathor-core/foundation/ledger/genesis"
	"github.com/hongmengning/hathor-core/foundation/ledger/vertex"
)

// EventHandler defines a function that is called when events occur in the
// processing of accepting vertices.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for the background vertex intake.
type Worker interface {
	Shutdown()
	SignalNewVertex(v vertex.Vertex) error
}

// =============================================================================

// Config represents the configuration required to start the ledger state.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Serializer
	EvHandler EventHandler
}

// State manages the ledger database and the acceptance of new vertices.
type State struct {
	mu sync.Mutex

	evHandler EventHandler
	genesis   genesis.Genesis
	db        *database.Database

	Worker Worker
}

// New constructs a new ledger state for vertex acceptance.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	db, err := database.New(cfg.Genesis, cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	state := State{
		evHandler: ev,
		genesis:   cfg.Genesis,
		db:        db,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start the intake processing.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {

	// Make sure the database is properly closed.
	defer func() {
		s.db.Close()
	}()

	// Stop any background intake activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
