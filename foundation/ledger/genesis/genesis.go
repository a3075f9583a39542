// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// Genesis represents the genesis file. Beyond identifying the chain, it
// carries the consensus settings the static metadata derivation depends on.
// These values are part of the consensus rules and must never change for a
// running chain.
type Genesis struct {
	Date                 time.Time `json:"date"`
	ChainID              uint16    `json:"chain_id"`                            // The chain id represents an unique id for this running instance.
	EvaluationInterval   uint64    `json:"evaluation_interval" validate:"gt=0"` // Number of blocks in a feature activation evaluation window.
	RewardSpendMinBlocks uint64    `json:"reward_spend_min_blocks"`             // Confirmations required before a block reward can be spent.
	MaxSignalBits        uint8     `json:"max_signal_bits" validate:"gt=0"`     // Width of the per-block feature signal bit vector.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	// The derivation algorithms divide by the evaluation interval and index
	// by signal bit, so a malformed genesis file must be caught here.
	if err := validator.New().Struct(genesis); err != nil {
		return Genesis{}, fmt.Errorf("invalid genesis file %q: %w", path, err)
	}

	return genesis, nil
}

// Save writes the specified genesis information to disk.
func Save(path string, genesis Genesis) error {
	data, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	return nil
}
