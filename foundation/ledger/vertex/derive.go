package vertex

import (
	"fmt"

	"github.com/hongmengning/hathor-core/foundation/ledger/genesis"
)

// DeriveBlockStaticMetadata computes the derived record for a block that is
// being accepted. The block must not carry a record yet and every direct
// dependency returned by lookup must already carry one. The function is pure:
// given the same block and the same dependency records it always produces
// the same result, on every node, forever.
func DeriveBlockStaticMetadata(block *Block, gen genesis.Genesis, lookup Lookup) (*BlockStaticMetadata, error) {
	if block.meta != nil {
		return nil, fmt.Errorf("derive block %s: %w", block.Hash(), ErrMetadataAlreadyDerived)
	}

	height, err := calculateHeight(block, lookup)
	if err != nil {
		return nil, fmt.Errorf("derive block %s height: %w", block.Hash(), err)
	}

	minHeight, err := calculateBlockMinHeight(block, lookup)
	if err != nil {
		return nil, fmt.Errorf("derive block %s min-height: %w", block.Hash(), err)
	}

	bitCounts, err := calculateFeatureActivationBitCounts(block, height, gen, lookup)
	if err != nil {
		return nil, fmt.Errorf("derive block %s bit counts: %w", block.Hash(), err)
	}

	meta := BlockStaticMetadata{
		StaticMetadataBase: StaticMetadataBase{
			MinHeight: minHeight,
		},
		Height:                     height,
		FeatureActivationBitCounts: bitCounts,

		// Populated by a later stage of the feature activation process. Kept
		// in the record shape so the encoding stays stable.
		FeatureStates: map[Feature]FeatureState{},
	}

	return &meta, nil
}

// calculateHeight returns the height of the block, which is the number of
// blocks between it and genesis along the block parent chain.
func calculateHeight(block *Block, lookup Lookup) (uint64, error) {
	if block.IsGenesis() {
		return 0, nil
	}

	parent, err := lookup(block.ParentBlockHash)
	if err != nil {
		return 0, err
	}

	// A block parent resolving to anything but a block means the chain
	// reference is corrupted.
	parentBlock, ok := parent.(*Block)
	if !ok {
		return 0, fmt.Errorf("parent %s: %w", block.ParentBlockHash, ErrInvalidBlockParent)
	}

	if parentBlock.meta == nil {
		return 0, fmt.Errorf("parent %s: %w", block.ParentBlockHash, ErrMetadataNotDerived)
	}

	return parentBlock.meta.Height + 1, nil
}

// calculateBlockMinHeight returns the maximum min-height among the block's
// transaction parents. This carries the strictest reward lock floor forward
// through the block graph.
func calculateBlockMinHeight(block *Block, lookup Lookup) (uint64, error) {
	if block.IsGenesis() {
		return 0, nil
	}

	var minHeight uint64
	for _, txHash := range block.TxParents {
		tx, err := lookup(txHash)
		if err != nil {
			return 0, err
		}

		txMinHeight, err := minHeightOf(tx)
		if err != nil {
			return 0, fmt.Errorf("tx parent %s: %w", txHash, err)
		}

		minHeight = max(minHeight, txMinHeight)
	}

	return minHeight, nil
}

// calculateFeatureActivationBitCounts combines the rolling bit counts carried
// from the parent block with the block's own signal bits. A boundary block,
// whose height is an exact multiple of the evaluation interval, starts a new
// window with no carry over.
func calculateFeatureActivationBitCounts(block *Block, height uint64, gen genesis.Genesis, lookup Lookup) ([]uint64, error) {
	previousCounts, err := previousFeatureActivationBitCounts(block, height, gen, lookup)
	if err != nil {
		return nil, err
	}

	bits := block.FeatureSignalBits(gen.MaxSignalBits)

	// Add the two sequences index-wise, zero-extending the shorter one so
	// the tracked bit vector width can grow over time without breaking
	// records computed under an older width.
	counts := make([]uint64, max(len(previousCounts), len(bits)))
	for i := range counts {
		if i < len(previousCounts) {
			counts[i] += previousCounts[i]
		}
		if i < len(bits) {
			counts[i] += bits[i]
		}
	}

	return counts, nil
}

// previousFeatureActivationBitCounts returns the bit counts of the parent
// block, or no counts at all when the block starts a new evaluation window.
func previousFeatureActivationBitCounts(block *Block, height uint64, gen genesis.Genesis, lookup Lookup) ([]uint64, error) {
	isBoundaryBlock := height%gen.EvaluationInterval == 0
	if isBoundaryBlock {
		return nil, nil
	}

	parent, err := lookup(block.ParentBlockHash)
	if err != nil {
		return nil, err
	}

	parentBlock, ok := parent.(*Block)
	if !ok {
		return nil, fmt.Errorf("parent %s: %w", block.ParentBlockHash, ErrInvalidBlockParent)
	}

	if parentBlock.meta == nil {
		return nil, fmt.Errorf("parent %s: %w", block.ParentBlockHash, ErrMetadataNotDerived)
	}

	return parentBlock.meta.FeatureActivationBitCounts, nil
}

// =============================================================================

// DeriveTransactionStaticMetadata computes the derived record for a
// transaction that is being accepted. The same purity and precondition rules
// as for blocks apply.
func DeriveTransactionStaticMetadata(tx *Transaction, gen genesis.Genesis, lookup Lookup) (*TransactionStaticMetadata, error) {
	if tx.meta != nil {
		return nil, fmt.Errorf("derive tx %s: %w", tx.Hash(), ErrMetadataAlreadyDerived)
	}

	minHeight, err := calculateTranMinHeight(tx, gen, lookup)
	if err != nil {
		return nil, fmt.Errorf("derive tx %s min-height: %w", tx.Hash(), err)
	}

	meta := TransactionStaticMetadata{
		StaticMetadataBase: StaticMetadataBase{
			MinHeight: minHeight,
		},
	}

	return &meta, nil
}

// calculateTranMinHeight returns the min-height the first block confirming
// this transaction needs to have for reward lock verification.
func calculateTranMinHeight(tx *Transaction, gen genesis.Genesis, lookup Lookup) (uint64, error) {
	if tx.IsGenesis() {
		return 0, nil
	}

	// Never report a floor weaker than anything this transaction depends on.
	inherited, err := inheritedMinHeight(tx, lookup)
	if err != nil {
		return 0, err
	}

	// Include the floor for any block reward being spent.
	own, err := rewardSpendMinHeight(tx, gen, lookup)
	if err != nil {
		return 0, err
	}

	return max(inherited, own), nil
}

// inheritedMinHeight returns the maximum min-height among every vertex this
// transaction directly references, both its transaction parents and the
// vertices whose outputs it spends.
func inheritedMinHeight(tx *Transaction, lookup Lookup) (uint64, error) {
	deps := make([]string, 0, len(tx.TxParents)+len(tx.Inputs))
	deps = append(deps, tx.TxParents...)
	for _, in := range tx.Inputs {
		deps = append(deps, in.TxID)
	}

	var minHeight uint64
	for _, hash := range deps {
		dep, err := lookup(hash)
		if err != nil {
			return 0, err
		}

		depMinHeight, err := minHeightOf(dep)
		if err != nil {
			return 0, fmt.Errorf("dependency %s: %w", hash, err)
		}

		minHeight = max(minHeight, depMinHeight)
	}

	return minHeight, nil
}

// rewardSpendMinHeight returns the floor derived from the block rewards this
// transaction spends: the first height at which each reward becomes eligible,
// which is the reward block's height plus the configured number of
// confirmations plus one.
func rewardSpendMinHeight(tx *Transaction, gen genesis.Genesis, lookup Lookup) (uint64, error) {
	var minHeight uint64
	for _, in := range tx.Inputs {
		spent, err := lookup(in.TxID)
		if err != nil {
			return 0, err
		}

		spentBlock, ok := spent.(*Block)
		if !ok {
			continue
		}

		if spentBlock.meta == nil {
			return 0, fmt.Errorf("spent block %s: %w", in.TxID, ErrMetadataNotDerived)
		}

		minHeight = max(minHeight, spentBlock.meta.Height+gen.RewardSpendMinBlocks+1)
	}

	return minHeight, nil
}
